package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.RegistryConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c, srv
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(config.RegistryConfig{APIKey: "k"}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderUnavailable))

	_, err = NewClient(config.RegistryConfig{BaseURL: "ftp://example.com", APIKey: "k"}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderUnavailable))

	_, err = NewClient(config.RegistryConfig{BaseURL: "https://example.com"}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderAuthFailed))
}

func TestSanitizeKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Altana", "Altana"},
		{"  Grüntech  ", "Grüntech"},
		{"Müller & Söhne!", "Müller  Söhne"},
		{"Привет", "Привет"},
		{"שלום", "שלום"},
		{"<script>", "script"},
		{"@#$%", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeKeyword(tt.in), "input %q", tt.in)
	}
}

func TestSearchNormalizesProviderRecords(t *testing.T) {
	var gotKeyword, gotAPIKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeyword = r.URL.Query().Get("keyword")
		gotAPIKey = r.URL.Query().Get("api_key")
		assert.Equal(t, "/search/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 2,
			"result": [
				{
					"mid": 482913,
					"verbal": "ALTANA",
					"status": "LIVE",
					"class": [5, 42],
					"submition": "DE",
					"protection": ["DE"],
					"app": "302012345",
					"reg": "302012345",
					"date": {"applied": "20120301", "granted": "20121115"},
					"accuracy": 95
				},
				{
					"mid": 7,
					"verbal": "",
					"status": "DEAD",
					"class": [],
					"submition": "WO",
					"protection": ["BX", "CH"],
					"date": {"granted": "notadate"},
					"accuracy": 40
				}
			]
		}`))
	}))

	res, err := c.Search(context.Background(), "Altana")
	require.NoError(t, err)
	assert.Equal(t, "Altana", gotKeyword)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Hits, 2)

	first := res.Hits[0]
	assert.Equal(t, "tm-482913", first.RegistryID)
	assert.Equal(t, "ALTANA", first.Name)
	assert.Equal(t, trademark.StatusActive, first.Status)
	assert.Equal(t, []int{5, 42}, first.NiceClasses)
	assert.Equal(t, "DE", first.Office)
	assert.Equal(t, 95, first.Accuracy)
	require.NotNil(t, first.RegistrationDate)
	assert.Equal(t, 2012, first.RegistrationDate.Year())
	require.NotNil(t, first.ApplicationDate)
	assert.Equal(t, time.March, first.ApplicationDate.Month())

	second := res.Hits[1]
	assert.Equal(t, "TM-7", second.Name, "missing verbal element gets a synthetic name")
	assert.Equal(t, trademark.StatusExpired, second.Status)
	assert.Equal(t, []string{"BX", "CH"}, second.DesignationCodes)
	assert.Nil(t, second.RegistrationDate, "malformed date parses as absent")
}

func TestSearchEmptyAfterSanitizeSkipsNetwork(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	res, err := c.Search(context.Background(), "@#$%!")
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Hits)
	assert.False(t, called, "no request should reach the provider")
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, errors.ErrCodeProviderAuthFailed},
		{"forbidden", http.StatusForbidden, `{}`, errors.ErrCodeProviderAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{}`, errors.ErrCodeProviderRateLimited},
		{"server error", http.StatusInternalServerError, `{}`, errors.ErrCodeProviderUnavailable},
		{"malformed body", http.StatusOK, `{"total": "not-a-number"`, errors.ErrCodeProviderParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			_, err := c.Search(context.Background(), "Altana")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestSearchWithFiltersDegradesOnProviderFailure(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close()

	res := c.SearchWithFilters(context.Background(), "Altana", Filters{})
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Hits)
	assert.Zero(t, res.Filtered)
}

func TestSearchWithFiltersCountsRemoved(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"total": 3,
			"result": [
				{"mid": 1, "verbal": "A", "status": "LIVE", "submition": "DE", "protection": ["DE"], "accuracy": 90},
				{"mid": 2, "verbal": "B", "status": "DEAD", "submition": "DE", "protection": ["DE"], "accuracy": 90},
				{"mid": 3, "verbal": "C", "status": "LIVE", "submition": "DE", "protection": ["DE"], "accuracy": 20}
			]
		}`))
	}))

	res := c.SearchWithFilters(context.Background(), "A", Filters{
		Status:      string(trademark.StatusActive),
		MinAccuracy: 50,
	})
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "tm-1", res.Hits[0].RegistryID)
	assert.Equal(t, 2, res.Filtered)
}

func TestFetchDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info/", r.URL.Path)
		assert.Equal(t, "482913", r.URL.Query().Get("mid"))
		w.Write([]byte(`{
			"mid": 482913,
			"verbal": "ALTANA",
			"status": "LIVE",
			"class": [
				{"number": 5, "description": "Pharmaceutical preparations"},
				{"number": 42, "description": "Scientific services"}
			],
			"submition": "DE",
			"protection": ["DE"],
			"owner": {"name": "Altana AG", "country": "DE"},
			"accuracy": 95
		}`))
	}))

	hit, detail, err := c.FetchDetail(context.Background(), "tm-482913")
	require.NoError(t, err)
	assert.Equal(t, "tm-482913", hit.RegistryID)
	assert.Equal(t, []int{5, 42}, hit.NiceClasses)
	require.NotNil(t, detail)
	assert.Equal(t, "Altana AG", detail.Holder)
	assert.Equal(t, "DE", detail.HolderCountry)
	assert.Equal(t, "Pharmaceutical preparations | Scientific services", detail.GoodsServices)
}

func TestFetchDetailMalformedID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, _, err := c.FetchDetail(context.Background(), "482913")
	assert.True(t, errors.IsCode(err, errors.ErrCodeTrademarkNotFound))

	_, _, err = c.FetchDetail(context.Background(), "tm-abc")
	assert.True(t, errors.IsCode(err, errors.ErrCodeTrademarkNotFound))
}

func TestFetchDetailNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, _, err := c.FetchDetail(context.Background(), "tm-99")
	assert.True(t, errors.IsCode(err, errors.ErrCodeTrademarkNotFound))
}

func TestFetchDetailByNumber(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "302012345", r.URL.Query().Get("number"))
		assert.Equal(t, "REG", r.URL.Query().Get("type"))
		assert.Equal(t, "DE", r.URL.Query().Get("office"))
		w.Write([]byte(`{"mid": 482913, "verbal": "ALTANA", "status": "LIVE", "submition": "DE"}`))
	}))

	hit, _, err := c.FetchDetailByNumber(context.Background(), "302012345", "REG", "DE")
	require.NoError(t, err)
	assert.Equal(t, "tm-482913", hit.RegistryID)

	_, _, err = c.FetchDetailByNumber(context.Background(), "", "REG", "DE")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestMIDFromRegistryID(t *testing.T) {
	mid, err := MIDFromRegistryID("tm-42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mid)
}

// mapSearchCache is an in-memory SearchCache for tests.
type mapSearchCache struct {
	entries map[string][]byte
}

func newMapSearchCache() *mapSearchCache {
	return &mapSearchCache{entries: make(map[string][]byte)}
}

func (m *mapSearchCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return errors.New(errors.ErrCodeCacheError, "miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapSearchCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func TestSearchPageCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"total": 1, "result": [{"mid": 1, "verbal": "ALTANA", "status": "LIVE", "submition": "DE", "accuracy": 90}]}`))
	}))
	t.Cleanup(srv.Close)

	cache := newMapSearchCache()
	c, err := NewClient(config.RegistryConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, logging.NewNopLogger(), WithSearchCache(cache, time.Hour))
	require.NoError(t, err)

	first, err := c.Search(context.Background(), "Altana")
	require.NoError(t, err)
	require.Len(t, first.Hits, 1)
	assert.Equal(t, 1, calls)

	// Case and surrounding whitespace fold onto the same page.
	second, err := c.Search(context.Background(), "  ALTANA ")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	// A distinct keyword goes to the provider.
	_, err = c.Search(context.Background(), "Brontal")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
