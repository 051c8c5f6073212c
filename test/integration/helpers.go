// Shared infrastructure for detection integration tests: a fake registry
// provider speaking the provider wire format, and an engine factory wired
// against it.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/conflict"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	"github.com/accelari/trademarkiq2-sub002/internal/testutil"
)

// wireMark is one record in the provider's own wire format.
type wireMark struct {
	MID        int64    `json:"mid"`
	Verbal     string   `json:"verbal"`
	Status     string   `json:"status"`
	Class      []int    `json:"class"`
	Submition  string   `json:"submition"`
	Protection []string `json:"protection"`
	Accuracy   int      `json:"accuracy"`
}

type wireSearchResponse struct {
	Total  int        `json:"total"`
	Result []wireMark `json:"result"`
}

type wireOwner struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type wireInfoClass struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// wireInfoResponse matches the /info/ payload, whose class field carries
// descriptions instead of the search endpoint's bare numbers.
type wireInfoResponse struct {
	MID        int64           `json:"mid"`
	Verbal     string          `json:"verbal"`
	Status     string          `json:"status"`
	Class      []wireInfoClass `json:"class"`
	Submition  string          `json:"submition"`
	Protection []string        `json:"protection"`
	Accuracy   int             `json:"accuracy"`
	Owner      *wireOwner      `json:"owner"`
}

// fakeProvider serves /search/ and /info/ the way the real provider does:
// keyword search is a case-insensitive substring match over verbal elements.
type fakeProvider struct {
	*httptest.Server
	marks []wireMark
}

func newFakeProvider(t *testing.T, marks []wireMark) *fakeProvider {
	t.Helper()
	p := &fakeProvider{marks: marks}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		keyword := strings.ToLower(r.URL.Query().Get("keyword"))
		var matched []wireMark
		for _, m := range p.marks {
			if strings.Contains(strings.ToLower(m.Verbal), keyword) {
				matched = append(matched, m)
			}
		}
		writeJSON(t, w, wireSearchResponse{Total: len(matched), Result: matched})
	})
	mux.HandleFunc("/info/", func(w http.ResponseWriter, r *http.Request) {
		mid, _ := strconv.ParseInt(r.URL.Query().Get("mid"), 10, 64)
		for _, m := range p.marks {
			if m.MID == mid {
				classes := make([]wireInfoClass, 0, len(m.Class))
				for _, n := range m.Class {
					classes = append(classes, wireInfoClass{Number: n, Description: "goods"})
				}
				writeJSON(t, w, wireInfoResponse{
					MID:        m.MID,
					Verbal:     m.Verbal,
					Status:     m.Status,
					Class:      classes,
					Submition:  m.Submition,
					Protection: m.Protection,
					Accuracy:   m.Accuracy,
					Owner:      &wireOwner{Name: "Registered Holder AG", Country: "DE"},
				})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)
	return p
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// engineOptions tune the engine under test; the zero value matches the
// production defaults scaled down for tests.
type engineOptions struct {
	cache            rediscache.Cache
	detailFetchLimit int
	logger           *testutil.MockLogger
}

// newTestEngine builds a full detection engine against the given provider
// base URL: real variant generation, aggregation, scoring and ranking, with
// events and audit disabled.
func newTestEngine(t *testing.T, baseURL string, opts engineOptions) *detection.Engine {
	t.Helper()

	logger := opts.logger
	if logger == nil {
		logger = testutil.NewMockLogger()
	}
	cache := opts.cache
	if cache == nil {
		cache = rediscache.NewMemoryCache()
	}

	registryCfg := config.RegistryConfig{
		BaseURL:          baseURL,
		APIKey:           "test-key",
		RequestTimeout:   5 * time.Second,
		DetailFetchLimit: opts.detailFetchLimit,
	}
	registryClient, err := registry.NewClient(registryCfg, logger)
	require.NoError(t, err)

	aggregator, err := detection.NewAggregator(registryClient, 2, 50, logger)
	require.NoError(t, err)

	ranker, err := conflict.NewRanker(50, 20)
	require.NoError(t, err)

	variants := detection.NewVariantProvider(logger,
		detection.WithVariantCache(cache, time.Hour))

	engine, err := detection.NewEngine(detection.EngineDeps{
		Jurisdictions: jurisdiction.NewMap(),
		Variants:      variants,
		Aggregator:    aggregator,
		Ranker:        ranker,
		Details:       registryClient,
		Logger:        logger,
	}, config.DetectionConfig{MaxVariants: 8}, registryCfg)
	require.NoError(t, err)
	return engine
}
