package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// keywordAllowed keeps Latin (with European diacritics), Cyrillic and Hebrew
// letters, digits and whitespace.  Everything else is stripped before the
// keyword reaches the provider.
var keywordAllowed = regexp.MustCompile(`[^a-zA-Z0-9\x{00C0}-\x{024F}\x{0400}-\x{04FF}\x{0590}-\x{05FF}\s]`)

// SanitizeKeyword strips characters the provider rejects and trims the rest.
// An empty return value means the term is not searchable at all.
func SanitizeKeyword(keyword string) string {
	return strings.TrimSpace(keywordAllowed.ReplaceAllString(keyword, ""))
}

// SearchResult is one raw provider response, normalized.
type SearchResult struct {
	Total int
	Hits  []trademark.RawRegistryHit
}

// FilteredResult is a SearchResult after client-side filtering.  Filtered
// counts the hits the filters removed.
type FilteredResult struct {
	Total    int
	Hits     []trademark.RawRegistryHit
	Filtered int
}

// SearchCache stores raw search pages keyed by sanitized keyword.  The redis
// cache satisfies this.
type SearchCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Client talks to the external trademark-search provider.  The provider
// exposes a single keyword search across all offices; jurisdiction and class
// narrowing happen client-side in SearchWithFilters.
type Client struct {
	baseURL  string
	apiKey   string
	hc       *http.Client
	cache    SearchCache
	cacheTTL time.Duration
	logger   logging.Logger
}

// ClientOption tunes the provider client.
type ClientOption func(*Client)

// WithSearchCache caches raw search pages for ttl.  Cached pages are
// pre-filter, so one page serves runs with different class or office
// constraints.
func WithSearchCache(cache SearchCache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient builds a provider client from the registry section of the
// runtime configuration.
func NewClient(cfg config.RegistryConfig, logger logging.Logger, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeProviderUnavailable, "registry base URL is empty")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errors.Newf(errors.ErrCodeProviderUnavailable, "invalid registry base URL %q", cfg.BaseURL)
	}
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeProviderAuthFailed, "registry API key is empty")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
		logger:  logger.Named("registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MIDFromRegistryID recovers the provider's numeric mark id from an
// engine-side registry id such as "tm-482913".
func MIDFromRegistryID(id string) (int64, error) {
	raw, ok := strings.CutPrefix(id, "tm-")
	if !ok {
		return 0, errors.Newf(errors.ErrCodeTrademarkNotFound, "malformed registry id %q", id)
	}
	mid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrCodeTrademarkNotFound, "malformed registry id %q", id)
	}
	return mid, nil
}

// get performs one provider call and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + "/" + endpoint + "/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderUnavailable, "build provider request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderUnavailable, "provider request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderUnavailable, "read provider response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Newf(errors.ErrCodeProviderAuthFailed, "provider rejected credentials (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeProviderRateLimited, "provider rate limit exceeded")
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeTrademarkNotFound, "trademark not found")
	case resp.StatusCode >= 400:
		return errors.Newf(errors.ErrCodeProviderUnavailable, "provider returned HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderParseError, "decode provider response")
	}
	return nil
}

// Search runs one raw keyword search.  A keyword that sanitizes to the empty
// string short-circuits to an empty result without a network call.
func (c *Client) Search(ctx context.Context, keyword string) (SearchResult, error) {
	clean := SanitizeKeyword(keyword)
	if clean == "" {
		c.logger.Debug("keyword empty after sanitization, skipping search",
			logging.String("raw_keyword", keyword))
		return SearchResult{}, nil
	}

	cacheKey := "search:" + strings.ToLower(clean)
	if c.cache != nil {
		var cached SearchResult
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			c.logger.Debug("search page served from cache", logging.String("keyword", clean))
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("keyword", clean)

	var resp searchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return SearchResult{}, err
	}

	hits := make([]trademark.RawRegistryHit, 0, len(resp.Result))
	for _, rec := range resp.Result {
		hits = append(hits, normalizeSearchRecord(rec))
	}
	result := SearchResult{Total: resp.Total, Hits: hits}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, result, c.cacheTTL); err != nil {
			c.logger.Warn("search page cache write failed", logging.Err(err))
		}
	}
	return result, nil
}

// SearchWithFilters runs one raw keyword search and applies the client-side
// filters on the result.  Provider failures degrade to an empty result: a
// single unreachable or misbehaving provider must not abort a detection run
// that aggregates many terms.
func (c *Client) SearchWithFilters(ctx context.Context, keyword string, filters Filters) FilteredResult {
	start := time.Now()
	raw, err := c.Search(ctx, keyword)
	if err != nil {
		c.logger.Warn("provider search failed, returning empty result",
			logging.String("keyword", keyword),
			logging.Duration("duration", time.Since(start)),
			logging.Err(err))
		return FilteredResult{}
	}

	kept, dropped := filters.Apply(raw.Hits)
	c.logger.Debug("provider search completed",
		logging.String("keyword", keyword),
		logging.Int("raw_hits", len(raw.Hits)),
		logging.Int("filtered_out", dropped),
		logging.Duration("duration", time.Since(start)))

	return FilteredResult{Total: raw.Total, Hits: kept, Filtered: dropped}
}

// FetchDetail pulls the full record for one mark by provider id.  Unlike
// search, detail fetches surface their errors: the caller asked for one
// specific record and needs to know when it is missing.
func (c *Client) FetchDetail(ctx context.Context, registryID string) (trademark.RawRegistryHit, *trademark.HolderDetail, error) {
	mid, err := MIDFromRegistryID(registryID)
	if err != nil {
		return trademark.RawRegistryHit{}, nil, err
	}

	params := url.Values{}
	params.Set("mid", strconv.FormatInt(mid, 10))

	var resp infoResponse
	if err := c.get(ctx, "info", params, &resp); err != nil {
		return trademark.RawRegistryHit{}, nil, err
	}
	hit, detail := normalizeInfoResponse(resp)
	return hit, detail, nil
}

// FetchDetailByNumber pulls the full record for one mark by its application
// or registration number within a given office.  numberType is "APP" or
// "REG"; empty defaults to "APP".
func (c *Client) FetchDetailByNumber(ctx context.Context, number, numberType, office string) (trademark.RawRegistryHit, *trademark.HolderDetail, error) {
	if number == "" || office == "" {
		return trademark.RawRegistryHit{}, nil, errors.New(errors.ErrCodeBadRequest, "number and office are both required")
	}
	if numberType == "" {
		numberType = "APP"
	}

	params := url.Values{}
	params.Set("number", number)
	params.Set("type", numberType)
	params.Set("office", office)

	var resp infoResponse
	if err := c.get(ctx, "info", params, &resp); err != nil {
		return trademark.RawRegistryHit{}, nil, err
	}
	hit, detail := normalizeInfoResponse(resp)
	return hit, detail, nil
}
