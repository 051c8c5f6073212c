package detection

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/accelari/trademarkiq2-sub002/internal/domain/variant"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/prometheus"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// DefaultVariantCacheTTL bounds how long a cached variant strategy is served
// before it is regenerated.
const DefaultVariantCacheTTL = 24 * time.Hour

// VariantSource produces the search terms for a candidate name.  The
// rule-based source is the only one the engine ships; a generative source
// can be plugged in behind the same interface.
type VariantSource interface {
	Variants(ctx context.Context, name string, max int) ([]trademark.SearchVariant, error)
}

type ruleBasedSource struct {
	gen *variant.Generator
}

// NewRuleBasedSource returns the deterministic rule-based variant source.
func NewRuleBasedSource() VariantSource {
	return &ruleBasedSource{gen: variant.NewGenerator()}
}

func (s *ruleBasedSource) Variants(_ context.Context, name string, max int) ([]trademark.SearchVariant, error) {
	return s.gen.Generate(name, max)
}

type unimplementedRichSource struct{}

// NewUnimplementedRichSource is the placeholder generative source.  Callers
// requesting rich mode against it degrade to the rule-based output.
func NewUnimplementedRichSource() VariantSource {
	return unimplementedRichSource{}
}

func (unimplementedRichSource) Variants(context.Context, string, int) ([]trademark.SearchVariant, error) {
	return nil, errors.NewNotImplemented("generative variant source is not configured")
}

// VariantProvider resolves the variant strategy for a run, caching strategies
// by fingerprint so repeated checks of the same candidate skip regeneration.
type VariantProvider struct {
	fast    VariantSource
	rich    VariantSource
	cache   rediscache.Cache
	ttl     time.Duration
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// VariantProviderOption customizes a VariantProvider.
type VariantProviderOption func(*VariantProvider)

// WithVariantCache enables fingerprint-keyed strategy caching.
func WithVariantCache(cache rediscache.Cache, ttl time.Duration) VariantProviderOption {
	return func(p *VariantProvider) {
		p.cache = cache
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithRichSource plugs in a generative variant source for rich mode.
func WithRichSource(src VariantSource) VariantProviderOption {
	return func(p *VariantProvider) { p.rich = src }
}

// WithVariantMetrics wires generation counters and timings.
func WithVariantMetrics(m *prometheus.AppMetrics) VariantProviderOption {
	return func(p *VariantProvider) { p.metrics = m }
}

// NewVariantProvider builds a provider around the rule-based source.
func NewVariantProvider(log logging.Logger, opts ...VariantProviderOption) *VariantProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &VariantProvider{
		fast:   NewRuleBasedSource(),
		ttl:    DefaultVariantCacheTTL,
		logger: log.Named("variants"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Variants returns the strategy for the candidate, from cache when possible.
// Rich mode falls back to the rule-based source when no generative source is
// configured or the configured one fails; a degraded strategy beats no
// strategy.
func (p *VariantProvider) Variants(ctx context.Context, name string, classes []int, countries []string, mode trademark.GenerationMode, max int) ([]trademark.SearchVariant, error) {
	key := "variants:" + variant.Fingerprint(name, classes, countries, mode)

	if p.cache != nil {
		var cached []trademark.SearchVariant
		err := p.cache.Get(ctx, key, &cached)
		if err == nil && len(cached) > 0 {
			prometheus.RecordCacheAccess(p.metrics, "variants", true)
			return cached, nil
		}
		if err != nil && !stderrors.Is(err, rediscache.ErrCacheMiss) {
			p.logger.Warn("variant cache read failed", logging.Err(err))
		}
		prometheus.RecordCacheAccess(p.metrics, "variants", false)
	}

	variants, source, err := p.generate(ctx, name, mode, max)
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.VariantGenerationTotal.WithLabelValues(source).Inc()
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, variants, p.ttl); err != nil {
			p.logger.Warn("variant cache write failed", logging.Err(err))
		}
	}
	return variants, nil
}

func (p *VariantProvider) generate(ctx context.Context, name string, mode trademark.GenerationMode, max int) ([]trademark.SearchVariant, string, error) {
	if mode == trademark.ModeRich && p.rich != nil {
		start := time.Now()
		variants, err := p.rich.Variants(ctx, name, max)
		if err == nil {
			p.observeGeneration("rich", start)
			return variants, "rich", nil
		}
		p.logger.Warn("generative variant source failed, using rule-based strategy",
			logging.String("name", name), logging.Err(err))
	}

	start := time.Now()
	variants, err := p.fast.Variants(ctx, name, max)
	if err != nil {
		return nil, "", err
	}
	p.observeGeneration("rule", start)
	return variants, "rule", nil
}

func (p *VariantProvider) observeGeneration(source string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.VariantGenerationDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
