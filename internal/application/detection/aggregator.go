package detection

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// Defaults of the aggregation policy.
const (
	DefaultSearchConcurrency = 2
	DefaultMaxAggregated     = 50
)

// Searcher is the provider round trip the aggregator fans out over.  A failed
// search yields an empty page, never an error; that contract lives in the
// registry client.
type Searcher interface {
	SearchWithFilters(ctx context.Context, keyword string, filters registry.Filters) registry.FilteredResult
}

// AggregateResult is the merged, deduplicated outcome of one fan-out.
type AggregateResult struct {
	// Hits holds one entry per distinct registry id, sorted descending by
	// provider accuracy.
	Hits []trademark.AggregatedHit

	// TotalHits counts provider hits before dedup and filtering.
	TotalHits int

	// FilteredOut counts hits the client-side filters removed.
	FilteredOut int

	// SearchesRun counts provider round trips actually performed.
	SearchesRun int
}

// Aggregator fans one search per variant term out to the provider with
// bounded concurrency and merges the pages by registry id.
type Aggregator struct {
	searcher      Searcher
	concurrency   int
	maxAggregated int
	logger        logging.Logger
}

// NewAggregator validates the concurrency limit at construction.  The limit
// is a rate contract with the provider; zero or negative is a configuration
// defect.
func NewAggregator(searcher Searcher, concurrency, maxAggregated int, log logging.Logger) (*Aggregator, error) {
	if concurrency < 1 {
		return nil, errors.Newf(errors.ErrCodeConcurrencyInvalid,
			"search concurrency %d must be >= 1", concurrency)
	}
	if maxAggregated < 1 {
		maxAggregated = DefaultMaxAggregated
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Aggregator{
		searcher:      searcher,
		concurrency:   concurrency,
		maxAggregated: maxAggregated,
		logger:        log.Named("aggregator"),
	}, nil
}

// Aggregate searches every variant term and merges the results.  Context
// cancellation abandons in-flight searches; whatever was merged before the
// cancellation is returned, not discarded.
func (a *Aggregator) Aggregate(ctx context.Context, variants []trademark.SearchVariant, filters registry.Filters) AggregateResult {
	var (
		mu       sync.Mutex
		byID     = make(map[string]*trademark.AggregatedHit)
		total    int
		filtered int
		searches int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, v := range variants {
		term := v.Term
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			page := a.searcher.SearchWithFilters(gctx, term, filters)

			mu.Lock()
			defer mu.Unlock()
			searches++
			total += page.Total
			filtered += page.Filtered
			for _, hit := range page.Hits {
				merge(byID, hit, term)
			}
			return nil
		})
	}
	_ = g.Wait()

	hits := make([]trademark.AggregatedHit, 0, len(byID))
	for _, h := range byID {
		sort.Strings(h.MatchedTerms)
		hits = append(hits, *h)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Accuracy != hits[j].Accuracy {
			return hits[i].Accuracy > hits[j].Accuracy
		}
		return hits[i].RegistryID < hits[j].RegistryID
	})
	if len(hits) > a.maxAggregated {
		hits = hits[:a.maxAggregated]
	}

	a.logger.Debug("aggregation complete",
		logging.Int("searches", searches),
		logging.Int("total_hits", total),
		logging.Int("distinct", len(hits)),
		logging.Int("filtered_out", filtered))

	return AggregateResult{
		Hits:        hits,
		TotalHits:   total,
		FilteredOut: filtered,
		SearchesRun: searches,
	}
}

// merge folds one raw hit into the per-registry-id accumulator.  The entry
// keeps the maximum accuracy any term produced and records every term that
// surfaced the mark.
func merge(byID map[string]*trademark.AggregatedHit, hit trademark.RawRegistryHit, term string) {
	existing, ok := byID[hit.RegistryID]
	if !ok {
		byID[hit.RegistryID] = &trademark.AggregatedHit{
			RawRegistryHit: hit,
			MatchedTerms:   []string{term},
		}
		return
	}
	if hit.Accuracy > existing.Accuracy {
		existing.RawRegistryHit = hit
	}
	for _, t := range existing.MatchedTerms {
		if t == term {
			return
		}
	}
	existing.MatchedTerms = append(existing.MatchedTerms, term)
}
