// Package detection orchestrates a collision-detection run: variant
// generation, bounded provider fan-out, similarity ranking, enrichment, and
// the side effects of a completed run (events, audit, metrics).
package detection

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/conflict"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/variant"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/postgres/repositories"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/messaging/kafka"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/prometheus"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// Request describes one detection run.
type Request struct {
	// Name is the candidate mark to check.
	Name string `json:"name"`

	// NiceClasses restricts hits to intersecting Nice classes.  Empty means
	// all classes.
	NiceClasses []int `json:"nice_classes,omitempty"`

	// Countries are the target markets; free-text names are accepted and
	// normalized through the jurisdiction tables.
	Countries []string `json:"countries,omitempty"`

	// Mode selects the variant source.  Empty defaults to fast.
	Mode trademark.GenerationMode `json:"mode,omitempty"`

	// Status filters hits by lifecycle state.  Empty defaults to active
	// marks only; pass "all" to disable the filter.
	Status string `json:"status,omitempty"`
}

// Response is the outcome of one detection run.
type Response struct {
	RunID         uuid.UUID                   `json:"run_id"`
	CandidateName string                      `json:"candidate_name"`
	Countries     []string                    `json:"countries"`
	NiceClasses   []int                       `json:"nice_classes,omitempty"`
	Offices       []jurisdiction.Office       `json:"offices"`
	Variants      []trademark.SearchVariant   `json:"variants"`
	Conflicts     []trademark.ScoredConflict  `json:"conflicts"`
	Warnings      []trademark.CoverageWarning `json:"warnings,omitempty"`

	// TotalHits counts provider hits before dedup and filtering;
	// AggregatedHits counts distinct marks after dedup; FilteredOut counts
	// hits removed by the client-side filters.
	TotalHits      int `json:"total_hits"`
	AggregatedHits int `json:"aggregated_hits"`
	FilteredOut    int `json:"filtered_out"`
	SearchesRun    int `json:"searches_run"`

	HighestRisk trademark.RiskLevel `json:"highest_risk"`
	Duration    time.Duration       `json:"-"`
	DurationMS  int64               `json:"duration_ms"`
	CompletedAt time.Time           `json:"completed_at"`
}

// DetailFetcher pulls the full record for one registry id.  The registry
// client satisfies this.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, registryID string) (trademark.RawRegistryHit, *trademark.HolderDetail, error)
}

// AuditSink persists completed runs.  The Postgres audit repository
// satisfies this; a nil sink disables persistence.
type AuditSink interface {
	Insert(ctx context.Context, rec *repositories.AuditRecord) error
}

// EngineDeps are the collaborators of the engine.  Jurisdictions, Variants,
// Aggregator, and Ranker are required; the rest degrade to no-ops when nil.
type EngineDeps struct {
	Jurisdictions *jurisdiction.Map
	Variants      *VariantProvider
	Aggregator    *Aggregator
	Ranker        *conflict.Ranker
	Details       DetailFetcher
	Publisher     kafka.Publisher
	Audit         AuditSink
	Metrics       *prometheus.AppMetrics

	// Locks serializes identical concurrent runs by input fingerprint so
	// they don't double every provider call.  Nil disables serialization.
	Locks rediscache.LockFactory

	Logger logging.Logger
}

// Engine runs collision detection end to end.
type Engine struct {
	deps             EngineDeps
	maxVariants      int
	detailFetchLimit int
	minAccuracy      int
	logger           logging.Logger
}

// NewEngine validates required collaborators and policy at construction.
func NewEngine(deps EngineDeps, detectionCfg config.DetectionConfig, registryCfg config.RegistryConfig) (*Engine, error) {
	if deps.Jurisdictions == nil || deps.Variants == nil || deps.Aggregator == nil || deps.Ranker == nil {
		return nil, errors.New(errors.ErrCodeInternal,
			"detection engine requires jurisdiction map, variant provider, aggregator, and ranker")
	}
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	maxVariants := detectionCfg.MaxVariants
	if maxVariants < 1 {
		maxVariants = 8
	}
	if registryCfg.MinAccuracy < 0 || registryCfg.MinAccuracy > 100 {
		return nil, errors.Newf(errors.ErrCodeThresholdInvalid,
			"min accuracy %d is out of range [0, 100]", registryCfg.MinAccuracy)
	}
	return &Engine{
		deps:             deps,
		maxVariants:      maxVariants,
		detailFetchLimit: registryCfg.DetailFetchLimit,
		minAccuracy:      registryCfg.MinAccuracy,
		logger:           log.Named("detection"),
	}, nil
}

// Detect runs one collision check.  Provider failures degrade to partial
// results; only invalid input or a failing variant source abort the run.
func (e *Engine) Detect(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	runID := uuid.New()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeMarkNameEmpty, "candidate name must not be empty")
	}
	for _, class := range req.NiceClasses {
		if class < 1 || class > 45 {
			return nil, errors.Newf(errors.ErrCodeNiceClassInvalid,
				"Nice class %d is out of range [1, 45]", class)
		}
	}
	mode := req.Mode
	if mode == "" {
		mode = trademark.ModeFast
	}
	if !mode.IsValid() {
		return nil, errors.Newf(errors.ErrCodeBadRequest, "unknown generation mode %q", req.Mode)
	}
	countries := jurisdiction.NormalizeCountries(req.Countries)

	log := e.logger.With(logging.String("run_id", runID.String()), logging.String("name", name))
	log.Info("detection run started",
		logging.Any("countries", countries),
		logging.Any("classes", req.NiceClasses))

	if e.deps.Locks != nil {
		lock := e.deps.Locks.NewRunLock(variant.Fingerprint(name, req.NiceClasses, countries, mode))
		if err := lock.Lock(ctx); err != nil {
			// A lock outage or a long-running twin must not fail the run.
			log.Warn("run lock not acquired", logging.Err(err))
		} else {
			defer func() {
				if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
					log.Warn("run lock release failed", logging.Err(err))
				}
			}()
		}
	}

	offices := e.officeStrategy(countries)

	variants, err := e.deps.Variants.Variants(ctx, name, req.NiceClasses, countries, mode, e.maxVariants)
	if err != nil {
		prometheus.RecordDetectionRun(e.deps.Metrics, primaryCountry(countries), false, time.Since(start), 0)
		return nil, err
	}

	// Territorial reach is enforced by the office filter; the separate
	// designation filter would drop national hits, which carry no
	// designation list.
	filters := registry.Filters{
		Status:      e.statusFilter(req.Status),
		Classes:     req.NiceClasses,
		Offices:     officeCodes(offices),
		MinAccuracy: e.minAccuracy,
	}
	agg := e.deps.Aggregator.Aggregate(ctx, variants, filters)

	conflicts := e.deps.Ranker.Rank(name, agg.Hits)
	e.enrich(ctx, conflicts, countries, log)

	warnings := jurisdiction.CoverageWarnings(countries, conflictsByCountry(conflicts))

	resp := &Response{
		RunID:          runID,
		CandidateName:  name,
		Countries:      countries,
		NiceClasses:    req.NiceClasses,
		Offices:        offices,
		Variants:       variants,
		Conflicts:      conflicts,
		Warnings:       warnings,
		TotalHits:      agg.TotalHits,
		AggregatedHits: len(agg.Hits),
		FilteredOut:    agg.FilteredOut,
		SearchesRun:    agg.SearchesRun,
		HighestRisk:    kafka.HighestRisk(conflicts),
		Duration:       time.Since(start),
		CompletedAt:    time.Now().UTC(),
	}
	resp.DurationMS = resp.Duration.Milliseconds()

	e.recordRun(resp)
	e.publishEvents(ctx, resp, log)
	e.writeAudit(ctx, resp, log)

	log.Info("detection run completed",
		logging.Int("total_hits", resp.TotalHits),
		logging.Int("conflicts", len(conflicts)),
		logging.String("highest_risk", string(resp.HighestRisk)),
		logging.Duration("duration", resp.Duration))
	return resp, nil
}

// officeStrategy unions the per-country office lists, deduplicated by code
// with first-seen order preserved.
func (e *Engine) officeStrategy(countries []string) []jurisdiction.Office {
	seen := make(map[string]bool)
	var offices []jurisdiction.Office
	for _, country := range countries {
		for _, office := range e.deps.Jurisdictions.OfficesForCountry(country) {
			if seen[office.Code] {
				continue
			}
			seen[office.Code] = true
			offices = append(offices, office)
		}
	}
	return offices
}

// statusFilter defaults to active marks; expired registrations rarely block
// a filing.  "all" disables the filter.
func (e *Engine) statusFilter(requested string) string {
	if requested == "" {
		return string(trademark.StatusActive)
	}
	return requested
}

// enrich attaches relevant countries, register deep links, and the full
// record for the top-ranked conflicts.  Detail fetch failures are logged and
// skipped; enrichment never fails a run.
func (e *Engine) enrich(ctx context.Context, conflicts []trademark.ScoredConflict, countries []string, log logging.Logger) {
	for i := range conflicts {
		c := &conflicts[i]
		c.RelevantCountries = jurisdiction.RelevantCountries(c.Office, c.DesignationCodes, countries)
		c.RegisterURL = jurisdiction.RegisterURL(jurisdiction.RegisterURLParams{
			Office:             c.Office,
			ApplicationNumber:  c.ApplicationNumber,
			RegistrationNumber: c.RegistrationNumber,
		})
	}

	if e.deps.Details == nil {
		return
	}
	limit := e.detailFetchLimit
	if limit <= 0 || limit > len(conflicts) {
		limit = len(conflicts)
	}
	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			return
		}
		_, detail, err := e.deps.Details.FetchDetail(ctx, conflicts[i].RegistryID)
		if err != nil {
			log.Warn("detail fetch failed",
				logging.String("registry_id", conflicts[i].RegistryID),
				logging.Err(err))
			continue
		}
		conflicts[i].Detail = detail
	}
}

func (e *Engine) recordRun(resp *Response) {
	prometheus.RecordDetectionRun(e.deps.Metrics, primaryCountry(resp.Countries), true,
		resp.Duration, len(resp.Conflicts))
	if e.deps.Metrics == nil {
		return
	}
	for _, c := range resp.Conflicts {
		e.deps.Metrics.ConflictsByRiskTotal.WithLabelValues(string(c.RiskLevel)).Inc()
	}
}

// publishEvents emits the run-completed event and one event per high-risk
// conflict.  Publishing is fire-and-forget: a broker outage must not fail a
// run that already produced results.
func (e *Engine) publishEvents(ctx context.Context, resp *Response, log logging.Logger) {
	if e.deps.Publisher == nil {
		return
	}

	completed := kafka.DetectionCompletedPayload{
		RunID:           resp.RunID.String(),
		CandidateName:   resp.CandidateName,
		Countries:       resp.Countries,
		NiceClasses:     resp.NiceClasses,
		VariantCount:    len(resp.Variants),
		HitCount:        resp.TotalHits,
		ConflictCount:   len(resp.Conflicts),
		HighestRisk:     string(resp.HighestRisk),
		DurationMS:      resp.DurationMS,
		CompletedAt:     resp.CompletedAt,
		CoverageWarning: len(resp.Warnings) > 0,
	}
	e.publish(ctx, kafka.TopicDetectionCompleted, "detection.completed", completed, log)

	for _, c := range resp.Conflicts {
		if c.RiskLevel != trademark.RiskHigh {
			continue
		}
		e.publish(ctx, kafka.TopicDetectionHighRisk, "detection.high_risk", kafka.HighRiskConflictPayload{
			RunID:         resp.RunID.String(),
			CandidateName: resp.CandidateName,
			RegistryID:    c.RegistryID,
			MarkName:      c.Name,
			Office:        c.Office,
			CombinedScore: c.CombinedScore,
			RiskLevel:     string(c.RiskLevel),
			MatchedTerms:  c.MatchedTerms,
			RegisterURL:   c.RegisterURL,
			DetectedAt:    resp.CompletedAt,
		}, log)
	}
}

func (e *Engine) publish(ctx context.Context, topic, eventType string, payload interface{}, log logging.Logger) {
	envelope, err := kafka.NewEventEnvelope(eventType, "detection-engine", payload)
	if err != nil {
		log.Error("failed to build event envelope", logging.String("topic", topic), logging.Err(err))
		return
	}
	status := "success"
	if err := e.deps.Publisher.PublishEnvelope(ctx, topic, envelope); err != nil {
		status = "failure"
		log.Warn("event publish failed", logging.String("topic", topic), logging.Err(err))
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.EventPublishesTotal.WithLabelValues(topic, status).Inc()
	}
}

// writeAudit persists the run summary.  Like publishing, audit failures are
// logged, never surfaced.
func (e *Engine) writeAudit(ctx context.Context, resp *Response, log logging.Logger) {
	if e.deps.Audit == nil {
		return
	}
	rec := &repositories.AuditRecord{
		RunID:         resp.RunID,
		CandidateName: resp.CandidateName,
		Countries:     resp.Countries,
		NiceClasses:   resp.NiceClasses,
		VariantCount:  len(resp.Variants),
		HitCount:      resp.TotalHits,
		ConflictCount: len(resp.Conflicts),
		HighestRisk:   resp.HighestRisk,
		DurationMS:    resp.DurationMS,
		Conflicts:     resp.Conflicts,
		Warnings:      resp.Warnings,
		CreatedAt:     resp.CompletedAt,
	}
	status := "success"
	if err := e.deps.Audit.Insert(ctx, rec); err != nil {
		status = "failure"
		log.Warn("audit write failed", logging.Err(err))
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.AuditWritesTotal.WithLabelValues(status).Inc()
	}
}

// conflictsByCountry counts reported conflicts per relevant country for the
// coverage-warning suppression rule.
func conflictsByCountry(conflicts []trademark.ScoredConflict) map[string]int {
	counts := make(map[string]int)
	for _, c := range conflicts {
		for _, country := range c.RelevantCountries {
			counts[country]++
		}
	}
	return counts
}

func officeCodes(offices []jurisdiction.Office) []string {
	codes := make([]string, 0, len(offices))
	for _, o := range offices {
		codes = append(codes, o.Code)
	}
	return codes
}

func primaryCountry(countries []string) string {
	if len(countries) == 0 {
		return "none"
	}
	return countries[0]
}
