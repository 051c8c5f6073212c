// Package app wires configuration into a runnable API server: cache, broker,
// database, registry client, detection engine, and the HTTP surface.  Both
// the apiserver binary and the CLI serve command boot through it.
package app

import (
	"context"
	"fmt"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/conflict"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/postgres"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/postgres/repositories"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/messaging/kafka"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/prometheus"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	httpserver "github.com/accelari/trademarkiq2-sub002/internal/interfaces/http"
	"github.com/accelari/trademarkiq2-sub002/internal/interfaces/http/handlers"
)

// MetricsNamespace prefixes every metric the server exports.
const MetricsNamespace = "tmiq"

// App is the assembled API server and the resources it owns.
type App struct {
	Config  *config.Config
	Engine  *detection.Engine
	Metrics *prometheus.AppMetrics

	server  *httpserver.Server
	logger  logging.Logger
	version string
	closers []func() error
}

// Options tune what New wires beyond the configuration file.
type Options struct {
	// Version is reported by the liveness probe; empty means "dev".
	Version string
}

// New builds the full application from configuration.  The registry client
// is mandatory; Redis degrades to an in-process cache, and Kafka and
// Postgres stay disabled unless the configuration enables them.
func New(cfg *config.Config, log logging.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: configuration is nil")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	a := &App{Config: cfg, logger: log.Named("app"), version: version}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            MetricsNamespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: metrics collector: %w", err)
	}
	a.Metrics = prometheus.NewAppMetrics(collector)

	cache, redisClient := a.buildCache(cfg, log)
	var locks rediscache.LockFactory
	if redisClient != nil {
		a.closers = append(a.closers, redisClient.Close)
		locks = rediscache.NewLockFactory(redisClient, log)
	}

	registryClient, err := registry.NewClient(cfg.Registry, log,
		registry.WithSearchCache(cache, cfg.Registry.SearchCacheTTL))
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.buildPublisher(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	audit, pgConn, err := a.buildAudit(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	variants := detection.NewVariantProvider(log,
		detection.WithVariantCache(cache, cfg.Detection.VariantCacheTTL),
		detection.WithVariantMetrics(a.Metrics))

	aggregator, err := detection.NewAggregator(registryClient,
		cfg.Detection.SearchConcurrency, cfg.Detection.MaxAggregated, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	ranker, err := conflict.NewRanker(cfg.Detection.InclusionThreshold, cfg.Detection.ReportLimit)
	if err != nil {
		a.Close()
		return nil, err
	}

	engine, err := detection.NewEngine(detection.EngineDeps{
		Jurisdictions: jurisdiction.NewMap(),
		Variants:      variants,
		Aggregator:    aggregator,
		Ranker:        ranker,
		Details:       registryClient,
		Publisher:     publisher,
		Audit:         audit,
		Metrics:       a.Metrics,
		Locks:         locks,
		Logger:        log,
	}, cfg.Detection, cfg.Registry)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Engine = engine

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DetectionHandler:    handlers.NewDetectionHandler(engine),
		JurisdictionHandler: handlers.NewJurisdictionHandler(jurisdiction.NewMap()),
		VariantHandler:      handlers.NewVariantHandler(variants),
		HealthHandler:       handlers.NewHealthHandler(version, a.healthCheckers(cache, pgConn)...),
		Logger:              log,
		Metrics:             a.Metrics,
		MetricsHandler:      collector.Handler(),
		Mode:                cfg.Server.Mode,
	})
	a.server = httpserver.NewServer(cfg.Server, router, log)

	return a, nil
}

// buildCache connects to Redis; an unreachable server is tolerated in favor
// of a process-local cache so the API stays up when Redis is down.
func (a *App) buildCache(cfg *config.Config, log logging.Logger) (rediscache.Cache, *rediscache.Client) {
	client, err := rediscache.NewClient(cfg.Redis, log)
	if err != nil {
		a.logger.Warn("redis unavailable, falling back to in-process cache", logging.Err(err))
		return rediscache.NewMemoryCache(), nil
	}
	cache := rediscache.NewCache(client, log,
		rediscache.WithPrefix(cfg.Redis.KeyPrefix+":"),
		rediscache.WithDefaultTTL(cfg.Redis.DefaultTTL))
	return cache, client
}

func (a *App) buildPublisher(cfg *config.Config, log logging.Logger) (kafka.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return kafka.NewNopPublisher(), nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)
	return producer, nil
}

// buildAudit connects to Postgres and runs pending migrations.  A disabled
// database leaves the engine without an audit sink.
func (a *App) buildAudit(cfg *config.Config, log logging.Logger) (detection.AuditSink, *postgres.Connection, error) {
	if !cfg.Database.Enabled {
		return nil, nil, nil
	}
	conn, err := postgres.NewConnection(context.Background(), cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, func() error { conn.Close(); return nil })
	if err := postgres.Migrate(context.Background(), conn.Pool(), log); err != nil {
		return nil, nil, err
	}
	return repositories.NewDetectionAuditRepo(conn.Pool(), log), conn, nil
}

func (a *App) healthCheckers(cache rediscache.Cache, pg *postgres.Connection) []handlers.HealthChecker {
	checkers := []handlers.HealthChecker{
		handlers.CheckerFunc{ComponentName: "cache", CheckFn: cache.Ping},
	}
	if pg != nil {
		checkers = append(checkers, handlers.CheckerFunc{ComponentName: "database", CheckFn: pg.Ping})
	}
	return checkers
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// releases every owned resource.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.server.Start() }()

	a.logger.Info("server started",
		logging.Int("port", a.Config.Server.Port),
		logging.String("version", a.version))

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	err := a.server.Stop(shutdownCtx)
	a.Close()
	return err
}

// Close releases owned resources in reverse acquisition order.  It is safe
// to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", logging.Err(err))
		}
	}
	a.closers = nil
}
