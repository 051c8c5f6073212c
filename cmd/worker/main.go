// The worker binary consumes detection events from Kafka: it surfaces
// high-risk conflicts as alerts and keeps run-level counters, so alerting
// and dashboards do not depend on the API server process.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/messaging/kafka"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/prometheus"
)

const defaultHealthPort = 8081

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz and /metrics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		fmt.Fprintln(os.Stderr, "kafka is disabled in the configuration; the worker has nothing to consume")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	log := logger.Named("worker")

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "tmiq",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		log.Fatal("metrics collector", logging.Err(err))
	}
	runsProcessed := collector.RegisterCounter("runs_processed_total",
		"Detection runs observed on the completed topic.", "highest_risk")
	alertsRaised := collector.RegisterCounter("high_risk_alerts_total",
		"High-risk conflict alerts raised.", "office")

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{kafka.TopicDetectionCompleted, kafka.TopicDetectionHighRisk},
		DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
	}, logger)
	if err != nil {
		log.Fatal("consumer setup failed", logging.Err(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		log.Fatal("dead letter producer setup failed", logging.Err(err))
	}
	consumer.SetDeadLetterPublisher(producer)

	consumer.Subscribe(kafka.TopicDetectionCompleted, func(_ context.Context, env *kafka.EventEnvelope) error {
		var payload kafka.DetectionCompletedPayload
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		runsProcessed.WithLabelValues(payload.HighestRisk).Inc()
		log.Info("detection run recorded",
			logging.String("run_id", payload.RunID),
			logging.String("candidate", payload.CandidateName),
			logging.Int("conflicts", payload.ConflictCount),
			logging.String("highest_risk", payload.HighestRisk),
			logging.Int64("duration_ms", payload.DurationMS))
		return nil
	})

	consumer.Subscribe(kafka.TopicDetectionHighRisk, func(_ context.Context, env *kafka.EventEnvelope) error {
		var payload kafka.HighRiskConflictPayload
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		alertsRaised.WithLabelValues(payload.Office).Inc()
		log.Warn("high-risk conflict",
			logging.String("run_id", payload.RunID),
			logging.String("candidate", payload.CandidateName),
			logging.String("mark", payload.MarkName),
			logging.String("office", payload.Office),
			logging.Int("combined_score", payload.CombinedScore),
			logging.String("register_url", payload.RegisterURL))
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal("consumer start failed", logging.Err(err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", collector.Handler())
	healthSrv := &http.Server{
		Addr:        ":" + strconv.Itoa(*healthPort),
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health server error", logging.Err(err))
		}
	}()

	log.Info("worker started",
		logging.String("group", cfg.Kafka.GroupID),
		logging.Int("health_port", *healthPort))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)
	if err := consumer.Close(); err != nil {
		log.Error("consumer close failed", logging.Err(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer close failed", logging.Err(err))
	}
}
