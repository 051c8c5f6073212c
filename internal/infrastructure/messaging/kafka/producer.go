package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")
)

// Publisher is the event-publishing seam the detection engine depends on.
// Deployments without Kafka get the nop implementation; events are best
// effort and never block or fail a run.
type Publisher interface {
	PublishEnvelope(ctx context.Context, topic string, envelope *EventEnvelope) error
	Close() error
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics tracks producer counters.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer publishes detection events to Kafka.
type Producer struct {
	writer  WriterInterface
	logger  logging.Logger
	closed  atomic.Bool
	metrics ProducerMetrics
}

// NewProducer builds a Producer from the kafka section of the runtime
// configuration.  Call this only when cfg.Enabled is true.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}

	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  retries + 1,
		BatchSize:    batchSize,
		BatchTimeout: time.Second,
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer, logger: logger.Named("kafka")}, nil
}

// NewProducerWithWriter injects a writer, for tests.
func NewProducerWithWriter(writer WriterInterface, logger logging.Logger) *Producer {
	return &Producer{writer: writer, logger: logger}
}

// PublishEnvelope sends one envelope to the topic, keyed by event id so
// retries for the same event land on the same partition.
func (p *Producer) PublishEnvelope(ctx context.Context, topic string, envelope *EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}

	data, err := envelope.Encode()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(envelope.EventID),
		Value: data,
		Time:  envelope.Timestamp,
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "publish failed")
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(data)))
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", envelope.EventType),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// Metrics returns a snapshot of the counters.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

// nopPublisher drops events.  Used when Kafka is disabled.
type nopPublisher struct{}

func (nopPublisher) PublishEnvelope(context.Context, string, *EventEnvelope) error { return nil }
func (nopPublisher) Close() error                                                  { return nil }

// NewNopPublisher returns a Publisher that discards everything.
func NewNopPublisher() Publisher { return nopPublisher{} }
