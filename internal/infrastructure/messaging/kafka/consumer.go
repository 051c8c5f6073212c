package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

// EnvelopeHandler processes one decoded event.  Returning an error triggers
// the retry policy; after exhaustion the message goes to the dead letter
// topic when one is configured, otherwise it is dropped.
type EnvelopeHandler func(ctx context.Context, envelope *EventEnvelope) error

// ConsumerConfig holds the audit worker's consumption parameters.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topics          []string
	StartLatest     bool
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerMetrics tracks consumption counters.
type ConsumerMetrics struct {
	Consumed     atomic.Int64
	Processed    atomic.Int64
	Failed       atomic.Int64
	Retried      atomic.Int64
	DeadLettered atomic.Int64
}

// Consumer reads detection events for a consumer group and dispatches them
// to per-topic handlers.
type Consumer struct {
	reader ReaderInterface
	config ConsumerConfig
	logger logging.Logger

	mu       sync.RWMutex
	handlers map[string]EnvelopeHandler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deadLetter Publisher
	metrics    ConsumerMetrics
}

// NewConsumer builds a group consumer over the configured topics.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "consumer group id required")
	}
	if len(cfg.Topics) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one topic required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.MaxRetryBackoff <= 0 {
		cfg.MaxRetryBackoff = 30 * time.Second
	}

	startOffset := kafka.FirstOffset
	if cfg.StartLatest {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		StartOffset: startOffset,
	})

	c := &Consumer{
		reader:   reader,
		config:   cfg,
		logger:   logger.Named("kafka.consumer"),
		handlers: make(map[string]EnvelopeHandler),
	}
	return c, nil
}

// NewConsumerWithReader injects a reader and optional dead letter publisher,
// for tests.
func NewConsumerWithReader(reader ReaderInterface, cfg ConsumerConfig, deadLetter Publisher, logger logging.Logger) *Consumer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Millisecond
	}
	if cfg.MaxRetryBackoff <= 0 {
		cfg.MaxRetryBackoff = 10 * time.Millisecond
	}
	return &Consumer{
		reader:     reader,
		config:     cfg,
		logger:     logger,
		handlers:   make(map[string]EnvelopeHandler),
		deadLetter: deadLetter,
	}
}

// SetDeadLetterPublisher wires the publisher used after retry exhaustion.
func (c *Consumer) SetDeadLetterPublisher(p Publisher) {
	c.deadLetter = p
}

// Subscribe registers the handler for one topic.
func (c *Consumer) Subscribe(topic string, handler EnvelopeHandler) {
	c.mu.Lock()
	c.handlers[topic] = handler
	c.mu.Unlock()
	c.logger.Info("subscribed to topic", logging.String("topic", topic))
}

// Start launches the consume loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("kafka consumer started", logging.String("group", c.config.GroupID))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch message failed", logging.Err(err))
			time.Sleep(time.Second)
			continue
		}
		c.metrics.Consumed.Add(1)

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()
		if !ok {
			c.logger.Warn("no handler for topic", logging.String("topic", m.Topic))
			c.reader.CommitMessages(ctx, m)
			continue
		}

		if err := c.processMessage(ctx, m, handler); err == nil {
			c.metrics.Processed.Add(1)
		} else {
			c.metrics.Failed.Add(1)
		}
		// Commit regardless: failures have been retried and dead lettered;
		// re-reading them would only fail again.
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, m kafka.Message, handler EnvelopeHandler) error {
	envelope, err := DecodeEnvelope(m.Value)
	if err != nil {
		c.logger.Error("undecodable message",
			logging.String("topic", m.Topic),
			logging.Int64("offset", m.Offset),
			logging.Err(err))
		c.sendToDeadLetter(ctx, m, err)
		return err
	}

	err = handler(ctx, envelope)
	if err == nil {
		return nil
	}

	backoff := c.config.RetryBackoff
	for i := 0; i < c.config.MaxRetries; i++ {
		c.metrics.Retried.Add(1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if err = handler(ctx, envelope); err == nil {
			return nil
		}
		backoff *= 2
		if backoff > c.config.MaxRetryBackoff {
			backoff = c.config.MaxRetryBackoff
		}
	}

	c.logger.Error("handler failed after retries",
		logging.String("topic", m.Topic),
		logging.Int64("offset", m.Offset),
		logging.Err(err))
	c.sendToDeadLetter(ctx, m, err)
	return err
}

func (c *Consumer) sendToDeadLetter(ctx context.Context, m kafka.Message, cause error) {
	if c.deadLetter == nil || c.config.DeadLetterTopic == "" {
		return
	}
	envelope := &EventEnvelope{
		EventID:       string(m.Key),
		EventType:     "dead_letter",
		Source:        "consumer:" + c.config.GroupID,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       m.Value,
		Metadata: map[string]string{
			"original_topic": m.Topic,
			"error":          cause.Error(),
		},
	}
	if err := c.deadLetter.PublishEnvelope(ctx, c.config.DeadLetterTopic, envelope); err != nil {
		c.logger.Error("dead letter publish failed", logging.Err(err))
		return
	}
	c.metrics.DeadLettered.Add(1)
}

// Metrics returns a snapshot of the counters.
func (c *Consumer) Metrics() (consumed, processed, failed, deadLettered int64) {
	return c.metrics.Consumed.Load(), c.metrics.Processed.Load(),
		c.metrics.Failed.Load(), c.metrics.DeadLettered.Load()
}

// Close stops the loop and releases the reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	c.logger.Info("kafka consumer closed", logging.Int64("consumed", c.metrics.Consumed.Load()))
	return err
}
