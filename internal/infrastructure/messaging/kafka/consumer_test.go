package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// fakeReader serves a fixed message list, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		m := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	r.committed = append(r.committed, msgs...)
	r.mu.Unlock()
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func envelopeMessage(t *testing.T, topic string, payload interface{}) kafka.Message {
	t.Helper()
	env, err := NewEventEnvelope(topic, "test", payload)
	require.NoError(t, err)
	data, err := env.Encode()
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Key: []byte(env.EventID), Value: data}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestNewConsumerValidation(t *testing.T) {
	log := logging.NewNopLogger()

	_, err := NewConsumer(ConsumerConfig{GroupID: "g", Topics: []string{"t"}}, log)
	assert.Error(t, err)

	_, err = NewConsumer(ConsumerConfig{Brokers: []string{"b:9092"}, Topics: []string{"t"}}, log)
	assert.Error(t, err)

	_, err = NewConsumer(ConsumerConfig{Brokers: []string{"b:9092"}, GroupID: "g"}, log)
	assert.Error(t, err)
}

func TestConsumerDispatchesToHandler(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		envelopeMessage(t, TopicDetectionCompleted, DetectionCompletedPayload{RunID: "r1"}),
	}}
	c := NewConsumerWithReader(reader, ConsumerConfig{GroupID: "g"}, nil, logging.NewNopLogger())

	var mu sync.Mutex
	var got []string
	c.Subscribe(TopicDetectionCompleted, func(_ context.Context, env *EventEnvelope) error {
		var p DetectionCompletedPayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		mu.Lock()
		got = append(got, p.RunID)
		mu.Unlock()
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	waitFor(t, func() bool { return reader.committedCount() == 1 })
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"r1"}, got)

	_, processed, failed, _ := c.Metrics()
	assert.Equal(t, int64(1), processed)
	assert.Zero(t, failed)
}

func TestConsumerCommitsUnhandledTopics(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "unknown.topic", Value: []byte(`{}`)},
	}}
	c := NewConsumerWithReader(reader, ConsumerConfig{GroupID: "g"}, nil, logging.NewNopLogger())

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	waitFor(t, func() bool { return reader.committedCount() == 1 })
}

func TestConsumerRetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		envelopeMessage(t, TopicDetectionCompleted, DetectionCompletedPayload{RunID: "r1"}),
	}}
	dlWriter := &fakeWriter{}
	deadLetter := NewProducerWithWriter(dlWriter, logging.NewNopLogger())

	c := NewConsumerWithReader(reader, ConsumerConfig{
		GroupID:         "g",
		MaxRetries:      2,
		RetryBackoff:    time.Millisecond,
		DeadLetterTopic: TopicDeadLetter,
	}, deadLetter, logging.NewNopLogger())

	var mu sync.Mutex
	calls := 0
	c.Subscribe(TopicDetectionCompleted, func(context.Context, *EventEnvelope) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "boom")
	})

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	waitFor(t, func() bool { return reader.committedCount() == 1 })

	mu.Lock()
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
	mu.Unlock()

	dlWriter.mu.Lock()
	defer dlWriter.mu.Unlock()
	require.Len(t, dlWriter.messages, 1)
	assert.Equal(t, TopicDeadLetter, dlWriter.messages[0].Topic)
}

func TestConsumerDoubleStart(t *testing.T) {
	reader := &fakeReader{}
	c := NewConsumerWithReader(reader, ConsumerConfig{GroupID: "g"}, nil, logging.NewNopLogger())

	require.NoError(t, c.Start(context.Background()))
	defer c.Close()
	assert.Equal(t, ErrAlreadyRunning, c.Start(context.Background()))
}
