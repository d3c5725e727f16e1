package testutil

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaRecord is a message read back from the test broker.
type KafkaRecord struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// KafkaContainer wraps a testcontainers Kafka instance.
type KafkaContainer struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// NewKafkaContainer starts a single-node Kafka container for testing.
// Topics are auto-created on first write. The caller should defer
// container.Cleanup(t).
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()

	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("diabetes-risk-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	return &KafkaContainer{
		Container: kafkaContainer,
		Brokers:   brokers,
	}
}

// Cleanup terminates the container.
func (kc *KafkaContainer) Cleanup(t *testing.T) {
	t.Helper()

	if kc.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := kc.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	}
}

// ReadMessage returns the first message on partition 0 of topic, failing the
// test if none arrives before ctx is done.
func (kc *KafkaContainer) ReadMessage(ctx context.Context, t *testing.T, topic string) KafkaRecord {
	t.Helper()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  kc.Brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024,
	})
	defer func() { _ = reader.Close() }()

	m, err := reader.ReadMessage(ctx)
	if err != nil {
		t.Fatalf("failed to read message from %s: %v", topic, err)
	}

	rec := KafkaRecord{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		rec.Headers[h.Key] = string(h.Value)
	}
	return rec
}
