package kafka

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateWriter(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})

	w1 := p.getOrCreateWriter("topic-a")
	require.NotNil(t, w1)
	assert.Equal(t, "topic-a", w1.Topic)
	assert.Equal(t, 10*time.Millisecond, w1.BatchTimeout)
	assert.Equal(t, kafkago.RequireAll, w1.RequiredAcks)
	assert.Nil(t, w1.Transport)

	assert.Same(t, w1, p.getOrCreateWriter("topic-a"))
	assert.NotSame(t, w1, p.getOrCreateWriter("topic-b"))
	assert.Len(t, p.writers, 2)
}

func TestGetOrCreateWriter_TLS(t *testing.T) {
	p := NewProducer(Config{
		Brokers:      []string{"kafka:9093"},
		ClientID:     "riskd",
		TLS:          &tls.Config{MinVersion: tls.VersionTLS12},
		BatchTimeout: 50 * time.Millisecond,
	})

	w := p.getOrCreateWriter("diabetes.predictions")
	assert.Equal(t, 50*time.Millisecond, w.BatchTimeout)

	transport, ok := w.Transport.(*kafkago.Transport)
	require.True(t, ok)
	assert.Equal(t, "riskd", transport.ClientID)
	assert.NotNil(t, transport.TLS)
}

func TestProducerClose(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPublish_NoMessages(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	require.NoError(t, p.Publish(context.Background(), "topic-a"))
	assert.Empty(t, p.writers)
}

func TestMessageConversion(t *testing.T) {
	msgs := []Message{{
		Key:   []byte("prediction-1"),
		Value: []byte(`{"risk_level":"high"}`),
		Headers: map[string]string{
			"event_type":   "diabetes.high_risk.detected",
			"content-type": "application/json",
		},
	}}

	km := toKafkaMessages(msgs)
	require.Len(t, km, 1)
	assert.Equal(t, []byte("prediction-1"), km[0].Key)
	require.Len(t, km[0].Headers, 2)
	assert.Equal(t, "content-type", km[0].Headers[0].Key)
	assert.Equal(t, "event_type", km[0].Headers[1].Key)
	assert.Equal(t, "application/json", string(km[0].Headers[0].Value))
	assert.Equal(t, "diabetes.high_risk.detected", string(km[0].Headers[1].Value))
	assert.Equal(t, msgs[0].Value, km[0].Value)
}
