//go:build integration

package messaging_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibhealth/diabetes-risk/internal/domain/event"
	"github.com/bibhealth/diabetes-risk/internal/infrastructure/messaging"
	"github.com/bibhealth/diabetes-risk/pkg/kafka"
	"github.com/bibhealth/diabetes-risk/pkg/testutil"
)

func TestKafkaPublisher_Integration(t *testing.T) {
	ctx := context.Background()

	kc := testutil.NewKafkaContainer(ctx, t)
	defer kc.Cleanup(t)

	cfg := kafka.Config{Brokers: kc.Brokers, AllowAutoTopicCreation: true}
	producer := kafka.NewProducer(cfg)
	defer producer.Close()

	const topic = "diabetes.predictions.it"
	pub := messaging.NewKafkaPublisher(producer, topic, discardLogger())

	id := uuid.New()
	require.NoError(t, pub.Publish(ctx, event.NewHighRiskDetected(id, 88, testutil.PreDiabeticFeatures)))

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg := kc.ReadMessage(readCtx, t, topic)
	assert.Equal(t, id.String(), string(msg.Key))
	assert.Equal(t, event.EventTypeHighRiskDetected, msg.Headers["event_type"])
	assert.Equal(t, "application/json", msg.Headers["content-type"])
	assert.NotEmpty(t, msg.Value)
}
