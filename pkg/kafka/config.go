package kafka

import (
	"crypto/tls"
	"time"
)

// Config holds Kafka connection parameters.
type Config struct {
	// TLS enables TLS for broker connections when non-nil.
	TLS *tls.Config

	ClientID string
	Brokers  []string

	// BatchTimeout bounds how long the writer waits to fill a batch.
	BatchTimeout time.Duration
	WriteTimeout time.Duration

	// AllowAutoTopicCreation lets the first write create a missing topic.
	AllowAutoTopicCreation bool
}

func (c Config) batchTimeout() time.Duration {
	if c.BatchTimeout > 0 {
		return c.BatchTimeout
	}
	return 10 * time.Millisecond
}

func (c Config) writeTimeout() time.Duration {
	if c.WriteTimeout > 0 {
		return c.WriteTimeout
	}
	return 10 * time.Second
}
