package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the risk service.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Model     ModelConfig
	Database  DatabaseConfig
	Kafka     KafkaConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	TLS       TLSConfig
}

type ServerConfig struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"5000"`
	GRPCPort    string `envconfig:"GRPC_PORT"`
	Reflection  bool   `envconfig:"GRPC_REFLECTION" default:"false"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type ModelConfig struct {
	Path          string  `envconfig:"MODEL_PATH" default:"models/classification_model.json"`
	Accuracy      float64 `envconfig:"MODEL_ACCURACY" default:"0.72"`
	SharedLibrary string  `envconfig:"ONNX_SHARED_LIBRARY"`
	InputName     string  `envconfig:"ONNX_INPUT_NAME" default:"float_input"`
	OutputName    string  `envconfig:"ONNX_OUTPUT_NAME" default:"probabilities"`
}

type DatabaseConfig struct {
	URL            string `envconfig:"DATABASE_URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`
}

// Enabled reports whether the prediction audit store is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"diabetes.predictions"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type CacheConfig struct {
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	TTL       time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"100"`
}

type TracingConfig struct {
	OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SampleRatio  float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1"`
}

type TLSConfig struct {
	CertFile string `envconfig:"TLS_CERT_FILE"`
	KeyFile  string `envconfig:"TLS_KEY_FILE"`
}

func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Model.Accuracy < 0 || c.Model.Accuracy > 1 {
		return fmt.Errorf("MODEL_ACCURACY must be within [0, 1], got %v", c.Model.Accuracy)
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimit.Burst)
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// GRPCEnabled reports whether the gRPC listener should be started.
func (c *Config) GRPCEnabled() bool {
	return c.Server.GRPCPort != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.Server.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Server.HTTPPort)
}
