package rest

import (
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string
	TLS       *tls.Config
	RateLimit rate.Limit
	RateBurst int
	Metrics   http.Handler
	Risk      *RiskHandler
	Health    *HealthHandler
	Logger    *slog.Logger
}

// NewServer wires the routes and middleware into an http.Server. Only the
// risk routes are rate limited; health checks and metrics scrapes bypass it.
func NewServer(cfg ServerConfig) *http.Server {
	riskMux := http.NewServeMux()
	cfg.Risk.RegisterRoutes(riskMux)

	mux := http.NewServeMux()
	mux.Handle("/", RateLimit(rate.NewLimiter(cfg.RateLimit, cfg.RateBurst))(riskMux))
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	handler := Chain(mux,
		RequestID(),
		Logging(cfg.Logger),
	)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		TLSConfig:         cfg.TLS,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
