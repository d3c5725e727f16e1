package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/bibhealth/diabetes-risk/internal/application/usecase"
	"github.com/bibhealth/diabetes-risk/internal/domain/port"
	"github.com/bibhealth/diabetes-risk/internal/domain/service"
	"github.com/bibhealth/diabetes-risk/internal/infrastructure/cache"
	"github.com/bibhealth/diabetes-risk/internal/infrastructure/config"
	"github.com/bibhealth/diabetes-risk/internal/infrastructure/messaging"
	"github.com/bibhealth/diabetes-risk/internal/infrastructure/ml"
	pgrepo "github.com/bibhealth/diabetes-risk/internal/infrastructure/postgres"
	grpcpresentation "github.com/bibhealth/diabetes-risk/internal/presentation/grpc"
	"github.com/bibhealth/diabetes-risk/internal/presentation/rest"
	"github.com/bibhealth/diabetes-risk/pkg/kafka"
	"github.com/bibhealth/diabetes-risk/pkg/observability"
	pgutil "github.com/bibhealth/diabetes-risk/pkg/postgres"
	"github.com/bibhealth/diabetes-risk/pkg/tlsutil"
	"github.com/bibhealth/diabetes-risk/web"
)

const serviceName = "diabetes-risk"

func main() {
	generateCert := flag.String("generate-cert", "", "write a self-signed localhost certificate to this directory and exit")
	flag.Parse()

	if *generateCert != "" {
		if err := tlsutil.GenerateSelfSignedCert([]string{"localhost", "127.0.0.1"}, *generateCert); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("diabetes-risk exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: serviceName,
		Environment: cfg.Server.Environment,
	})

	logger.Info("starting diabetes-risk",
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
	)

	// Tracing and metrics.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Environment: cfg.Server.Environment,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	// Classifier artifact. A missing or broken artifact leaves the service
	// up; every prediction then fails with "Model not loaded properly".
	var classifier port.Classifier
	mdl, err := ml.Load(cfg.Model.Path, ml.Options{
		ONNXSharedLibrary: cfg.Model.SharedLibrary,
		ONNXInputName:     cfg.Model.InputName,
		ONNXOutputName:    cfg.Model.OutputName,
	})
	if err != nil {
		logger.Error("failed to load model", "path", cfg.Model.Path, "error", err)
	} else {
		defer mdl.Close()
		info := mdl.Info()
		logger.Info("model loaded",
			"type", info.Type,
			"path", info.Path,
			"classes", info.Classes,
			"artifact_accuracy", info.Accuracy,
			"reported_accuracy", cfg.Model.Accuracy,
		)
		classifier = mdl
	}

	checks := map[string]rest.ReadinessCheck{
		"model": func(context.Context) error {
			if classifier == nil {
				return service.ErrModelUnavailable
			}
			return nil
		},
	}

	// Probability cache.
	if cfg.Cache.Enabled() {
		store := cache.NewRedisStore(cfg.Cache.RedisAddr)
		defer store.Close()
		checks["redis"] = store.Ping
		if mdl != nil {
			classifier = cache.NewCachedClassifier(classifier, store, mdl.Info().CacheNamespace(), cfg.Cache.TTL, logger)
		}
		logger.Info("probability cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
	}

	// Prediction audit store.
	var repo port.PredictionRepository
	if cfg.Database.Enabled() {
		pool, err := connectDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = pgrepo.NewPredictionRepository(pool)
		checks["database"] = func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) }
	}

	// Prediction events.
	var publisher port.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(kafka.Config{
			Brokers:                cfg.Kafka.Brokers,
			ClientID:               serviceName,
			AllowAutoTopicCreation: cfg.Server.Environment == "development",
		})
		defer producer.Close()
		publisher = messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("publishing prediction events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}

	// Use cases.
	riskClassifier := service.NewRiskClassifier(service.NewPreprocessor(), classifier)
	predictRiskUC, err := usecase.NewPredictRisk(riskClassifier, repo, publisher, cfg.Model.Accuracy, meterProvider.Meter(serviceName), logger)
	if err != nil {
		return fmt.Errorf("failed to create predict use case: %w", err)
	}
	getPredictionUC := usecase.NewGetPrediction(repo)

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled() {
		tlsConfig, err = tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return err
		}
	}

	// HTTP server.
	httpServer := rest.NewServer(rest.ServerConfig{
		Addr:      cfg.HTTPAddress(),
		TLS:       tlsConfig,
		RateLimit: rate.Limit(cfg.RateLimit.RPS),
		RateBurst: cfg.RateLimit.Burst,
		Metrics:   metricsHandler,
		Risk:      rest.NewRiskHandler(predictRiskUC, getPredictionUC, usecase.NewCatalog(), web.Index, logger),
		Health:    rest.NewHealthHandler(logger, checks),
		Logger:    logger,
	})

	// gRPC server.
	var grpcServer *grpcpresentation.Server
	if cfg.GRPCEnabled() {
		grpcHandler := grpcpresentation.NewRiskServiceHandler(predictRiskUC, getPredictionUC, logger)
		grpcServer = grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerOptions{
			Address:    cfg.GRPCAddress(),
			TLS:        tlsConfig,
			Reflection: cfg.Server.Reflection,
		}, logger)
		grpcServer.SetServing(predictRiskUC.Ready())
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server starting", "address", httpServer.Addr, "tls", tlsConfig != nil)
		var err error
		if tlsConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				errCh <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	logger.Info("diabetes-risk started",
		"http_address", cfg.HTTPAddress(),
		"grpc_enabled", grpcServer != nil,
		"model_ready", predictRiskUC.Ready(),
		"audit_enabled", repo != nil,
		"environment", cfg.Server.Environment,
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down diabetes-risk")

	if grpcServer != nil {
		grpcServer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("diabetes-risk stopped")
	return runErr
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := pgutil.RunMigrations(cfg.MigrationsPath, cfg.URL); err != nil {
		return nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgutil.NewPool(dbCtx, cfg.URL, pgutil.DefaultPoolOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pgutil.HealthCheck(dbCtx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("connected to database")
	return pool, nil
}
