package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/auth"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/config"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db/repository"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/handler"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/metrics"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/middleware"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/service"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Log.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	if cfg.Auth.SecretKey == "" {
		logger.Log.Warn("SECRET_KEY is not set")
	}

	if cfg.Database.AutoMigrate {
		version, err := db.MigrateUp(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logger.Log.Info("Database schema up to date", zap.Uint("version", version))
	}

	pool, err := db.NewPool(ctx, &db.Config{
		URL:             cfg.Database.URL,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close(pool)

	logger.Log.Info("Database connection established", zap.Int32("maxConns", pool.Config().MaxConns))

	verifier, err := auth.NewFromConfig(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize identity verifier: %w", err)
	}
	logger.Log.Info("Identity verifier ready",
		zap.String("provider", cfg.Auth.Provider),
		zap.Strings("audiences", verifier.Audiences()),
	)

	var (
		publisher service.ChangePublisher = service.NoopPublisher{}
		broker    handler.HealthChecker
	)
	if cfg.RabbitMQ.Enabled {
		rabbit, err := service.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("initialize rabbitmq publisher: %w", err)
		}
		defer func() {
			if err := rabbit.Close(); err != nil {
				logger.Log.Error("Failed to close RabbitMQ publisher", zap.Error(err))
			}
		}()
		publisher = rabbit
		broker = rabbit
	} else {
		logger.Log.Info("RabbitMQ disabled, change events will not be published")
	}

	var (
		recorder       metrics.Recorder = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewCollector(reg)
		metricsHandler = metrics.Handler(reg)
	}

	repo := repository.NewBlockedAppRepository(pool)
	blockedApps := service.NewBlockedAppService(repo, publisher, recorder)

	router := handler.NewRouter(handler.RouterDeps{
		BlockedApps:    handler.NewBlockedAppHandler(blockedApps),
		Auth:           handler.NewAuthHandler(verifier, recorder),
		Health:         handler.NewHealthHandler(repo, broker),
		Recorder:       recorder,
		MetricsHandler: metricsHandler,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.CORS(cfg.Server.CorsAllowedOrigins, router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			closeErr := server.Close()
			return errors.Join(fmt.Errorf("graceful shutdown failed: %w", err), closeErr)
		}

		logger.Log.Info("Server stopped gracefully")
		return nil
	}
}
