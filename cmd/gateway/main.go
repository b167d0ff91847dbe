package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-connectors/internal/adapters/postgres"
	"github.com/kevin07696/payment-connectors/internal/adapters/secrets"
	"github.com/kevin07696/payment-connectors/internal/adapters/transport"
	"github.com/kevin07696/payment-connectors/internal/config"
	"github.com/kevin07696/payment-connectors/internal/connectors/registry"
	"github.com/kevin07696/payment-connectors/internal/domain/ports"
	paymenthandler "github.com/kevin07696/payment-connectors/internal/handlers/payment"
	webhookhandler "github.com/kevin07696/payment-connectors/internal/handlers/webhook"
	gatewaysvc "github.com/kevin07696/payment-connectors/internal/services/gateway"
	webhooksvc "github.com/kevin07696/payment-connectors/internal/services/webhook"
	"github.com/kevin07696/payment-connectors/pkg/observability"
	"github.com/kevin07696/payment-connectors/pkg/resilience"
	"github.com/kevin07696/payment-connectors/pkg/shutdown"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		ConnString: cfg.Database.ConnectionString(),
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("failed to ensure database schema", zap.Error(err))
	}

	authStore, err := newAuthStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize credential store", zap.Error(err))
	}

	timeouts := resilience.DefaultTimeoutConfig()
	if cfg.Connectors.Timeout > 0 {
		timeouts.ConnectorAPI = time.Duration(cfg.Connectors.Timeout) * time.Second
	}

	httpTransport := transport.New(transport.Config{
		Timeout:    timeouts.ConnectorAPI,
		MaxRetries: 3,
	}, logger)

	reg, err := registry.NewRegistry(registry.Deps{
		Transport:   httpTransport,
		Logger:      logger,
		Environment: cfg.Connectors.Environment,
	})
	if err != nil {
		logger.Fatal("failed to build connector registry", zap.Error(err))
	}

	attempts := postgres.NewAttemptStore(pool, logger)
	gatewayService := gatewaysvc.NewService(reg, authStore, attempts, logger)
	webhookService := webhooksvc.NewService(reg, attempts, logger)

	mux := http.NewServeMux()
	paymenthandler.NewHandler(gatewayService, attempts, logger).Register(mux)
	webhookhandler.NewHandler(webhookService, logger).Register(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: timeouts.HTTPHandler,
		IdleTimeout:  60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker(pool)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker, logger)

	manager := shutdown.NewManager(logger, 30*time.Second)
	manager.RegisterCloser("database", pool.Close)
	manager.RegisterServer("http_server", server)
	manager.RegisterServer("metrics_server", metricsServer)

	go func() {
		logger.Info("gateway listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	manager.Wait()
}

func newLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	zapCfg := zap.NewProductionConfig()
	if err := zapCfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}
	return zapCfg.Build()
}

func newAuthStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.ConnectorAuthStore, error) {
	switch cfg.Secrets.Backend {
	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddress)
		vaultCfg.Token = cfg.Secrets.VaultToken
		return secrets.NewVaultAuthStore(ctx, vaultCfg, logger)
	case "aws":
		return secrets.NewAWSAuthStore(ctx, secrets.DefaultAWSConfig(cfg.Secrets.AWSRegion), logger)
	default:
		return secrets.NewLocalAuthStore(), nil
	}
}
