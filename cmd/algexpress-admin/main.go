package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/algexpress/algexpress-admin/config"
	"github.com/algexpress/algexpress-admin/internal/bootstrap"
	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
	httpx "github.com/algexpress/algexpress-admin/internal/http"
	"github.com/algexpress/algexpress-admin/internal/observability/metrics"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	registry := prometheus.NewRegistry()
	authMetrics := metrics.NewAuthCollector(registry)

	store, err := bootstrap.BuildSessionStore(bootstrap.SessionStoreConfig{
		Auth:    cfg.Auth,
		Storage: cfg.Storage,
		Logger:  logger,
		Metrics: authMetrics,
	})
	if err != nil {
		return err
	}

	// Resolve the persisted session before serving so the first page render
	// already knows whether the operator is signed in.
	restored, err := store.ValidateSession(ctx)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "session validation complete", "restored", restored)
	case errors.Is(err, domainauth.ErrGatewayUnreachable):
		logger.WarnContext(ctx, "session validation deferred, gateway unreachable", "error", err)
	default:
		return err
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Sessions:           store,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		LoginBurst:         cfg.Auth.LoginBurst,
		Metrics:            registry,
		Logger:             logger,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bootstrap.RunHTTPServer(runCtx, bootstrap.HTTPServerConfig{
		HTTP:    cfg.HTTP,
		Handler: handler,
		Logger:  logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting algexpress admin",
		"auth_mode", cfg.Auth.Mode,
		"storage_mode", cfg.Storage.Mode,
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev)
}
