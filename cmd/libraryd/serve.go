package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation-go/library/httpapi"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return serve(cmd.Context(), cfg, config.NewLogger(cfg, cmd.ErrOrStderr()), cmd.ErrOrStderr())
	},
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, accessLog io.Writer) error {
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())

	storeOptions := []sqlengine.Option{sqlengine.WithContextualLogger(contextualLogger)}
	handlerOptions := []observable.Option{observable.WithContextualLogging(contextualLogger)}

	if cfg.OTelEndpoint != "" {
		providers, err := config.NewObservabilityProviders(ctx, cfg.OTelEndpoint, version)
		if err != nil {
			return fmt.Errorf("starting telemetry: %w", err)
		}

		defer func() {
			if shutdownErr := providers.Shutdown(); shutdownErr != nil {
				logger.Error("telemetry shutdown failed", "error", shutdownErr.Error())
			}
		}()

		metrics, tracing := providers.MetricsCollector(), providers.TracingCollector()
		storeOptions = append(storeOptions, sqlengine.WithMetrics(metrics), sqlengine.WithTracing(tracing))
		handlerOptions = append(handlerOptions, observable.WithMetrics(metrics), observable.WithTracing(tracing))

		logger.Info("exporting telemetry", "endpoint", cfg.OTelEndpoint)
	}

	if cfg.MigrateOnStart {
		if err := sqlengine.MigrateUp(cfg.Dialect, cfg.DSN); err != nil {
			return err
		}
	}

	database, err := config.OpenDatabase(ctx, cfg, contextualLogger, storeOptions...)
	if err != nil {
		return err
	}
	defer database.Close()

	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		return err
	}

	hub := httpapi.NewHub(httpapi.WithHubLogger(contextualLogger))
	defer hub.Close()

	handlers, err := httpapi.BuildHandlers(database.Store, httpapi.Services{
		Hasher:    auth.NewPasswordHasher(bcrypt.DefaultCost),
		Tokens:    tokens,
		Policy:    core.BuildLoanPolicy(cfg.FinePerDay),
		Publisher: hub,
		Logger:    contextualLogger,
	}, handlerOptions...)
	if err != nil {
		return fmt.Errorf("building handlers: %w", err)
	}

	app := httpapi.NewApp(httpapi.AppConfig{
		Handlers:  handlers,
		Tokens:    tokens,
		Hub:       hub,
		Logger:    contextualLogger,
		AccessLog: accessLog,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Listen(cfg.HTTPAddr)
	}()

	logger.Info("libraryd listening",
		"addr", cfg.HTTPAddr,
		"dialect", string(cfg.Dialect),
		"version", version,
	)

	select {
	case err := <-serveErr:
		return err

	case <-ctx.Done():
	}

	logger.Info("shutting down")

	// Websocket connections are hijacked, so the app does not wait for them.
	hub.Close()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutting down the http server: %w", err)
	}

	return nil
}
