// Package server wires the sync server together: database, migrations,
// services, and the HTTP endpoint, with graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/logging"
	"github.com/dmitrijs2005/charkeeper/internal/server/config"
	"github.com/dmitrijs2005/charkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/charkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/charkeeper/internal/server/services"
	"github.com/dmitrijs2005/charkeeper/internal/server/shared/db"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userService := services.NewUserService(conn, rm, cfg)
	syncService := services.NewSyncService(conn, rm)
	assetService := services.NewAssetService(cfg)

	api := httpapi.NewServer(logger, userService, syncService, assetService, cfg.SecretKey)

	srv := &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: api.Handler(),
	}

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return app.server.Shutdown(shutdownCtx)
}
