// Package server initializes and runs the application server: database,
// migrations, services, and the HTTP API, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/studymate-app/studymate/internal/logging"
	"github.com/studymate-app/studymate/internal/server/auth"
	"github.com/studymate-app/studymate/internal/server/config"
	"github.com/studymate-app/studymate/internal/server/repositories/repomanager"
	"github.com/studymate-app/studymate/internal/server/services"
	"github.com/studymate-app/studymate/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager
	router *web.Router
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	router := web.NewRouter(
		cfg,
		logger,
		services.NewUserService(db, rm, cfg),
		services.NewProfileService(db, rm),
		services.NewRowService(db, rm),
		services.NewStorageService(cfg),
		services.NewFunctionService(cfg),
		auth.NewGoogleProvider(cfg),
	)

	return &App{config: cfg, logger: logger, db: db, rm: rm, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "running migrations")
	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}
	return app.db.Close()
}
