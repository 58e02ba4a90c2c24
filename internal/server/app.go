// Package server wires the development backend together: storage, the
// onboarding service and the HTTP API, plus graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server/config"
	"github.com/dzikiwschod/clubapp/internal/server/httpapi"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/repomanager"
	"github.com/dzikiwschod/clubapp/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	repomanager       repomanager.RepositoryManager
	onboardingService *services.OnboardingService
}

// openPostgres is swapped in tests.
var openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.OpenPostgres(ctx, dsn)
}

// NewApp picks the storage backend from cfg.DatabaseDSN (empty keeps
// everything in memory), runs migrations and builds the services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	var m repomanager.RepositoryManager

	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN given, data is kept in memory")
		m = repomanager.NewInMemoryRepositoryManager()
	} else {
		pm, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		m = pm
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	svc := services.NewOnboardingService(m, cfg, logger)

	return &App{config: cfg, logger: logger, repomanager: m, onboardingService: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(
		app.config.EndpointAddr,
		app.logger,
		app.onboardingService,
		app.config.SecretKey,
		app.config.RateLimitRPS,
		app.config.RateLimitBurst,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
