// Package app wires the configured components together: storage, then the
// REST controller, then blocks until shutdown.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/turbinewerks/windplant/internal/controllers/restserver"
	"github.com/turbinewerks/windplant/internal/log"
	"github.com/turbinewerks/windplant/internal/storage/timescaledb"
	"github.com/turbinewerks/windplant/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize storage if configured
	var storage *timescaledb.Storage
	if cfg.Storage.TimescaleDB != nil {
		storage, err = timescaledb.New(ctx, cfg.Storage.TimescaleDB.ConnectionString)
		if err != nil {
			return err
		}
	}

	// Initialize the REST server if configured
	if cfg.RESTServer != nil {
		ctrl, err := restserver.NewController(ctx, &wg, cfg, storage, a.logger)
		if err != nil {
			return err
		}
		if err := ctrl.StartController(); err != nil {
			return err
		}
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
