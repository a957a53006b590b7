// Package restserver exposes analysis results over a read-only HTTP API:
// plant health, the EYA/OA gap decomposition, and power curves fitted over
// stored SCADA observations.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/turbinewerks/windplant/internal/storage/timescaledb"
	"github.com/turbinewerks/windplant/pkg/config"
	"github.com/turbinewerks/windplant/pkg/gapanalysis"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	plant      config.PlantData
	Server     http.Server
	Storage    *timescaledb.Storage
	gap        *gapanalysis.Analysis
	logger     *zap.SugaredLogger
}

// NewController creates a new REST server controller. The storage backend
// and the gap analysis are both optional; the corresponding endpoints
// report their absence.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, storage *timescaledb.Storage, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.RESTServer == nil {
		return nil, fmt.Errorf("REST server is not configured")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: *cfg.RESTServer,
		plant:      cfg.Plant,
		Storage:    storage,
		logger:     logger,
	}

	if cfg.EYAEstimates != nil && cfg.OAResults != nil {
		eya, err := gapanalysis.EYAEstimateFromMap(cfg.EYAEstimates)
		if err != nil {
			return nil, fmt.Errorf("error building EYA estimate: %w", err)
		}
		oa, err := gapanalysis.OAResultsFromMap(cfg.OAResults)
		if err != nil {
			return nil, fmt.Errorf("error building OA results: %w", err)
		}
		gap, err := gapanalysis.New(eya, oa)
		if err != nil {
			return nil, err
		}
		gap.PlantName = cfg.Plant.Name
		ctrl.gap = gap
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/health", ctrl.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/gap-analysis", ctrl.handleGapAnalysis).Methods(http.MethodGet)
	router.HandleFunc("/api/power-curve", ctrl.handlePowerCurve).Methods(http.MethodGet)
	router.HandleFunc("/api/analysis-run", ctrl.handleLatestAnalysisRun).Methods(http.MethodGet)

	ctrl.Server = http.Server{
		Addr:         fmt.Sprintf("%s:%d", ctrl.restConfig.ListenAddr, ctrl.restConfig.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return ctrl, nil
}

// StartController starts the HTTP listener and shuts it down when the
// controller context is cancelled.
func (c *Controller) StartController() error {
	c.logger.Infof("starting REST server on %s", c.Server.Addr)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}
