// Package timescaledb persists SCADA readings and fitted-curve analysis
// runs to a TimescaleDB hypertable, and pulls aligned observation columns
// back out for the fitting strategies.
package timescaledb

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/turbinewerks/windplant/internal/database"
	"github.com/turbinewerks/windplant/internal/log"
	"github.com/turbinewerks/windplant/pkg/powercurve"
)

// Storage holds the TimescaleDB storage backend
type Storage struct {
	DB *gorm.DB
}

// We declare the Tabler interface for purposes of customizing the table name in the DB
type Tabler interface {
	TableName() string
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, connectionString string) (*Storage, error) {
	client := database.NewClient(connectionString, log.GetSugaredLogger())
	if err := client.Connect(); err != nil {
		return nil, err
	}
	t := &Storage{DB: client.DB}

	log.Info("creating SCADA table...")
	if err := t.DB.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		log.Warn("warning: could not create SCADA table")
		return nil, err
	}

	log.Info("creating TimescaleDB extension...")
	if err := t.DB.WithContext(ctx).Exec(createExtensionSQL).Error; err != nil {
		// Plain Postgres works too; readings just land in a regular table.
		log.Warn("unable to create TimescaleDB extension, continuing without hypertables:", err)
	} else {
		log.Info("creating hypertable...")
		if err := t.DB.WithContext(ctx).Exec(createHypertableSQL).Error; err != nil {
			log.Warn("warning: could not create hypertable")
			return nil, err
		}
	}

	log.Info("creating analysis runs table...")
	if err := t.DB.WithContext(ctx).Exec(createAnalysisRunsTableSQL).Error; err != nil {
		log.Warn("warning: could not create analysis runs table")
		return nil, err
	}

	log.Info("creating SCADA station/time index...")
	if err := t.DB.WithContext(ctx).Exec(createScadaIndexSQL).Error; err != nil {
		log.Warn("warning: could not create SCADA index")
		return nil, err
	}

	return t, nil
}

// StartStorageEngine creates a goroutine loop to receive readings and send
// them off to TimescaleDB
func (t *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- ScadaReading {
	log.Info("starting TimescaleDB storage engine...")
	readingChan := make(chan ScadaReading, 10)
	go t.processReadings(ctx, wg, readingChan)
	return readingChan
}

func (t *Storage) processReadings(ctx context.Context, wg *sync.WaitGroup, rchan <-chan ScadaReading) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			if err := t.StoreReading(r); err != nil {
				log.Error("could not store reading:", err)
			}
		case <-ctx.Done():
			log.Info("cancellation request received. Cancelling readings processor.")
			return
		}
	}
}

// StoreReading stores a SCADA reading in TimescaleDB
func (t *Storage) StoreReading(r ScadaReading) error {
	return t.DB.Create(&r).Error
}

// FetchObservations pulls the readings for a station over [start, end) as
// index-aligned columns.
func (t *Storage) FetchObservations(ctx context.Context, station string, start, end time.Time) (*ObservationSet, error) {
	var readings []ScadaReading
	err := t.DB.WithContext(ctx).
		Where("stationname = ? AND time >= ? AND time < ?", station, start, end).
		Order("time").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}

	obs := &ObservationSet{
		Times:       make([]time.Time, len(readings)),
		WindSpeed:   make([]float64, len(readings)),
		WindSpeedSD: make([]float64, len(readings)),
		WindDir:     make([]float64, len(readings)),
		Power:       make([]float64, len(readings)),
		Temperature: make([]float64, len(readings)),
		Pressure:    make([]float64, len(readings)),
	}
	for i, r := range readings {
		obs.Times[i] = r.Time
		obs.WindSpeed[i] = r.WindSpeed
		obs.WindSpeedSD[i] = r.WindSpeedSD
		obs.WindDir[i] = r.WindDir
		obs.Power[i] = r.Power
		obs.Temperature[i] = r.Temperature
		obs.Pressure[i] = r.Pressure
	}
	return obs, nil
}

// StoreAnalysisRun serializes a fitted curve and records it with its fit
// quality scores.
func (t *Storage) StoreAnalysisRun(ctx context.Context, station string, curve powercurve.Curve, m powercurve.Metrics) (*AnalysisRun, error) {
	blob, err := powercurve.Encode(curve)
	if err != nil {
		return nil, err
	}
	run := &AnalysisRun{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		StationName: station,
		CurveKind:   string(curve.Kind()),
		Curve:       blob,
		RSquared:    m.RSquared,
		RMSE:        m.RootMeanSquaredError,
		SampleCount: m.SampleCount,
	}
	if err := t.DB.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// LatestAnalysisRun returns the most recent stored curve for a station, or
// gorm.ErrRecordNotFound when none exists.
func (t *Storage) LatestAnalysisRun(ctx context.Context, station string) (*AnalysisRun, error) {
	var run AnalysisRun
	err := t.DB.WithContext(ctx).
		Where("stationname = ?", station).
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
