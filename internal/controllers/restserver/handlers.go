package restserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/turbinewerks/windplant/pkg/curvefit"
	"github.com/turbinewerks/windplant/pkg/gapanalysis"
	"github.com/turbinewerks/windplant/pkg/powercurve"
)

type healthResponse struct {
	Status string `json:"status"`
	Plant  string `json:"plant,omitempty"`
}

type gapAnalysisResponse struct {
	Plant  string    `json:"plant,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	OAAEP  float64   `json:"oa_aep"`
}

type powerCurveResponse struct {
	Station   string    `json:"station"`
	Strategy  string    `json:"strategy"`
	WindSpeed []float64 `json:"windspeed"`
	Power     []float64 `json:"power"`
	RSquared  float64   `json:"r_squared"`
	RMSE      float64   `json:"rmse"`
	Samples   int       `json:"samples"`
}

func (c *Controller) handleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Plant: c.plant.Name})
}

func (c *Controller) handleGapAnalysis(w http.ResponseWriter, r *http.Request) {
	if c.gap == nil {
		http.Error(w, "gap analysis is not configured", http.StatusNotFound)
		return
	}

	compiled := c.gap.Compile()
	labels := gapanalysis.Labels()
	c.writeJSON(w, http.StatusOK, gapAnalysisResponse{
		Plant:  c.plant.Name,
		Labels: labels[:],
		Values: compiled[:],
		OAAEP:  c.gap.OA().AEP,
	})
}

func (c *Controller) handlePowerCurve(w http.ResponseWriter, r *http.Request) {
	if c.Storage == nil {
		http.Error(w, "no storage backend configured", http.StatusServiceUnavailable)
		return
	}

	station := r.URL.Query().Get("station")
	if station == "" {
		http.Error(w, "station parameter is required", http.StatusBadRequest)
		return
	}
	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = string(powercurve.KindBinned)
	}
	hours := 24 * 30
	if h := r.URL.Query().Get("hours"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed <= 0 {
			http.Error(w, "hours must be a positive integer", http.StatusBadRequest)
			return
		}
		hours = parsed
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)
	obs, err := c.Storage.FetchObservations(r.Context(), station, start, end)
	if err != nil {
		c.logger.Errorf("error fetching observations for %s: %v", station, err)
		http.Error(w, "error fetching observations", http.StatusInternalServerError)
		return
	}
	if len(obs.WindSpeed) == 0 {
		http.Error(w, "no observations for station", http.StatusNotFound)
		return
	}

	curve, err := fitStrategy(strategy, obs.WindSpeed, obs.Power)
	if err != nil {
		c.logger.Errorf("error fitting %s curve for %s: %v", strategy, station, err)
		http.Error(w, "error fitting curve: "+err.Error(), http.StatusBadRequest)
		return
	}
	metrics, err := powercurve.GoodnessOfFit(curve, obs.WindSpeed, obs.Power)
	if err != nil {
		http.Error(w, "error scoring curve", http.StatusInternalServerError)
		return
	}

	// Sample the fitted curve on the IEC bin grid for presentation.
	grid := make([]float64, 0, 61)
	for ws := 0.0; ws <= 30.0; ws += 0.5 {
		grid = append(grid, ws)
	}

	c.writeJSON(w, http.StatusOK, powerCurveResponse{
		Station:   station,
		Strategy:  strategy,
		WindSpeed: grid,
		Power:     curve.Evaluate(grid),
		RSquared:  metrics.RSquared,
		RMSE:      metrics.RootMeanSquaredError,
		Samples:   metrics.SampleCount,
	})
}

type analysisRunResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Station   string    `json:"station"`
	Strategy  string    `json:"strategy"`
	WindSpeed []float64 `json:"windspeed"`
	Power     []float64 `json:"power"`
	RSquared  float64   `json:"r_squared"`
	RMSE      float64   `json:"rmse"`
	Samples   int       `json:"samples"`
}

// handleLatestAnalysisRun serves the most recently stored curve for a
// station, decoded and sampled, without refitting anything.
func (c *Controller) handleLatestAnalysisRun(w http.ResponseWriter, r *http.Request) {
	if c.Storage == nil {
		http.Error(w, "no storage backend configured", http.StatusServiceUnavailable)
		return
	}
	station := r.URL.Query().Get("station")
	if station == "" {
		http.Error(w, "station parameter is required", http.StatusBadRequest)
		return
	}

	run, err := c.Storage.LatestAnalysisRun(r.Context(), station)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "no stored analysis run for station", http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Errorf("error loading analysis run for %s: %v", station, err)
		http.Error(w, "error loading analysis run", http.StatusInternalServerError)
		return
	}

	curve, err := powercurve.Decode(run.Curve)
	if err != nil {
		c.logger.Errorf("error decoding stored curve %s: %v", run.ID, err)
		http.Error(w, "error decoding stored curve", http.StatusInternalServerError)
		return
	}

	grid := make([]float64, 0, 61)
	for ws := 0.0; ws <= 30.0; ws += 0.5 {
		grid = append(grid, ws)
	}

	c.writeJSON(w, http.StatusOK, analysisRunResponse{
		ID:        run.ID.String(),
		CreatedAt: run.CreatedAt,
		Station:   run.StationName,
		Strategy:  run.CurveKind,
		WindSpeed: grid,
		Power:     curve.Evaluate(grid),
		RSquared:  run.RSquared,
		RMSE:      run.RMSE,
		Samples:   run.SampleCount,
	})
}

func fitStrategy(strategy string, windspeed, power []float64) (powercurve.Curve, error) {
	switch powercurve.Kind(strategy) {
	case powercurve.KindBinned:
		return powercurve.FitIEC(windspeed, power, nil)
	case powercurve.KindParametric:
		curve, err := powercurve.FitLogistic5(windspeed, power, nil)
		if errors.Is(err, curvefit.ErrOptimizationFailure) {
			// Serve the best-effort curve; the caller sees the scores.
			err = nil
		}
		return curve, err
	case powercurve.KindAdditive:
		return powercurve.FitAdditive(windspeed, power, 0)
	default:
		return nil, &unknownStrategyError{strategy}
	}
}

type unknownStrategyError struct{ strategy string }

func (e *unknownStrategyError) Error() string {
	return "unknown strategy " + strconv.Quote(e.strategy) + ": want binned, parametric, or additive"
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Errorf("error encoding response: %v", err)
	}
}
