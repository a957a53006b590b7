package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/turbinewerks/windplant/pkg/config"
	"github.com/turbinewerks/windplant/pkg/powercurve"
)

func testConfig() *config.ConfigData {
	return &config.ConfigData{
		Plant:      config.PlantData{Name: "Gusty Flats"},
		RESTServer: &config.RESTServerData{ListenAddr: "127.0.0.1", Port: 0},
		EYAEstimates: map[string]float64{
			"aep": 100, "gross_energy": 120, "availability_losses": 0.1,
			"electrical_losses": 0.05, "turbine_losses": 0.1,
			"blade_degradation_losses": 0.02, "wake_losses": 0.08,
		},
		OAResults: map[string]float64{
			"aep": 95, "availability_losses": 0.12,
			"electrical_losses": 0.06, "turbine_ideal_energy": 90,
		},
	}
}

func testController(t *testing.T, cfg *config.ConfigData) *Controller {
	t.Helper()
	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, cfg, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	return ctrl
}

func TestNewControllerRequiresRESTConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RESTServer = nil
	var wg sync.WaitGroup
	_, err := NewController(context.Background(), &wg, cfg, nil, zap.NewNop().Sugar())
	require.Error(t, err)
}

func TestNewControllerRejectsBadEYAMapping(t *testing.T) {
	cfg := testConfig()
	cfg.EYAEstimates["availability_losses"] = 1.5
	var wg sync.WaitGroup
	_, err := NewController(context.Background(), &wg, cfg, nil, zap.NewNop().Sugar())
	require.ErrorContains(t, err, "availability_losses")
}

func TestHandleHealth(t *testing.T) {
	ctrl := testController(t, testConfig())

	rec := httptest.NewRecorder()
	ctrl.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
		Plant  string `json:"plant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "Gusty Flats", resp.Plant)
}

func TestHandleGapAnalysis(t *testing.T) {
	ctrl := testController(t, testConfig())

	rec := httptest.NewRecorder()
	ctrl.handleGapAnalysis(rec, httptest.NewRequest(http.MethodGet, "/api/gap-analysis", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Plant  string    `json:"plant"`
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
		OAAEP  float64   `json:"oa_aep"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Labels, 5)
	require.Len(t, resp.Values, 5)
	require.InDelta(t, 95.0, resp.OAAEP, 1e-9)

	var sum float64
	for _, v := range resp.Values {
		sum += v
	}
	require.InDelta(t, resp.OAAEP, sum, 1e-9)
}

func TestHandleGapAnalysisUnconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.EYAEstimates = nil
	ctrl := testController(t, cfg)

	rec := httptest.NewRecorder()
	ctrl.handleGapAnalysis(rec, httptest.NewRequest(http.MethodGet, "/api/gap-analysis", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePowerCurveWithoutStorage(t *testing.T) {
	ctrl := testController(t, testConfig())

	rec := httptest.NewRecorder()
	ctrl.handlePowerCurve(rec, httptest.NewRequest(http.MethodGet, "/api/power-curve?station=T01", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleLatestAnalysisRunWithoutStorage(t *testing.T) {
	ctrl := testController(t, testConfig())

	rec := httptest.NewRecorder()
	ctrl.handleLatestAnalysisRun(rec, httptest.NewRequest(http.MethodGet, "/api/analysis-run?station=T01", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFitStrategy(t *testing.T) {
	windspeed := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	power := []float64{2, 10, 40, 110, 230, 400, 600, 800}

	for _, strategy := range []string{"binned", "additive"} {
		curve, err := fitStrategy(strategy, windspeed, power)
		require.NoError(t, err, strategy)
		require.Equal(t, powercurve.Kind(strategy), curve.Kind())
	}

	_, err := fitStrategy("nope", windspeed, power)
	require.ErrorContains(t, err, "nope")
}
