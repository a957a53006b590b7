package powercurve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// logistic5Data samples a known in-bounds logistic curve:
// a=1500, b=-5, c=10, d=0.5, g=1.
func logistic5Data() (windspeed, power []float64) {
	family := curvefit.Logistic5{}
	truth := []float64{1500, -5, 10, 0.5, 1}
	for i := 1; i <= 40; i++ {
		ws := float64(i) * 0.5
		windspeed = append(windspeed, ws)
		power = append(power, family.At(ws, truth))
	}
	return windspeed, power
}

func TestFitLogistic5RecoversCurve(t *testing.T) {
	windspeed, power := logistic5Data()

	curve, err := FitLogistic5(windspeed, power, nil)
	require.NoError(t, err)
	require.Equal(t, KindParametric, curve.Kind())
	require.Equal(t, "logistic5", curve.Family)
	require.Len(t, curve.Params, 5)

	m, err := GoodnessOfFit(curve, windspeed, power)
	require.NoError(t, err)
	require.Greater(t, m.RSquared, 0.9)
}

func TestFitLogistic5Deterministic(t *testing.T) {
	windspeed, power := logistic5Data()

	first, err := FitLogistic5(windspeed, power, nil)
	require.NoError(t, err)
	second, err := FitLogistic5(windspeed, power, nil)
	require.NoError(t, err)
	require.Equal(t, first.Params, second.Params)
}

func TestFitLogistic5FloorAtZeroWindspeed(t *testing.T) {
	// With a negative steepness the curve settles on the floor parameter
	// at zero wind speed.
	curve, err := NewParametricCurve("logistic5", []float64{1500, -5, 10, 0.5, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.5, curve.EvaluateAt(0), 1e-9)

	// And approaches the asymptote well above the midpoint.
	require.InDelta(t, 1500.0, curve.EvaluateAt(100), 1.0)
}

func TestFitLogistic5ShapeMismatch(t *testing.T) {
	_, err := FitLogistic5([]float64{1, 2}, []float64{1}, nil)
	require.ErrorIs(t, err, curvefit.ErrShapeMismatch)
}

func TestNewParametricCurveValidation(t *testing.T) {
	_, err := NewParametricCurve("nosuchfamily", []float64{1})
	require.Error(t, err)

	_, err = NewParametricCurve("logistic5", []float64{1, 2})
	require.Error(t, err)
}
