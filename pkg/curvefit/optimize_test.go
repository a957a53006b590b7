package curvefit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// quadratic is a two-parameter test family: f(x) = p0*x^2 + p1.
type quadratic struct{}

func (quadratic) Name() string   { return "quadratic" }
func (quadratic) NumParams() int { return 2 }
func (quadratic) At(x float64, p []float64) float64 {
	return p[0]*x*x + p[1]
}

func quadraticData() (x, y []float64) {
	for i := 0; i <= 20; i++ {
		xi := float64(i) * 0.5
		x = append(x, xi)
		y = append(y, 2*xi*xi+1)
	}
	return x, y
}

func TestLeastSquares(t *testing.T) {
	got, err := LeastSquares([]float64{1, 2, 3}, []float64{1, 1, 5})
	require.NoError(t, err)
	require.InDelta(t, 5.0, got, 1e-12)
}

func TestLeastSquaresShapeMismatch(t *testing.T) {
	_, err := LeastSquares([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFitParametricRecoversQuadratic(t *testing.T) {
	x, y := quadraticData()
	bounds := []Bound{{Low: 0, High: 5}, {Low: 0, High: 5}}

	params, err := FitParametric(x, y, quadratic{}, bounds, LeastSquares, nil)
	require.NoError(t, err)
	require.Len(t, params, 2)
	require.InDelta(t, 2.0, params[0], 0.1)
	require.InDelta(t, 1.0, params[1], 0.5)
}

func TestFitParametricDeterministic(t *testing.T) {
	x, y := quadraticData()
	bounds := []Bound{{Low: 0, High: 5}, {Low: 0, High: 5}}

	first, err := FitParametric(x, y, quadratic{}, bounds, LeastSquares, nil)
	require.NoError(t, err)
	second, err := FitParametric(x, y, quadratic{}, bounds, LeastSquares, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFitParametricSeedChangesSearch(t *testing.T) {
	x, y := quadraticData()
	bounds := []Bound{{Low: 0, High: 5}, {Low: 0, High: 5}}

	opts := DefaultOptions()
	opts.Seed = 7
	other, err := FitParametric(x, y, quadratic{}, bounds, LeastSquares, opts)
	require.NoError(t, err)

	// A different seed still lands near the same optimum.
	require.InDelta(t, 2.0, other[0], 0.1)
}

func TestFitParametricFlatCostReportsFailure(t *testing.T) {
	x, y := quadraticData()
	bounds := []Bound{{Low: 0, High: 5}, {Low: 0, High: 5}}

	flat := func(observed, predicted []float64) (float64, error) { return 1.0, nil }
	params, err := FitParametric(x, y, quadratic{}, bounds, flat, nil)
	require.ErrorIs(t, err, ErrOptimizationFailure)
	// Best effort: a vector inside the bounds comes back anyway.
	require.Len(t, params, 2)
	for i, p := range params {
		require.GreaterOrEqual(t, p, bounds[i].Low)
		require.LessOrEqual(t, p, bounds[i].High)
	}
}

func TestFitParametricValidation(t *testing.T) {
	x, y := quadraticData()

	_, err := FitParametric(x[:3], y, quadratic{}, []Bound{{0, 5}, {0, 5}}, LeastSquares, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FitParametric(x, y, quadratic{}, []Bound{{0, 5}}, LeastSquares, nil)
	require.Error(t, err)

	_, err = FitParametric(x, y, quadratic{}, []Bound{{0, 5}, {5, 0}}, LeastSquares, nil)
	require.Error(t, err)

	_, err = FitParametric(nil, nil, quadratic{}, []Bound{{0, 5}, {0, 5}}, LeastSquares, nil)
	require.Error(t, err)
}
