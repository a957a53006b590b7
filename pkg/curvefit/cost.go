package curvefit

import "fmt"

// CostFunc scores a candidate fit by comparing observed values against the
// values predicted by a parameterized curve. Lower is better.
type CostFunc func(observed, predicted []float64) (float64, error)

// LeastSquares returns the sum of squared residuals between the observed and
// predicted values. It is symmetric in its arguments and defined for any pair
// of equal-length finite slices.
func LeastSquares(observed, predicted []float64) (float64, error) {
	if len(observed) != len(predicted) {
		return 0, fmt.Errorf("%w: observed %d, predicted %d", ErrShapeMismatch, len(observed), len(predicted))
	}

	var sum float64
	for i := range observed {
		r := observed[i] - predicted[i]
		sum += r * r
	}
	return sum, nil
}
