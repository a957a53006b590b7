package curvefit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// splineDegree is fixed at cubic, the standard choice for smooth
// additive regression.
const splineDegree = 3

// BSplineBasis is a clamped cubic B-spline basis over a fixed domain.
// A basis with n functions places n - splineDegree - 1 interior knots
// evenly across [Min, Max].
type BSplineBasis struct {
	Min   float64
	Max   float64
	N     int
	knots []float64
}

// NewCubicBasis builds a cubic B-spline basis with n functions spanning
// [min, max]. n must be at least splineDegree + 1.
func NewCubicBasis(min, max float64, n int) (*BSplineBasis, error) {
	if n < splineDegree+1 {
		return nil, fmt.Errorf("curvefit: basis needs at least %d splines, got %d", splineDegree+1, n)
	}
	if min >= max {
		return nil, fmt.Errorf("curvefit: basis domain [%g, %g] is empty", min, max)
	}

	// Clamped knot vector: the boundary knots repeat degree+1 times.
	interior := n - splineDegree - 1
	knots := make([]float64, 0, n+splineDegree+1)
	for i := 0; i <= splineDegree; i++ {
		knots = append(knots, min)
	}
	step := (max - min) / float64(interior+1)
	for i := 1; i <= interior; i++ {
		knots = append(knots, min+float64(i)*step)
	}
	for i := 0; i <= splineDegree; i++ {
		knots = append(knots, max)
	}

	return &BSplineBasis{Min: min, Max: max, N: n, knots: knots}, nil
}

// At fills dst with the n basis function values at x. Values outside the
// domain are clamped to the nearest boundary, so evaluation is defined
// everywhere. dst must have length N.
func (b *BSplineBasis) At(x float64, dst []float64) {
	if x < b.Min {
		x = b.Min
	}
	if x > b.Max {
		x = b.Max
	}
	for i := range dst {
		dst[i] = 0
	}

	// Cox-de Boor recursion, restricted to the spline span containing x.
	span := b.findSpan(x)
	left := make([]float64, splineDegree+1)
	right := make([]float64, splineDegree+1)
	vals := make([]float64, splineDegree+1)
	vals[0] = 1
	for j := 1; j <= splineDegree; j++ {
		left[j] = x - b.knots[span+1-j]
		right[j] = b.knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			denom := right[r+1] + left[j-r]
			var tmp float64
			if denom != 0 {
				tmp = vals[r] / denom
			}
			vals[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		vals[j] = saved
	}
	for j := 0; j <= splineDegree; j++ {
		idx := span - splineDegree + j
		if idx >= 0 && idx < b.N {
			dst[idx] = vals[j]
		}
	}
}

// findSpan locates the knot span index i with knots[i] <= x < knots[i+1],
// clamping to the last non-degenerate span at the right boundary.
func (b *BSplineBasis) findSpan(x float64) int {
	n := b.N
	if x >= b.knots[n] {
		return n - 1
	}
	lo, hi := splineDegree, n
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if x < b.knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// DesignMatrix evaluates the basis at every x and returns the len(x) x N
// design matrix.
func (b *BSplineBasis) DesignMatrix(x []float64) *mat.Dense {
	d := mat.NewDense(len(x), b.N, nil)
	row := make([]float64, b.N)
	for i, xi := range x {
		b.At(xi, row)
		d.SetRow(i, row)
	}
	return d
}

// SecondDifferencePenalty returns the DᵀD penalty matrix of the
// second-order difference operator over n coefficients, used to smooth
// adjacent spline coefficients.
func SecondDifferencePenalty(n int) *mat.Dense {
	d := mat.NewDense(n-2, n, nil)
	for i := 0; i < n-2; i++ {
		d.Set(i, i, 1)
		d.Set(i, i+1, -2)
		d.Set(i, i+2, 1)
	}
	p := mat.NewDense(n, n, nil)
	p.Mul(d.T(), d)
	return p
}

// SolvePenalized solves the ridge-penalized least-squares problem
//
//	(BᵀB + lambda*P) beta = Bᵀy
//
// returning the coefficient vector beta. A small identity ridge is always
// added so the system stays positive definite when columns are collinear.
func SolvePenalized(design *mat.Dense, y []float64, penalty *mat.Dense, lambda float64) ([]float64, error) {
	rows, cols := design.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("%w: design rows %d, y %d", ErrShapeMismatch, rows, len(y))
	}

	var btb mat.Dense
	btb.Mul(design.T(), design)
	if penalty != nil {
		pr, pc := penalty.Dims()
		if pr != cols || pc != cols {
			return nil, fmt.Errorf("curvefit: penalty is %dx%d, want %dx%d", pr, pc, cols, cols)
		}
		var scaled mat.Dense
		scaled.Scale(lambda, penalty)
		btb.Add(&btb, &scaled)
	}
	const ridge = 1e-8
	for i := 0; i < cols; i++ {
		btb.Set(i, i, btb.At(i, i)+ridge)
	}

	yv := mat.NewVecDense(len(y), y)
	var bty mat.VecDense
	bty.MulVec(design.T(), yv)

	var beta mat.VecDense
	if err := beta.SolveVec(&btb, &bty); err != nil {
		return nil, fmt.Errorf("curvefit: penalized solve failed: %w", err)
	}

	out := make([]float64, cols)
	copy(out, beta.RawVector().Data)
	return out, nil
}
