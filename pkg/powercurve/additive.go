package powercurve

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// DefaultSplineCount is the number of spline basis functions per covariate.
const DefaultSplineCount = 20

// smoothingLambda weights the second-difference coefficient penalty.
const smoothingLambda = 0.6

// AdditiveCurve is a single-covariate penalized B-spline regression of power
// on wind speed.
type AdditiveCurve struct {
	Basis  *curvefit.BSplineBasis
	Coeffs []float64
}

// FitAdditive fits a smooth spline regression of power on wind speed with
// splineCount basis functions (DefaultSplineCount when <= 0).
func FitAdditive(windspeed, power []float64, splineCount int) (*AdditiveCurve, error) {
	if len(windspeed) != len(power) {
		return nil, fmt.Errorf("%w: windspeed %d, power %d", curvefit.ErrShapeMismatch, len(windspeed), len(power))
	}
	if len(windspeed) == 0 {
		return nil, fmt.Errorf("powercurve: no observations to fit")
	}
	if splineCount <= 0 {
		splineCount = DefaultSplineCount
	}

	basis, err := curvefit.NewCubicBasis(floats.Min(windspeed), floats.Max(windspeed), splineCount)
	if err != nil {
		return nil, err
	}
	design := basis.DesignMatrix(windspeed)
	coeffs, err := curvefit.SolvePenalized(design, power, curvefit.SecondDifferencePenalty(splineCount), smoothingLambda)
	if err != nil {
		return nil, err
	}
	return &AdditiveCurve{Basis: basis, Coeffs: coeffs}, nil
}

// Kind returns KindAdditive.
func (c *AdditiveCurve) Kind() Kind { return KindAdditive }

// Evaluate predicts power at every windspeed. Inputs outside the training
// domain are clamped to the boundary, so predictions stay defined.
func (c *AdditiveCurve) Evaluate(windspeed []float64) []float64 {
	out := make([]float64, len(windspeed))
	row := make([]float64, c.Basis.N)
	for i, ws := range windspeed {
		c.Basis.At(ws, row)
		out[i] = floats.Dot(row, c.Coeffs)
	}
	return out
}

// EvaluateAt is the scalar form of Evaluate.
func (c *AdditiveCurve) EvaluateAt(windspeed float64) float64 {
	return evaluateScalar(c, windspeed)
}

// Additive3Curve is the three-covariate additive surface: an intercept plus
// one penalized spline term each for wind speed, wind direction, and air
// density. Prediction inputs are packaged by name via Covariates.
type Additive3Curve struct {
	Intercept  float64
	WindSpeed  additiveTerm
	Direction  additiveTerm
	AirDensity additiveTerm
}

type additiveTerm struct {
	Basis  *curvefit.BSplineBasis
	Coeffs []float64
}

func (t *additiveTerm) at(x float64, row []float64) float64 {
	t.Basis.At(x, row)
	return floats.Dot(row, t.Coeffs)
}

// FitAdditive3 fits power to wind speed, wind direction, and air density as
// a sum of per-covariate spline terms with splineCount basis functions each
// (DefaultSplineCount when <= 0).
func FitAdditive3(windspeed, direction, density, power []float64, splineCount int) (*Additive3Curve, error) {
	n := len(power)
	for name, col := range map[string][]float64{
		"windspeed": windspeed, "direction": direction, "density": density,
	} {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %s %d, power %d", curvefit.ErrShapeMismatch, name, len(col), n)
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("powercurve: no observations to fit")
	}
	if splineCount <= 0 {
		splineCount = DefaultSplineCount
	}

	covariates := [][]float64{windspeed, direction, density}
	bases := make([]*curvefit.BSplineBasis, len(covariates))
	for i, col := range covariates {
		basis, err := curvefit.NewCubicBasis(floats.Min(col), floats.Max(col), splineCount)
		if err != nil {
			return nil, err
		}
		bases[i] = basis
	}

	// Block design matrix: [1 | B_ws | B_dir | B_dens].
	cols := 1 + 3*splineCount
	design := mat.NewDense(n, cols, nil)
	row := make([]float64, splineCount)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for b, basis := range bases {
			basis.At(covariates[b][i], row)
			for j, v := range row {
				design.Set(i, 1+b*splineCount+j, v)
			}
		}
	}

	// Block-diagonal smoothness penalty, no penalty on the intercept.
	blockPenalty := curvefit.SecondDifferencePenalty(splineCount)
	penalty := mat.NewDense(cols, cols, nil)
	for b := 0; b < 3; b++ {
		off := 1 + b*splineCount
		for i := 0; i < splineCount; i++ {
			for j := 0; j < splineCount; j++ {
				penalty.Set(off+i, off+j, blockPenalty.At(i, j))
			}
		}
	}

	coeffs, err := curvefit.SolvePenalized(design, power, penalty, smoothingLambda)
	if err != nil {
		return nil, err
	}

	return &Additive3Curve{
		Intercept:  coeffs[0],
		WindSpeed:  additiveTerm{Basis: bases[0], Coeffs: coeffs[1 : 1+splineCount]},
		Direction:  additiveTerm{Basis: bases[1], Coeffs: coeffs[1+splineCount : 1+2*splineCount]},
		AirDensity: additiveTerm{Basis: bases[2], Coeffs: coeffs[1+2*splineCount : 1+3*splineCount]},
	}, nil
}

// Kind returns KindAdditive3.
func (c *Additive3Curve) Kind() Kind { return KindAdditive3 }

// Evaluate predicts power for the named covariate bundle. All three
// covariates are required and must have equal lengths.
func (c *Additive3Curve) Evaluate(in Covariates) ([]float64, error) {
	n := len(in.WindSpeed)
	if len(in.Direction) != n || len(in.AirDensity) != n {
		return nil, fmt.Errorf("%w: windspeed %d, direction %d, density %d",
			curvefit.ErrShapeMismatch, n, len(in.Direction), len(in.AirDensity))
	}

	out := make([]float64, n)
	row := make([]float64, c.WindSpeed.Basis.N)
	for i := 0; i < n; i++ {
		out[i] = c.Intercept +
			c.WindSpeed.at(in.WindSpeed[i], row) +
			c.Direction.at(in.Direction[i], row) +
			c.AirDensity.at(in.AirDensity[i], row)
	}
	return out, nil
}
