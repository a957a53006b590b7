package powercurve

import (
	"errors"
	"fmt"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// logistic5Bounds are the fixed search bounds for the 5-parameter logistic
// fit: asymptote, steepness, midpoint, floor, shape.
var logistic5Bounds = []curvefit.Bound{
	{Low: 1200, High: 1800},
	{Low: -10, High: -1e-3},
	{Low: 1e-3, High: 30},
	{Low: 1e-3, High: 1},
	{Low: 1e-3, High: 10},
}

// ParametricCurve is a fitted closed-form curve: a family name plus its
// parameter vector. Evaluation has no further data dependency.
type ParametricCurve struct {
	Family string
	Params []float64

	family curvefit.Family
}

// FitLogistic5 fits the 5-parameter logistic family to the observations by
// least-squares differential evolution within fixed parameter bounds.
// Pass nil opts for the defaults (seed 42, so fits are reproducible).
//
// The search is best effort: if it reports curvefit.ErrOptimizationFailure
// the best-found curve is still returned with the error.
func FitLogistic5(windspeed, power []float64, opts *curvefit.Options) (*ParametricCurve, error) {
	family := curvefit.Logistic5{}
	params, err := curvefit.FitParametric(windspeed, power, family, logistic5Bounds, curvefit.LeastSquares, opts)
	if err != nil && !errors.Is(err, curvefit.ErrOptimizationFailure) {
		return nil, err
	}
	c := &ParametricCurve{Family: family.Name(), Params: params, family: family}
	return c, err
}

// NewParametricCurve reconstructs a curve from a family name and parameter
// vector, as produced by a previous fit or a decoded model.
func NewParametricCurve(familyName string, params []float64) (*ParametricCurve, error) {
	family, err := familyByName(familyName)
	if err != nil {
		return nil, err
	}
	if len(params) != family.NumParams() {
		return nil, fmt.Errorf("powercurve: family %q expects %d parameters, got %d", familyName, family.NumParams(), len(params))
	}
	return &ParametricCurve{Family: familyName, Params: params, family: family}, nil
}

func familyByName(name string) (curvefit.Family, error) {
	switch name {
	case curvefit.Logistic5{}.Name():
		return curvefit.Logistic5{}, nil
	default:
		return nil, fmt.Errorf("powercurve: unknown curve family %q", name)
	}
}

// Kind returns KindParametric.
func (c *ParametricCurve) Kind() Kind { return KindParametric }

// Evaluate computes the fitted closed-form expression at every windspeed.
func (c *ParametricCurve) Evaluate(windspeed []float64) []float64 {
	out := make([]float64, len(windspeed))
	for i, ws := range windspeed {
		out[i] = c.family.At(ws, c.Params)
	}
	return out
}

// EvaluateAt is the scalar form of Evaluate.
func (c *ParametricCurve) EvaluateAt(windspeed float64) float64 {
	return c.family.At(windspeed, c.Params)
}
