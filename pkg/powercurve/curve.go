package powercurve

// Kind identifies a fitted curve variant.
type Kind string

const (
	// KindBinned is the IEC 61400-12-1-2 binned-average curve.
	KindBinned Kind = "binned"
	// KindParametric is a parametric curve, currently the 5-parameter logistic.
	KindParametric Kind = "parametric"
	// KindAdditive is the single-covariate penalized spline regression.
	KindAdditive Kind = "additive"
	// KindAdditive3 is the wind speed + direction + density additive surface.
	KindAdditive3 Kind = "additive3"
)

// Curve maps wind speed to expected power. Evaluate preserves input shape;
// EvaluateAt is the scalar form. Implementations are immutable after fitting
// and safe for concurrent use.
type Curve interface {
	Kind() Kind
	Evaluate(windspeed []float64) []float64
	EvaluateAt(windspeed float64) float64
}

// Covariates packages the named prediction inputs for a three-covariate
// curve. Inputs are matched by field, never by position, so callers cannot
// transpose columns silently.
type Covariates struct {
	WindSpeed  []float64
	Direction  []float64
	AirDensity []float64
}

// Curve3 maps the named covariate bundle to expected power.
type Curve3 interface {
	Kind() Kind
	Evaluate(in Covariates) ([]float64, error)
}

func evaluateScalar(c Curve, x float64) float64 {
	return c.Evaluate([]float64{x})[0]
}
