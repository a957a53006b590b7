package curvefit

import "math"

// Family is a parametric curve family evaluated pointwise. Implementations
// must be pure: At may be called concurrently with distinct parameter slices.
type Family interface {
	// Name identifies the family in logs and serialized models.
	Name() string
	// NumParams is the length of the parameter vector At expects.
	NumParams() int
	// At evaluates the curve at x for the given parameter vector.
	At(x float64, params []float64) float64
}

// Logistic5 is the 5-parameter logistic family used for wind turbine power
// curves:
//
//	f(x) = d + (a - d) / (1 + (x/c)^b)^g
//
// with parameter order [a, b, c, d, g]: upper asymptote, steepness (negative
// for a rising S-curve), midpoint, floor, and shape.
type Logistic5 struct{}

// Name returns the family identifier.
func (Logistic5) Name() string { return "logistic5" }

// NumParams returns 5.
func (Logistic5) NumParams() int { return 5 }

// At evaluates the logistic expression. With b < 0, x = 0 drives the
// denominator to +Inf and the result settles on the floor parameter d.
func (Logistic5) At(x float64, p []float64) float64 {
	a, b, c, d, g := p[0], p[1], p[2], p[3], p[4]
	return d + (a-d)/math.Pow(1+math.Pow(x/c, b), g)
}
