package powercurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// Metrics summarize how well a fitted curve reproduces its observations.
type Metrics struct {
	RSquared             float64
	RootMeanSquaredError float64
	MeanAbsoluteError    float64
	SampleCount          int
}

// GoodnessOfFit evaluates the curve on the given observations and returns
// the usual fit quality measures.
func GoodnessOfFit(c Curve, windspeed, power []float64) (Metrics, error) {
	if len(windspeed) != len(power) {
		return Metrics{}, fmt.Errorf("%w: windspeed %d, power %d", curvefit.ErrShapeMismatch, len(windspeed), len(power))
	}
	if len(power) == 0 {
		return Metrics{}, fmt.Errorf("powercurve: no observations to score")
	}

	predicted := c.Evaluate(windspeed)
	mean := stat.Mean(power, nil)

	var ssRes, ssTot, sumAbs float64
	for i := range power {
		r := power[i] - predicted[i]
		ssRes += r * r
		sumAbs += math.Abs(r)
		d := power[i] - mean
		ssTot += d * d
	}

	n := float64(len(power))
	m := Metrics{
		RootMeanSquaredError: math.Sqrt(ssRes / n),
		MeanAbsoluteError:    sumAbs / n,
		SampleCount:          len(power),
	}
	if ssTot > 0 {
		m.RSquared = 1 - ssRes/ssTot
	}
	return m, nil
}
