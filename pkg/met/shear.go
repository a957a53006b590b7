package met

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// ShearSensor pairs a wind speed series with its sensor height in meters.
type ShearSensor struct {
	Height    float64
	WindSpeed []float64
}

// ComputeShear estimates the per-timestep power-law shear exponent from
// wind speed measurements at two or more heights. The exponent is the OLS
// slope of log wind speed on log height. Non-positive wind speed samples
// are excluded from their timestep's regression rather than poisoning it.
func ComputeShear(sensors []ShearSensor) ([]float64, error) {
	alpha, _, _, err := computeShear(sensors, false)
	return alpha, err
}

// ComputeShearWithReference additionally returns the reference height (the
// geometric mean of the sensor heights) and the per-timestep reference wind
// speed (the geometric mean of the valid measurements), both usable with
// ExtrapolateWindSpeed.
func ComputeShearWithReference(sensors []ShearSensor) (alpha []float64, refHeight float64, refWindSpeed []float64, err error) {
	return computeShear(sensors, true)
}

func computeShear(sensors []ShearSensor, withReference bool) ([]float64, float64, []float64, error) {
	if len(sensors) < 2 {
		return nil, 0, nil, fmt.Errorf("met: shear needs at least two sensor heights, got %d", len(sensors))
	}
	n := len(sensors[0].WindSpeed)
	logHeights := make([]float64, len(sensors))
	for i, s := range sensors {
		if s.Height <= 0 {
			return nil, 0, nil, &DomainError{Quantity: "sensor height", Index: i, Value: s.Height}
		}
		if len(s.WindSpeed) != n {
			return nil, 0, nil, fmt.Errorf("%w: sensor %d has %d samples, want %d",
				curvefit.ErrShapeMismatch, i, len(s.WindSpeed), n)
		}
		logHeights[i] = math.Log(s.Height)
	}

	alpha := make([]float64, n)
	var refWS []float64
	if withReference {
		refWS = make([]float64, n)
	}

	zs := make([]float64, 0, len(sensors))
	us := make([]float64, 0, len(sensors))
	for t := 0; t < n; t++ {
		zs, us = zs[:0], us[:0]
		for j, s := range sensors {
			ws := s.WindSpeed[t]
			if ws > 0 && !math.IsNaN(ws) {
				zs = append(zs, logHeights[j])
				us = append(us, math.Log(ws))
			}
		}
		if len(zs) < 2 {
			alpha[t] = math.NaN()
			if withReference {
				refWS[t] = math.NaN()
			}
			continue
		}
		_, alpha[t] = stat.LinearRegression(zs, us, nil, false)
		if withReference {
			refWS[t] = math.Exp(stat.Mean(us, nil))
		}
	}

	var refHeight float64
	if withReference {
		var sum float64
		for _, lh := range logHeights {
			sum += lh
		}
		refHeight = math.Exp(sum / float64(len(logHeights)))
	}
	return alpha, refHeight, refWS, nil
}
