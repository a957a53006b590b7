// Package met derives engineering quantities from meteorological
// measurements: wind vector components, IEC 61400-12 air density,
// density-adjusted wind speed, turbulence intensity, wind shear under the
// power-law profile, and veer. All functions are pure and fail fast with a
// *DomainError when a physically non-negative quantity is negative.
package met

import (
	"fmt"
	"math"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// Gas constants, J/kg/K.
const (
	dryAirGasConstant      = 287.058
	waterVapourGasConstant = 461.5
)

// standardGravity is the standard acceleration of gravity, m/s².
const standardGravity = 9.80665

// DomainError reports a physically invalid input value. No silent clamping
// is performed anywhere in this package.
type DomainError struct {
	Quantity string
	Index    int
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("met: negative %s at index %d: %g", e.Quantity, e.Index, e.Value)
}

func checkNonNegative(quantity string, values []float64) error {
	for i, v := range values {
		if v < 0 {
			return &DomainError{Quantity: quantity, Index: i, Value: v}
		}
	}
	return nil
}

func checkEqualLen(name string, n int, col []float64) error {
	if len(col) != n {
		return fmt.Errorf("%w: %s %d, want %d", curvefit.ErrShapeMismatch, name, len(col), n)
	}
	return nil
}

// WindDirection computes the meteorological wind direction in degrees from
// the zonal (u) and meridional (v) wind components in m/s. A direction of
// exactly 360 wraps to 0.
func WindDirection(u, v []float64) ([]float64, error) {
	if err := checkEqualLen("v", len(u), v); err != nil {
		return nil, err
	}
	out := make([]float64, len(u))
	for i := range u {
		wd := 180 + math.Atan2(u[i], v[i])*180/math.Pi
		if wd == 360 {
			wd = 0
		}
		out[i] = wd
	}
	return out, nil
}

// WindComponents computes the zonal (u) and meridional (v) components of
// the horizontal wind from speed (m/s) and direction (degrees). Components
// are rounded to 10 decimal places so cardinal directions come out exact.
func WindComponents(speed, dir []float64) (u, v []float64, err error) {
	if err := checkEqualLen("dir", len(speed), dir); err != nil {
		return nil, nil, err
	}
	if err := checkNonNegative("wind speed", speed); err != nil {
		return nil, nil, err
	}
	if err := checkNonNegative("wind direction", dir); err != nil {
		return nil, nil, err
	}
	u = make([]float64, len(speed))
	v = make([]float64, len(speed))
	for i := range speed {
		rad := dir[i] * math.Pi / 180
		u[i] = round10(-speed[i] * math.Sin(rad))
		v[i] = round10(-speed[i] * math.Cos(rad))
	}
	return u, v, nil
}

func round10(x float64) float64 {
	const scale = 1e10
	return math.Round(x*scale) / scale
}

// AirDensity computes air density (kg/m³) from the ideal gas law per the
// IEC 61400-12 definition, given temperature in Kelvin, pressure in
// Pascals, and relative humidity as a fraction. Pass nil humidity to use
// the standard's default of 0.5 throughout.
func AirDensity(tempK, presPa, humidity []float64) ([]float64, error) {
	if err := checkEqualLen("pressure", len(tempK), presPa); err != nil {
		return nil, err
	}
	if humidity == nil {
		humidity = make([]float64, len(tempK))
		for i := range humidity {
			humidity[i] = 0.5
		}
	}
	if err := checkEqualLen("humidity", len(tempK), humidity); err != nil {
		return nil, err
	}
	if err := checkNonNegative("temperature", tempK); err != nil {
		return nil, err
	}
	if err := checkNonNegative("pressure", presPa); err != nil {
		return nil, err
	}
	if err := checkNonNegative("humidity", humidity); err != nil {
		return nil, err
	}

	out := make([]float64, len(tempK))
	for i := range tempK {
		t, p, h := tempK[i], presPa[i], humidity[i]
		out[i] = (1 / t) * (p/dryAirGasConstant -
			h*(0.0000205*math.Exp(0.0631846*t))*(1/dryAirGasConstant-1/waterVapourGasConstant))
	}
	return out, nil
}

// PressureVerticalExtrapolation extrapolates pressure from height z0 to z1
// using the hydrostatic equation, given the layer-mean temperature in
// Kelvin. Heights are in meters, pressures in Pascals.
func PressureVerticalExtrapolation(p0, tempAvg, z0, z1 []float64) ([]float64, error) {
	n := len(p0)
	for name, col := range map[string][]float64{"tempAvg": tempAvg, "z0": z0, "z1": z1} {
		if err := checkEqualLen(name, n, col); err != nil {
			return nil, err
		}
	}
	if err := checkNonNegative("pressure", p0); err != nil {
		return nil, err
	}
	if err := checkNonNegative("temperature", tempAvg); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range p0 {
		out[i] = p0[i] * math.Exp(-standardGravity*(z1[i]-z0[i])/dryAirGasConstant/tempAvg[i])
	}
	return out, nil
}

// DensityAdjustedWindSpeed applies the IEC 61400-12-1 air density
// correction to wind speed: ws * (rho / mean(rho))^(1/3).
func DensityAdjustedWindSpeed(windspeed, density []float64) ([]float64, error) {
	if err := checkEqualLen("density", len(windspeed), density); err != nil {
		return nil, err
	}
	if len(density) == 0 {
		return []float64{}, nil
	}

	var mean float64
	for _, d := range density {
		mean += d
	}
	mean /= float64(len(density))

	out := make([]float64, len(windspeed))
	for i := range windspeed {
		out[i] = windspeed[i] * math.Cbrt(density[i]/mean)
	}
	return out, nil
}

// TurbulenceIntensity is the ratio of the wind speed standard deviation to
// the mean wind speed per sample interval.
func TurbulenceIntensity(mean, std []float64) ([]float64, error) {
	if err := checkEqualLen("std", len(mean), std); err != nil {
		return nil, err
	}
	out := make([]float64, len(mean))
	for i := range mean {
		out[i] = std[i] / mean[i]
	}
	return out, nil
}

// ExtrapolateWindSpeed lifts wind speed from height z1 to z2 under the
// power-law profile with the given per-sample shear exponents.
func ExtrapolateWindSpeed(v1 []float64, z1, z2 float64, shear []float64) ([]float64, error) {
	if err := checkEqualLen("shear", len(v1), shear); err != nil {
		return nil, err
	}
	ratio := z2 / z1
	out := make([]float64, len(v1))
	for i := range v1 {
		out[i] = v1[i] * math.Pow(ratio, shear[i])
	}
	return out, nil
}

// Veer computes the directional shear between two wind direction series in
// degrees per meter of height separation, with the direction difference
// wrapped into (-180, 180].
func Veer(dirA []float64, heightA float64, dirB []float64, heightB float64) ([]float64, error) {
	if err := checkEqualLen("dirB", len(dirA), dirB); err != nil {
		return nil, err
	}
	if heightA == heightB {
		return nil, fmt.Errorf("met: veer requires distinct sensor heights, both %g", heightA)
	}
	out := make([]float64, len(dirA))
	for i := range dirA {
		delta := dirB[i] - dirA[i]
		if delta > 180 {
			delta -= 360
		} else if delta <= -180 {
			delta += 360
		}
		out[i] = delta / (heightB - heightA)
	}
	return out, nil
}
