package met

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// powerLawSensors builds wind speeds that follow ws(z) = ref * (z/zref)^alpha
// exactly, so the regression must recover alpha.
func powerLawSensors(heights []float64, zref, ref, alpha float64) []ShearSensor {
	sensors := make([]ShearSensor, len(heights))
	for i, z := range heights {
		sensors[i] = ShearSensor{
			Height:    z,
			WindSpeed: []float64{ref * math.Pow(z/zref, alpha)},
		}
	}
	return sensors
}

func TestComputeShearRecoversExponent(t *testing.T) {
	const alpha = 0.2
	sensors := powerLawSensors([]float64{40, 60, 80, 100}, 80, 8, alpha)

	got, err := ComputeShear(sensors)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, alpha, got[0], 1e-9)
}

func TestComputeShearTwoSensorSlope(t *testing.T) {
	// With exactly two sensors the OLS slope reduces to the log ratio.
	sensors := []ShearSensor{
		{Height: 40, WindSpeed: []float64{5.3}},
		{Height: 90, WindSpeed: []float64{7.1}},
	}
	got, err := ComputeShear(sensors)
	require.NoError(t, err)
	require.InDelta(t, math.Log(7.1/5.3)/math.Log(90.0/40), got[0], 1e-12)
}

func TestComputeShearUniformProfileIsZero(t *testing.T) {
	sensors := []ShearSensor{
		{Height: 40, WindSpeed: []float64{7, 7}},
		{Height: 80, WindSpeed: []float64{7, 7}},
	}
	got, err := ComputeShear(sensors)
	require.NoError(t, err)
	require.InDelta(t, 0.0, got[0], 1e-12)
	require.InDelta(t, 0.0, got[1], 1e-12)
}

func TestComputeShearExcludesBadSamples(t *testing.T) {
	// Three sensors; the middle one drops out at the second timestep. The
	// remaining two still define the exponent.
	sensors := []ShearSensor{
		{Height: 40, WindSpeed: []float64{8 * math.Pow(0.5, 0.2), 8 * math.Pow(0.5, 0.2)}},
		{Height: 60, WindSpeed: []float64{8 * math.Pow(0.75, 0.2), math.NaN()}},
		{Height: 80, WindSpeed: []float64{8, 8}},
	}
	got, err := ComputeShear(sensors)
	require.NoError(t, err)
	require.InDelta(t, 0.2, got[0], 1e-9)
	require.InDelta(t, 0.2, got[1], 1e-9)
}

func TestComputeShearTooFewValidSamplesIsNaN(t *testing.T) {
	sensors := []ShearSensor{
		{Height: 40, WindSpeed: []float64{0}},
		{Height: 80, WindSpeed: []float64{8}},
	}
	got, err := ComputeShear(sensors)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got[0]))
}

func TestComputeShearWithReference(t *testing.T) {
	sensors := powerLawSensors([]float64{40, 90}, 80, 8, 0.15)

	alpha, refHeight, refWS, err := ComputeShearWithReference(sensors)
	require.NoError(t, err)
	require.InDelta(t, 0.15, alpha[0], 1e-9)

	// Reference height is the geometric mean of the sensor heights.
	require.InDelta(t, math.Sqrt(40*90), refHeight, 1e-9)

	// The reference wind speed lifted to 90 m reproduces that sensor.
	lifted, err := ExtrapolateWindSpeed(refWS, refHeight, 90, alpha)
	require.NoError(t, err)
	require.InDelta(t, sensors[1].WindSpeed[0], lifted[0], 1e-9)
}

func TestComputeShearValidation(t *testing.T) {
	_, err := ComputeShear([]ShearSensor{{Height: 40, WindSpeed: []float64{1}}})
	require.Error(t, err)

	_, err = ComputeShear([]ShearSensor{
		{Height: -40, WindSpeed: []float64{1}},
		{Height: 80, WindSpeed: []float64{1}},
	})
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "sensor height", derr.Quantity)

	_, err = ComputeShear([]ShearSensor{
		{Height: 40, WindSpeed: []float64{1, 2}},
		{Height: 80, WindSpeed: []float64{1}},
	})
	require.Error(t, err)
}
