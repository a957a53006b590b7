package met

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

func TestWindDirectionCardinals(t *testing.T) {
	// A pure southerly component (v > 0) means wind from the south.
	dir, err := WindDirection([]float64{0, -1, 0, 1}, []float64{1, 0, -1, 0})
	require.NoError(t, err)
	require.InDelta(t, 180.0, dir[0], 1e-9)
	require.InDelta(t, 90.0, dir[1], 1e-9)
	require.InDelta(t, 0.0, dir[2], 1e-9)
	require.InDelta(t, 270.0, dir[3], 1e-9)
}

func TestWindComponentsRoundTrip(t *testing.T) {
	speed := []float64{5, 8, 12, 3.2}
	dir := []float64{0, 90, 225, 350}

	u, v, err := WindComponents(speed, dir)
	require.NoError(t, err)

	back, err := WindDirection(u, v)
	require.NoError(t, err)
	for i := range dir {
		require.InDelta(t, dir[i], back[i], 1e-6, "sample %d", i)
		require.InDelta(t, speed[i], math.Hypot(u[i], v[i]), 1e-6, "sample %d", i)
	}
}

func TestWindComponentsCardinalExact(t *testing.T) {
	u, v, err := WindComponents([]float64{10}, []float64{180})
	require.NoError(t, err)
	// Wind from the south blows northward: zero u, positive v.
	require.Equal(t, 0.0, u[0])
	require.Equal(t, 10.0, v[0])
}

func TestWindComponentsRejectsNegatives(t *testing.T) {
	_, _, err := WindComponents([]float64{-1}, []float64{90})
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "wind speed", derr.Quantity)
	require.Equal(t, 0, derr.Index)
}

func TestAirDensityStandardAtmosphere(t *testing.T) {
	rho, err := AirDensity([]float64{288.15}, []float64{101325}, []float64{0})
	require.NoError(t, err)
	// Dry air at 15 C and sea-level pressure.
	require.InDelta(t, 1.225, rho[0], 0.001)

	// Default humidity (nil -> 0.5) lowers the density slightly.
	humid, err := AirDensity([]float64{288.15}, []float64{101325}, nil)
	require.NoError(t, err)
	require.Less(t, humid[0], rho[0])
	require.InDelta(t, 1.225, humid[0], 0.01)
}

func TestAirDensityRejectsNegativeTemperature(t *testing.T) {
	_, err := AirDensity([]float64{-1}, []float64{101325}, nil)
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "temperature", derr.Quantity)
}

func TestPressureVerticalExtrapolation(t *testing.T) {
	// No height change, no pressure change.
	same, err := PressureVerticalExtrapolation([]float64{101325}, []float64{288}, []float64{0}, []float64{0})
	require.NoError(t, err)
	require.InDelta(t, 101325.0, same[0], 1e-9)

	// Pressure drops going up, roughly 12 Pa per meter near the surface.
	up, err := PressureVerticalExtrapolation([]float64{101325}, []float64{288}, []float64{0}, []float64{100})
	require.NoError(t, err)
	require.Less(t, up[0], 101325.0)
	require.InDelta(t, 101325.0-1190, up[0], 50)
}

func TestDensityAdjustedWindSpeed(t *testing.T) {
	// Uniform density leaves the speeds untouched.
	out, err := DensityAdjustedWindSpeed([]float64{5, 10}, []float64{1.2, 1.2})
	require.NoError(t, err)
	require.InDelta(t, 5.0, out[0], 1e-12)
	require.InDelta(t, 10.0, out[1], 1e-12)

	// Denser-than-mean air scales the speed up by the cube root.
	out, err = DensityAdjustedWindSpeed([]float64{10, 10}, []float64{1.3, 1.1})
	require.NoError(t, err)
	require.InDelta(t, 10*math.Cbrt(1.3/1.2), out[0], 1e-9)
	require.InDelta(t, 10*math.Cbrt(1.1/1.2), out[1], 1e-9)
}

func TestTurbulenceIntensity(t *testing.T) {
	ti, err := TurbulenceIntensity([]float64{10, 8}, []float64{1, 2})
	require.NoError(t, err)
	require.InDelta(t, 0.1, ti[0], 1e-12)
	require.InDelta(t, 0.25, ti[1], 1e-12)
}

func TestExtrapolateWindSpeed(t *testing.T) {
	// alpha = 1/7, classic neutral profile.
	out, err := ExtrapolateWindSpeed([]float64{8}, 80, 120, []float64{1.0 / 7})
	require.NoError(t, err)
	require.InDelta(t, 8*math.Pow(1.5, 1.0/7), out[0], 1e-9)

	// Zero shear means no change with height.
	out, err = ExtrapolateWindSpeed([]float64{8}, 80, 120, []float64{0})
	require.NoError(t, err)
	require.InDelta(t, 8.0, out[0], 1e-12)
}

func TestVeerWrapsDirectionDifference(t *testing.T) {
	// 350 -> 10 crossing north is +20 degrees, not -340.
	veer, err := Veer([]float64{350}, 80, []float64{10}, 120)
	require.NoError(t, err)
	require.InDelta(t, 20.0/40, veer[0], 1e-9)

	// And the wrap is symmetric going the other way.
	veer, err = Veer([]float64{10}, 80, []float64{350}, 120)
	require.NoError(t, err)
	require.InDelta(t, -20.0/40, veer[0], 1e-9)
}

func TestVeerRequiresDistinctHeights(t *testing.T) {
	_, err := Veer([]float64{10}, 80, []float64{20}, 80)
	require.Error(t, err)
}

func TestShapeMismatches(t *testing.T) {
	_, err := WindDirection([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, curvefit.ErrShapeMismatch)

	_, err = TurbulenceIntensity([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, curvefit.ErrShapeMismatch)

	_, err = Veer([]float64{1}, 80, []float64{1, 2}, 120)
	require.ErrorIs(t, err, curvefit.ErrShapeMismatch)
}
