package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestFindTimeGaps(t *testing.T) {
	ts := []time.Time{
		mustParse(t, "2024-03-01T00:00:00Z"),
		mustParse(t, "2024-03-01T00:10:00Z"),
		// 00:20 missing
		mustParse(t, "2024-03-01T00:30:00Z"),
		// 00:40, 00:50 missing
		mustParse(t, "2024-03-01T01:00:00Z"),
	}

	gaps, err := FindTimeGaps(ts, 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, []time.Time{
		mustParse(t, "2024-03-01T00:20:00Z"),
		mustParse(t, "2024-03-01T00:40:00Z"),
		mustParse(t, "2024-03-01T00:50:00Z"),
	}, gaps)
}

func TestFindTimeGapsCompleteSeries(t *testing.T) {
	ts := []time.Time{
		mustParse(t, "2024-03-01T00:00:00Z"),
		mustParse(t, "2024-03-01T00:10:00Z"),
		mustParse(t, "2024-03-01T00:20:00Z"),
	}
	gaps, err := FindTimeGaps(ts, 10*time.Minute)
	require.NoError(t, err)
	require.Empty(t, gaps)
}

func TestFindTimeGapsValidation(t *testing.T) {
	_, err := FindTimeGaps([]time.Time{time.Now()}, 0)
	require.Error(t, err)

	gaps, err := FindTimeGaps(nil, time.Minute)
	require.NoError(t, err)
	require.Nil(t, gaps)
}

func TestFindDuplicateTimes(t *testing.T) {
	a := mustParse(t, "2024-03-01T00:00:00Z")
	b := mustParse(t, "2024-03-01T00:10:00Z")

	dups := FindDuplicateTimes([]time.Time{a, b, a, a, b})
	require.Equal(t, []time.Time{a, a, b}, dups)

	require.Empty(t, FindDuplicateTimes([]time.Time{a, b}))
}

func TestGapFillTimestamps(t *testing.T) {
	ts := []time.Time{
		mustParse(t, "2024-03-01T00:20:00Z"),
		mustParse(t, "2024-03-01T00:00:00Z"),
	}
	filled, err := GapFillTimestamps(ts, 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, []time.Time{
		mustParse(t, "2024-03-01T00:00:00Z"),
		mustParse(t, "2024-03-01T00:10:00Z"),
		mustParse(t, "2024-03-01T00:20:00Z"),
	}, filled)
}

func TestPercentNaN(t *testing.T) {
	require.InDelta(t, 0.0, PercentNaN([]float64{1, 2, 3}), 1e-12)
	require.InDelta(t, 0.5, PercentNaN([]float64{1, math.NaN(), 2, math.NaN()}), 1e-12)
	require.InDelta(t, 1.0, PercentNaN(nil), 1e-12)
	require.InDelta(t, 1.0, PercentNaN([]float64{}), 1e-12)
}

func TestNumDays(t *testing.T) {
	ts := []time.Time{
		mustParse(t, "2024-03-01T23:50:00Z"),
		mustParse(t, "2024-03-03T00:10:00Z"),
	}
	// Partial days at both ends still count.
	require.Equal(t, 3, NumDays(ts))

	require.Equal(t, 1, NumDays([]time.Time{mustParse(t, "2024-03-01T12:00:00Z")}))
	require.Equal(t, 0, NumDays(nil))
}

func TestNumHours(t *testing.T) {
	ts := []time.Time{
		mustParse(t, "2024-03-01T00:59:00Z"),
		mustParse(t, "2024-03-01T03:01:00Z"),
	}
	require.Equal(t, 4, NumHours(ts))
	require.Equal(t, 0, NumHours(nil))
}
