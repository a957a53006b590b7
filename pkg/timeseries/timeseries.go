// Package timeseries provides utilities for checking the regularity of
// timestamped operational data: gap and duplicate detection against an
// expected sampling frequency, missing-value accounting, and coverage
// counts. Cleaning and alignment of the value columns themselves is the
// data-loading collaborator's job.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// FindTimeGaps returns the timestamps that an evenly sampled series at the
// given frequency would contain between the observed minimum and maximum but
// that are absent from ts. Duplicates in ts are tolerated. The result is
// sorted ascending.
func FindTimeGaps(ts []time.Time, freq time.Duration) ([]time.Time, error) {
	if freq <= 0 {
		return nil, fmt.Errorf("timeseries: frequency must be positive, got %v", freq)
	}
	if len(ts) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(ts))
	min, max := ts[0], ts[0]
	for _, t := range ts {
		seen[t.UnixNano()] = struct{}{}
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}

	var gaps []time.Time
	for t := min; !t.After(max); t = t.Add(freq) {
		if _, ok := seen[t.UnixNano()]; !ok {
			gaps = append(gaps, t)
		}
	}
	return gaps, nil
}

// FindDuplicateTimes reports repeated timestamps. The first occurrence is
// not reported, only the subsequent repeats, in input order.
func FindDuplicateTimes(ts []time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(ts))
	var dups []time.Time
	for _, t := range ts {
		key := t.UnixNano()
		if _, ok := seen[key]; ok {
			dups = append(dups, t)
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// GapFillTimestamps returns the sorted union of the observed timestamps and
// the expected stamps at the given frequency, so missing sample slots can be
// inserted with undefined values by the caller.
func GapFillTimestamps(ts []time.Time, freq time.Duration) ([]time.Time, error) {
	gaps, err := FindTimeGaps(ts, freq)
	if err != nil {
		return nil, err
	}
	filled := make([]time.Time, 0, len(ts)+len(gaps))
	filled = append(filled, ts...)
	filled = append(filled, gaps...)
	sort.Slice(filled, func(i, j int) bool { return filled[i].Before(filled[j]) })
	return filled, nil
}

// PercentNaN returns the fraction of undefined values in the series, or 1
// for an empty series.
func PercentNaN(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

// NumDays counts the UTC calendar days spanned by the timestamps, first and
// last inclusive. Zero for an empty series.
func NumDays(ts []time.Time) int {
	return spanCount(ts, 24*time.Hour)
}

// NumHours counts the UTC hours spanned by the timestamps, first and last
// inclusive. Zero for an empty series.
func NumHours(ts []time.Time) int {
	return spanCount(ts, time.Hour)
}

func spanCount(ts []time.Time, unit time.Duration) int {
	if len(ts) == 0 {
		return 0
	}
	min, max := ts[0], ts[0]
	for _, t := range ts {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	first := min.UTC().Truncate(unit)
	last := max.UTC().Truncate(unit)
	return int(last.Sub(first)/unit) + 1
}
