package powercurve

import (
	"fmt"
	"math"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// IECOptions configure the binned fit. The defaults follow
// IEC 61400-12-1-2: 0.5 m/s bins spanning [0, 30] m/s.
type IECOptions struct {
	BinWidth       float64
	WindspeedStart float64
	WindspeedEnd   float64
}

// DefaultIECOptions returns the standard's bin layout.
func DefaultIECOptions() *IECOptions {
	return &IECOptions{BinWidth: 0.5, WindspeedStart: 0, WindspeedEnd: 30}
}

// BinnedCurve is the fitted IEC curve: contiguous windspeed bins with one
// filled mean power value per bin. The final bin is unbounded above
// WindspeedEnd; evaluation outside [WindspeedStart, WindspeedEnd] is a hard
// zero cutoff.
type BinnedCurve struct {
	BinWidth       float64
	WindspeedStart float64
	WindspeedEnd   float64
	// Edges holds the bin left edges; bin i spans [Edges[i], Edges[i+1])
	// and the last bin spans [Edges[len(Edges)-1], +Inf).
	Edges []float64
	// Means holds the filled mean power per bin, len(Edges) entries.
	Means []float64
}

// FitIEC bins the observations per IEC 61400-12-1-2 and returns the binned
// curve. Empty bins are filled by linear interpolation across bin index;
// leading gaps take the first defined mean and trailing gaps the last.
func FitIEC(windspeed, power []float64, opts *IECOptions) (*BinnedCurve, error) {
	if len(windspeed) != len(power) {
		return nil, fmt.Errorf("%w: windspeed %d, power %d", curvefit.ErrShapeMismatch, len(windspeed), len(power))
	}
	if opts == nil {
		opts = DefaultIECOptions()
	}
	if opts.BinWidth <= 0 {
		return nil, fmt.Errorf("powercurve: bin width must be positive, got %g", opts.BinWidth)
	}
	if opts.WindspeedEnd <= opts.WindspeedStart {
		return nil, fmt.Errorf("powercurve: windspeed range [%g, %g] is empty", opts.WindspeedStart, opts.WindspeedEnd)
	}

	// Evenly spaced edges across the range, plus one unbounded bin above it.
	span := opts.WindspeedEnd - opts.WindspeedStart
	nEdges := int(math.Ceil(span/opts.BinWidth)) + 1
	edges := make([]float64, nEdges)
	for i := range edges {
		edges[i] = opts.WindspeedStart + span*float64(i)/float64(nEdges-1)
	}

	sums := make([]float64, nEdges)
	counts := make([]int, nEdges)
	for i, ws := range windspeed {
		bin := locateBin(edges, opts.WindspeedEnd, ws)
		if bin < 0 {
			continue
		}
		sums[bin] += power[i]
		counts[bin]++
	}

	means := make([]float64, nEdges)
	for i := range means {
		if counts[i] == 0 {
			means[i] = math.NaN()
		} else {
			means[i] = sums[i] / float64(counts[i])
		}
	}
	fillNaN(means)

	return &BinnedCurve{
		BinWidth:       opts.BinWidth,
		WindspeedStart: opts.WindspeedStart,
		WindspeedEnd:   opts.WindspeedEnd,
		Edges:          edges,
		Means:          means,
	}, nil
}

// Kind returns KindBinned.
func (c *BinnedCurve) Kind() Kind { return KindBinned }

// Evaluate looks up the containing bin's filled mean for every windspeed.
// The cutoff check runs after bin lookup and takes precedence: anything
// strictly below WindspeedStart or strictly above WindspeedEnd is zero.
func (c *BinnedCurve) Evaluate(windspeed []float64) []float64 {
	out := make([]float64, len(windspeed))
	for i, ws := range windspeed {
		if ws < c.WindspeedStart || ws > c.WindspeedEnd {
			continue
		}
		if bin := locateBin(c.Edges, c.WindspeedEnd, ws); bin >= 0 {
			out[i] = c.Means[bin]
		}
	}
	return out
}

// EvaluateAt is the scalar form of Evaluate.
func (c *BinnedCurve) EvaluateAt(windspeed float64) float64 {
	return evaluateScalar(c, windspeed)
}

// locateBin returns the index of the bin containing ws under the
// lo <= ws < hi policy, with the final bin unbounded above end.
// Returns -1 for ws below the first edge.
func locateBin(edges []float64, end, ws float64) int {
	if ws < edges[0] {
		return -1
	}
	if ws >= end {
		return len(edges) - 1
	}
	for i := 1; i < len(edges); i++ {
		if ws < edges[i] {
			return i - 1
		}
	}
	return len(edges) - 1
}

// fillNaN fills undefined entries in place: interior gaps by linear
// interpolation between the surrounding defined values, leading gaps with
// the first defined value, trailing gaps with the last.
func fillNaN(v []float64) {
	prev := -1
	for i := 0; i < len(v); i++ {
		if math.IsNaN(v[i]) {
			continue
		}
		if prev < 0 {
			for j := 0; j < i; j++ {
				v[j] = v[i]
			}
		} else if prev < i-1 {
			step := (v[i] - v[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				v[j] = v[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev >= 0 {
		for j := prev + 1; j < len(v); j++ {
			v[j] = v[prev]
		}
	}
}
