package curvefit

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Bound is an inclusive [Low, High] search interval for one parameter.
type Bound struct {
	Low  float64
	High float64
}

// Options control the differential-evolution search. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// PopSize is the population multiplier; the population holds
	// PopSize * numParams members.
	PopSize int
	// MaxIter is the generation budget.
	MaxIter int
	// Mutation is the dithering range for the differential weight F; each
	// generation draws F uniformly from [Mutation[0], Mutation[1]).
	Mutation [2]float64
	// Recombination is the binomial crossover probability CR.
	Recombination float64
	// Tol stops the search once the population cost spread falls below
	// Tol * |mean cost|.
	Tol float64
	// Seed makes the stochastic search reproducible. Two calls with equal
	// inputs and seeds return identical parameter vectors.
	Seed int64
}

// DefaultOptions mirrors the conventional differential-evolution defaults:
// rand/1/bin with dithered mutation in [0.5, 1), CR 0.7.
func DefaultOptions() *Options {
	return &Options{
		PopSize:       15,
		MaxIter:       1000,
		Mutation:      [2]float64{0.5, 1.0},
		Recombination: 0.7,
		Tol:           0.01,
		Seed:          42,
	}
}

// FitParametric searches the bounded parameter space of family for the vector
// minimizing cost(y, family(x, params)) using differential evolution
// (rand/1/bin). One [low, high] bound is required per parameter.
//
// The search is best effort: the lowest-cost vector found is always returned.
// When no member of any later generation improves on the initial population's
// best cost, the vector is returned together with ErrOptimizationFailure so
// callers wanting strict convergence can detect it.
func FitParametric(x, y []float64, family Family, bounds []Bound, cost CostFunc, opts *Options) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x %d, y %d", ErrShapeMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("curvefit: no observations to fit")
	}
	dim := family.NumParams()
	if len(bounds) != dim {
		return nil, fmt.Errorf("curvefit: family %q needs %d bounds, got %d", family.Name(), dim, len(bounds))
	}
	for i, b := range bounds {
		if b.Low > b.High {
			return nil, fmt.Errorf("curvefit: bound %d has low %g > high %g", i, b.Low, b.High)
		}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if cost == nil {
		cost = LeastSquares
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	np := opts.PopSize * dim
	if np < 4 {
		np = 4
	}

	// Initial population: uniform within bounds.
	pop := make([][]float64, np)
	costs := make([]float64, np)
	pred := make([]float64, len(x))
	for i := range pop {
		pop[i] = make([]float64, dim)
		for j, b := range bounds {
			pop[i][j] = b.Low + rng.Float64()*(b.High-b.Low)
		}
		c, err := evalCost(x, y, family, pop[i], pred, cost)
		if err != nil {
			return nil, err
		}
		costs[i] = c
	}

	best := bestIndex(costs)
	initialBest := costs[best]

	trial := make([]float64, dim)
	for gen := 0; gen < opts.MaxIter; gen++ {
		f := opts.Mutation[0] + rng.Float64()*(opts.Mutation[1]-opts.Mutation[0])
		for i := 0; i < np; i++ {
			r1, r2, r3 := pickDistinct(rng, np, i)
			jrand := rng.Intn(dim)
			for j := 0; j < dim; j++ {
				if j == jrand || rng.Float64() < opts.Recombination {
					trial[j] = pop[r1][j] + f*(pop[r2][j]-pop[r3][j])
					// Resample out-of-bounds components uniformly
					// within the bound.
					if trial[j] < bounds[j].Low || trial[j] > bounds[j].High {
						trial[j] = bounds[j].Low + rng.Float64()*(bounds[j].High-bounds[j].Low)
					}
				} else {
					trial[j] = pop[i][j]
				}
			}
			c, err := evalCost(x, y, family, trial, pred, cost)
			if err != nil {
				return nil, err
			}
			if c <= costs[i] {
				copy(pop[i], trial)
				costs[i] = c
				if c < costs[best] {
					best = i
				}
			}
		}

		mean, std := stat.MeanStdDev(costs, nil)
		if std <= opts.Tol*math.Abs(mean) {
			break
		}
	}

	result := make([]float64, dim)
	copy(result, pop[best])
	if costs[best] >= initialBest {
		return result, ErrOptimizationFailure
	}
	return result, nil
}

func evalCost(x, y []float64, family Family, params, pred []float64, cost CostFunc) (float64, error) {
	for i, xi := range x {
		pred[i] = family.At(xi, params)
	}
	c, err := cost(y, pred)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(c) {
		c = math.Inf(1)
	}
	return c, nil
}

func bestIndex(costs []float64) int {
	best := 0
	for i, c := range costs {
		if c < costs[best] {
			best = i
		}
	}
	return best
}

func pickDistinct(rng *rand.Rand, np, exclude int) (int, int, int) {
	pick := func(taken ...int) int {
		for {
			r := rng.Intn(np)
			ok := r != exclude
			for _, t := range taken {
				if r == t {
					ok = false
				}
			}
			if ok {
				return r
			}
		}
	}
	r1 := pick()
	r2 := pick(r1)
	r3 := pick(r1, r2)
	return r1, r2, r3
}
