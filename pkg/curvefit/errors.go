package curvefit

import "errors"

var (
	// ErrShapeMismatch is returned when paired input slices have unequal
	// lengths. The check runs before any computation.
	ErrShapeMismatch = errors.New("curvefit: input slices have mismatched lengths")

	// ErrOptimizationFailure is returned by FitParametric when the search
	// finds no parameter vector improving on the initial population's best
	// cost. The best-found vector is still returned alongside the error.
	ErrOptimizationFailure = errors.New("curvefit: optimizer found no cost improvement")
)
