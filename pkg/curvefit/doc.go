// Package curvefit provides the numeric substrate shared by the power-curve
// fitting strategies: least-squares cost, a bounded differential-evolution
// optimizer for parametric curve families, and a cubic B-spline basis with a
// penalized least-squares solver for additive regression.
package curvefit
