// Package powercurve fits wind turbine power curves to observed
// (wind speed, power) samples and represents the fitted result as an
// explicit, serializable curve value rather than an opaque closure.
//
// Three strategies are provided: the IEC 61400-12-1-2 binned method,
// a 5-parameter logistic fit via bounded differential evolution, and a
// penalized B-spline additive regression in one or three covariates.
package powercurve
