// Package gapanalysis reconciles a pre-construction energy yield assessment
// (EYA) against an operational assessment (OA) of annual energy production,
// decomposing the AEP difference into attributable categories plus a
// residual. The decomposition feeds a waterfall-style presentation layer
// that this package exposes values and labels to but does not depend on.
package gapanalysis

import "fmt"

// ValidationError reports a bundle field that failed construction-time
// validation. No partial bundle exists after a validation failure.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gapanalysis: %s must be in the range [0, 1), got %g", e.Field, e.Value)
}

func validateFraction(field string, value float64) error {
	if value < 0 || value >= 1 {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}

// EYAEstimate holds the consultant-produced energy yield assessment.
// Energies are in GWh/yr; the loss fields are fractions in [0, 1).
// Instances are immutable once constructed.
type EYAEstimate struct {
	AEP                    float64
	GrossEnergy            float64
	AvailabilityLosses     float64
	ElectricalLosses       float64
	TurbineLosses          float64
	BladeDegradationLosses float64
	WakeLosses             float64
}

// NewEYAEstimate validates every loss fraction and returns the immutable
// bundle, or a *ValidationError naming the first out-of-range field.
func NewEYAEstimate(aep, grossEnergy, availabilityLosses, electricalLosses, turbineLosses, bladeDegradationLosses, wakeLosses float64) (*EYAEstimate, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"availability_losses", availabilityLosses},
		{"electrical_losses", electricalLosses},
		{"turbine_losses", turbineLosses},
		{"blade_degradation_losses", bladeDegradationLosses},
		{"wake_losses", wakeLosses},
	} {
		if err := validateFraction(f.name, f.value); err != nil {
			return nil, err
		}
	}
	return &EYAEstimate{
		AEP:                    aep,
		GrossEnergy:            grossEnergy,
		AvailabilityLosses:     availabilityLosses,
		ElectricalLosses:       electricalLosses,
		TurbineLosses:          turbineLosses,
		BladeDegradationLosses: bladeDegradationLosses,
		WakeLosses:             wakeLosses,
	}, nil
}

// EYAEstimateFromMap builds the bundle from a key/value mapping using the
// canonical field names. Missing keys are an error; unrecognized keys are
// the config loader's concern and are ignored here.
func EYAEstimateFromMap(m map[string]float64) (*EYAEstimate, error) {
	vals, err := requireKeys(m, "aep", "gross_energy", "availability_losses",
		"electrical_losses", "turbine_losses", "blade_degradation_losses", "wake_losses")
	if err != nil {
		return nil, err
	}
	return NewEYAEstimate(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6])
}

// OAResults holds the operational assessment results. AEP and turbine ideal
// energy are in GWh/yr; the loss fields are fractions in [0, 1). Instances
// are immutable once constructed.
type OAResults struct {
	AEP                float64
	AvailabilityLosses float64
	ElectricalLosses   float64
	TurbineIdealEnergy float64
}

// NewOAResults validates the loss fractions and returns the immutable
// bundle, or a *ValidationError naming the first out-of-range field.
func NewOAResults(aep, availabilityLosses, electricalLosses, turbineIdealEnergy float64) (*OAResults, error) {
	if err := validateFraction("availability_losses", availabilityLosses); err != nil {
		return nil, err
	}
	if err := validateFraction("electrical_losses", electricalLosses); err != nil {
		return nil, err
	}
	return &OAResults{
		AEP:                aep,
		AvailabilityLosses: availabilityLosses,
		ElectricalLosses:   electricalLosses,
		TurbineIdealEnergy: turbineIdealEnergy,
	}, nil
}

// OAResultsFromMap builds the bundle from a key/value mapping using the
// canonical field names.
func OAResultsFromMap(m map[string]float64) (*OAResults, error) {
	vals, err := requireKeys(m, "aep", "availability_losses", "electrical_losses", "turbine_ideal_energy")
	if err != nil {
		return nil, err
	}
	return NewOAResults(vals[0], vals[1], vals[2], vals[3])
}

func requireKeys(m map[string]float64, keys ...string) ([]float64, error) {
	vals := make([]float64, len(keys))
	for i, k := range keys {
		v, ok := m[k]
		if !ok {
			return nil, fmt.Errorf("gapanalysis: missing required key %q", k)
		}
		vals[i] = v
	}
	return vals, nil
}
