package gapanalysis

import "fmt"

// CategoryCount is the length of the compiled decomposition vector.
const CategoryCount = 5

// Analysis owns one EYA estimate and one OA result and derives the ordered
// AEP-difference decomposition. The compiled vector is pure derived state:
// it is computed once at construction from the two immutable bundles, so an
// Analysis is safe to share across goroutines.
type Analysis struct {
	eya *EYAEstimate
	oa  *OAResults

	// PlantName labels presentation output only; it plays no part in the
	// computation.
	PlantName string

	compiled [CategoryCount]float64
}

// New creates a gap analysis over the two validated bundles.
func New(eya *EYAEstimate, oa *OAResults) (*Analysis, error) {
	if eya == nil || oa == nil {
		return nil, fmt.Errorf("gapanalysis: both EYA estimate and OA results are required")
	}
	a := &Analysis{eya: eya, oa: oa}
	a.compiled = a.compile()
	return a, nil
}

// Labels returns the waterfall category labels, index-aligned with the
// compiled vector.
func Labels() [CategoryCount]string {
	return [CategoryCount]string{
		"eya_aep",
		"ideal_energy",
		"avail_loss",
		"elec_loss",
		"unexplained/uncertain",
	}
}

// Compile returns the ordered decomposition
//
//	[eya_aep, turbine_gross_diff, availability_diff, electrical_diff, unaccounted]
//
// whose cumulative sum equals the OA AEP exactly at the last element: the
// residual is defined as whatever difference the named categories do not
// explain.
func (a *Analysis) Compile() [CategoryCount]float64 {
	return a.compiled
}

func (a *Analysis) compile() [CategoryCount]float64 {
	eya, oa := a.eya, a.oa

	// EYA turbine ideal energy: gross energy net of turbine, wake, and
	// blade degradation losses.
	idealEnergy := eya.GrossEnergy *
		(1 - eya.TurbineLosses) *
		(1 - eya.WakeLosses) *
		(1 - eya.BladeDegradationLosses)

	turbineGrossDiff := oa.TurbineIdealEnergy - idealEnergy
	availabilityDiff := (eya.AvailabilityLosses - oa.AvailabilityLosses) * idealEnergy
	electricalDiff := (eya.ElectricalLosses - oa.ElectricalLosses) * idealEnergy
	unaccounted := oa.AEP - (eya.AEP + turbineGrossDiff + availabilityDiff + electricalDiff)

	return [CategoryCount]float64{eya.AEP, turbineGrossDiff, availabilityDiff, electricalDiff, unaccounted}
}

// EYA returns the estimate bundle.
func (a *Analysis) EYA() *EYAEstimate { return a.eya }

// OA returns the results bundle.
func (a *Analysis) OA() *OAResults { return a.oa }
