package powercurve

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/turbinewerks/windplant/pkg/curvefit"
)

// envelope is the msgpack wire form of a fitted curve. Exactly one payload
// field is set, matching Kind.
type envelope struct {
	Kind       Kind               `msgpack:"kind"`
	Binned     *BinnedCurve       `msgpack:"binned,omitempty"`
	Parametric *parametricPayload `msgpack:"parametric,omitempty"`
	Additive   *additivePayload   `msgpack:"additive,omitempty"`
	Additive3  *additive3Payload  `msgpack:"additive3,omitempty"`
}

type parametricPayload struct {
	Family string    `msgpack:"family"`
	Params []float64 `msgpack:"params"`
}

type basisPayload struct {
	Min float64 `msgpack:"min"`
	Max float64 `msgpack:"max"`
	N   int     `msgpack:"n"`
}

type termPayload struct {
	Basis  basisPayload `msgpack:"basis"`
	Coeffs []float64    `msgpack:"coeffs"`
}

type additivePayload struct {
	Term termPayload `msgpack:"term"`
}

type additive3Payload struct {
	Intercept  float64     `msgpack:"intercept"`
	WindSpeed  termPayload `msgpack:"windspeed"`
	Direction  termPayload `msgpack:"direction"`
	AirDensity termPayload `msgpack:"air_density"`
}

// Encode serializes a fitted curve so it can be stored and later evaluated
// without refitting.
func Encode(c Curve) ([]byte, error) {
	env := envelope{Kind: c.Kind()}
	switch v := c.(type) {
	case *BinnedCurve:
		env.Binned = v
	case *ParametricCurve:
		env.Parametric = &parametricPayload{Family: v.Family, Params: v.Params}
	case *AdditiveCurve:
		env.Additive = &additivePayload{Term: encodeTerm(v.Basis, v.Coeffs)}
	default:
		return nil, fmt.Errorf("powercurve: cannot encode curve kind %q", c.Kind())
	}
	return msgpack.Marshal(&env)
}

// Encode3 serializes a three-covariate curve.
func Encode3(c *Additive3Curve) ([]byte, error) {
	env := envelope{
		Kind: KindAdditive3,
		Additive3: &additive3Payload{
			Intercept:  c.Intercept,
			WindSpeed:  encodeTerm(c.WindSpeed.Basis, c.WindSpeed.Coeffs),
			Direction:  encodeTerm(c.Direction.Basis, c.Direction.Coeffs),
			AirDensity: encodeTerm(c.AirDensity.Basis, c.AirDensity.Coeffs),
		},
	}
	return msgpack.Marshal(&env)
}

// Decode reconstructs a single-covariate curve from its encoded form.
func Decode(data []byte) (Curve, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("powercurve: decode: %w", err)
	}
	switch env.Kind {
	case KindBinned:
		if env.Binned == nil {
			return nil, fmt.Errorf("powercurve: decode: missing binned payload")
		}
		return env.Binned, nil
	case KindParametric:
		if env.Parametric == nil {
			return nil, fmt.Errorf("powercurve: decode: missing parametric payload")
		}
		return NewParametricCurve(env.Parametric.Family, env.Parametric.Params)
	case KindAdditive:
		if env.Additive == nil {
			return nil, fmt.Errorf("powercurve: decode: missing additive payload")
		}
		term, err := decodeTerm(env.Additive.Term)
		if err != nil {
			return nil, err
		}
		return &AdditiveCurve{Basis: term.Basis, Coeffs: term.Coeffs}, nil
	default:
		return nil, fmt.Errorf("powercurve: decode: unsupported curve kind %q", env.Kind)
	}
}

// Decode3 reconstructs a three-covariate curve from its encoded form.
func Decode3(data []byte) (*Additive3Curve, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("powercurve: decode: %w", err)
	}
	if env.Kind != KindAdditive3 || env.Additive3 == nil {
		return nil, fmt.Errorf("powercurve: decode: expected %q payload, got %q", KindAdditive3, env.Kind)
	}
	ws, err := decodeTerm(env.Additive3.WindSpeed)
	if err != nil {
		return nil, err
	}
	dir, err := decodeTerm(env.Additive3.Direction)
	if err != nil {
		return nil, err
	}
	dens, err := decodeTerm(env.Additive3.AirDensity)
	if err != nil {
		return nil, err
	}
	return &Additive3Curve{
		Intercept:  env.Additive3.Intercept,
		WindSpeed:  *ws,
		Direction:  *dir,
		AirDensity: *dens,
	}, nil
}

func encodeTerm(basis *curvefit.BSplineBasis, coeffs []float64) termPayload {
	return termPayload{
		Basis:  basisPayload{Min: basis.Min, Max: basis.Max, N: basis.N},
		Coeffs: coeffs,
	}
}

func decodeTerm(p termPayload) (*additiveTerm, error) {
	basis, err := curvefit.NewCubicBasis(p.Basis.Min, p.Basis.Max, p.Basis.N)
	if err != nil {
		return nil, fmt.Errorf("powercurve: decode basis: %w", err)
	}
	if len(p.Coeffs) != basis.N {
		return nil, fmt.Errorf("powercurve: decode: %d coefficients for %d basis functions", len(p.Coeffs), basis.N)
	}
	return &additiveTerm{Basis: basis, Coeffs: p.Coeffs}, nil
}
