package xrts

import (
	"encoding"
	"fmt"

	"github.com/xrts-go/xrts/unit"
)

// FitParam identifies one differentiable scalar parameter of a PlasmaState.
type FitParam int

const (
	ParamElectronDensity     FitParam = iota + 1 // n_e, 1/m³
	ParamElectronTemperature                     // T_e, K
	ParamIonTemperature                          // T_i, K
	ParamIonization                              // mean free charge Z̄_f
)

// AllFitParams lists every fit parameter in declaration order.
var AllFitParams = []FitParam{
	ParamElectronDensity,
	ParamElectronTemperature,
	ParamIonTemperature,
	ParamIonization,
}

var (
	paramNames = [...]string{
		ParamElectronDensity:     "electron-density",
		ParamElectronTemperature: "electron-temperature",
		ParamIonTemperature:      "ion-temperature",
		ParamIonization:          "ionization",
	}
	paramByName = map[string]FitParam{
		"electron-density":     ParamElectronDensity,
		"electron-temperature": ParamElectronTemperature,
		"ion-temperature":      ParamIonTemperature,
		"ionization":           ParamIonization,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = FitParam(0)
	_ encoding.TextMarshaler   = FitParam(0)
	_ encoding.TextUnmarshaler = (*FitParam)(nil)
)

func (p FitParam) isValid() bool {
	return p >= ParamElectronDensity && p <= ParamIonization
}

// String returns the parameter name. For invalid values it returns
// "FitParam(n)".
func (p FitParam) String() string {
	if p.isValid() {
		return paramNames[p]
	}
	return fmt.Sprintf("FitParam(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p FitParam) MarshalText() ([]byte, error) {
	if !p.isValid() {
		return nil, fmt.Errorf("xrts: invalid fit parameter: %d", int(p))
	}
	return []byte(paramNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *FitParam) UnmarshalText(text []byte) error {
	v, ok := paramByName[string(text)]
	if !ok {
		return fmt.Errorf("xrts: invalid fit parameter: %q", text)
	}
	*p = v
	return nil
}

// Value returns the parameter's current SI value in the given state.
func (p FitParam) Value(state *PlasmaState) (float64, error) {
	switch p {
	case ParamElectronDensity:
		return state.neSI, nil
	case ParamElectronTemperature:
		return state.teSI, nil
	case ParamIonTemperature:
		return state.tiSI, nil
	case ParamIonization:
		return state.MeanChargeFree(), nil
	default:
		return 0, fmt.Errorf("xrts: invalid fit parameter: %d", int(p))
	}
}

// GradientResult holds a spectrum and its parameter derivatives. Intensity
// derivatives are per grid point in SI (1/J per SI unit of the parameter);
// the elastic-weight derivative is the scalar dW_R/dp.
type GradientResult struct {
	Spectrum     Spectrum
	Deriv        map[FitParam][]float64
	ElasticDeriv map[FitParam]float64
}

// Gradient evaluates the spectrum and its exact forward-mode derivatives
// with respect to the given parameters (all of AllFitParams when none are
// named). It runs one seeded synthesis pass per parameter. If any selected
// variant is not differentiable it fails with ErrNonDifferentiable.
func (s *Synthesizer) Gradient(state *PlasmaState, geom Geometry, grid EnergyGrid, params ...FitParam) (GradientResult, error) {
	if !s.Differentiable() {
		for _, m := range []Model{s.freeFree, s.boundFree, s.elastic} {
			if !m.Differentiable() {
				return GradientResult{}, fmt.Errorf("%w: variant %q does not support parameter derivatives", ErrNonDifferentiable, m.Name())
			}
		}
	}
	if len(params) == 0 {
		params = AllFitParams
	}
	for _, p := range params {
		if !p.isValid() {
			return GradientResult{}, fmt.Errorf("%w: invalid fit parameter %d", ErrNonDifferentiable, int(p))
		}
	}

	base, err := s.Synthesize(state, geom, grid)
	if err != nil {
		return GradientResult{}, err
	}
	res := GradientResult{
		Spectrum:     base,
		Deriv:        make(map[FitParam][]float64, len(params)),
		ElasticDeriv: make(map[FitParam]float64, len(params)),
	}

	for _, p := range params {
		sp, err := s.Synthesize(state.withSeed(p), geom, grid)
		if err != nil {
			return GradientResult{}, fmt.Errorf("xrts: gradient with respect to %s: %w", p, err)
		}
		d, err := sp.Intensity.Derivs(unit.PerJoule)
		if err != nil {
			return GradientResult{}, err
		}
		res.Deriv[p] = d
		wd, err := sp.ElasticWeight.Derivs(unit.One)
		if err != nil {
			return GradientResult{}, err
		}
		res.ElasticDeriv[p] = wd[0]
	}
	return res, nil
}
