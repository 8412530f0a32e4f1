package xrts

import (
	"fmt"
	"math"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// Shell describes one bound-electron shell of an ion: hydrogenic quantum
// numbers, occupation, effective nuclear charge and binding energy.
type Shell struct {
	N             int           `json:"n"`
	L             int           `json:"l"`
	Population    float64       `json:"population"`
	Zeff          float64       `json:"zeff"`
	BindingEnergy unit.Quantity `json:"-"` // scalar, energy
}

// KShell builds a 1s shell.
func KShell(population, zeff, bindingEV float64) Shell {
	return Shell{N: 1, L: 0, Population: population, Zeff: zeff,
		BindingEnergy: unit.Scalar(bindingEV, unit.Electronvolt)}
}

// LShell builds a 2s (l=0) or 2p (l=1) shell.
func LShell(l int, population, zeff, bindingEV float64) Shell {
	return Shell{N: 2, L: l, Population: population, Zeff: zeff,
		BindingEnergy: unit.Scalar(bindingEV, unit.Electronvolt)}
}

// IonSpecies describes one ion species in the plasma.
type IonSpecies struct {
	Symbol     string        `json:"symbol"`
	Mass       unit.Quantity `json:"-"`        // scalar, mass
	ChargeFree float64       `json:"charge_free"` // free electrons per ion (Z_f)
	Fraction   float64       `json:"fraction"` // number fraction; zero → 1 for a single species
	Shells     []Shell       `json:"shells"`   // bound electrons; empty for a bare ion
}

// BareIon builds a fully stripped ion species with the given atomic mass in u.
func BareIon(symbol string, massU, chargeFree float64) IonSpecies {
	return IonSpecies{
		Symbol:     symbol,
		Mass:       unit.Scalar(massU, unit.AtomicMassUnit),
		ChargeFree: chargeFree,
	}
}

// PlasmaStateConfig configures a PlasmaState. IonTemperature defaults to
// ElectronTemperature when left as the zero Quantity.
type PlasmaStateConfig struct {
	ElectronDensity     unit.Quantity
	ElectronTemperature unit.Quantity
	IonTemperature      unit.Quantity
	Ions                []IonSpecies
}

type shellData struct {
	n, l      int
	pop       float64
	zeff      float64
	bindingSI float64 // J
}

type ionData struct {
	symbol     string
	massSI     float64 // kg
	chargeFree float64
	fraction   float64
	shells     []shellData
}

// PlasmaState is a validated, immutable description of the sample. It is
// created by NewPlasmaState and never mutated by the pipeline; derived
// states (for fitting) are produced with With.
type PlasmaState struct {
	neSI float64 // 1/m³
	teSI float64 // K
	tiSI float64 // K
	ions []ionData

	seed FitParam // zero → no parameter seeded
}

// NewPlasmaState validates the config and builds a PlasmaState.
// All physical ranges are checked eagerly; any violation returns an error
// wrapping ErrInvalidPlasmaState that names the offending field.
func NewPlasmaState(cfg PlasmaStateConfig) (*PlasmaState, error) {
	ne, err := scalarIn(cfg.ElectronDensity, unit.PerCubicMeter)
	if err != nil {
		return nil, fmt.Errorf("%w: electron density: %v", ErrInvalidPlasmaState, err)
	}
	if !(ne > 0) || math.IsInf(ne, 0) {
		return nil, fmt.Errorf("%w: electron density %g 1/m³ must be positive and finite", ErrInvalidPlasmaState, ne)
	}

	te, err := scalarIn(cfg.ElectronTemperature, unit.Kelvin)
	if err != nil {
		return nil, fmt.Errorf("%w: electron temperature: %v", ErrInvalidPlasmaState, err)
	}
	if !(te > 0) || math.IsInf(te, 0) {
		return nil, fmt.Errorf("%w: electron temperature %g K must be positive and finite", ErrInvalidPlasmaState, te)
	}

	ti := te
	if !cfg.IonTemperature.IsZero() {
		ti, err = scalarIn(cfg.IonTemperature, unit.Kelvin)
		if err != nil {
			return nil, fmt.Errorf("%w: ion temperature: %v", ErrInvalidPlasmaState, err)
		}
		if !(ti > 0) || math.IsInf(ti, 0) {
			return nil, fmt.Errorf("%w: ion temperature %g K must be positive and finite", ErrInvalidPlasmaState, ti)
		}
	}

	if len(cfg.Ions) == 0 {
		return nil, fmt.Errorf("%w: at least one ion species required", ErrInvalidPlasmaState)
	}
	ions := make([]ionData, len(cfg.Ions))
	var fracSum float64
	for i, sp := range cfg.Ions {
		mass, err := scalarIn(sp.Mass, unit.Kilogram)
		if err != nil {
			return nil, fmt.Errorf("%w: ion %q mass: %v", ErrInvalidPlasmaState, sp.Symbol, err)
		}
		if !(mass > 0) {
			return nil, fmt.Errorf("%w: ion %q mass %g kg must be positive", ErrInvalidPlasmaState, sp.Symbol, mass)
		}
		if sp.ChargeFree < 0 || math.IsNaN(sp.ChargeFree) {
			return nil, fmt.Errorf("%w: ion %q free charge %g must be non-negative", ErrInvalidPlasmaState, sp.Symbol, sp.ChargeFree)
		}
		frac := sp.Fraction
		if frac == 0 && len(cfg.Ions) == 1 {
			frac = 1
		}
		if !(frac > 0) || frac > 1 {
			return nil, fmt.Errorf("%w: ion %q number fraction %g must be in (0, 1]", ErrInvalidPlasmaState, sp.Symbol, sp.Fraction)
		}
		fracSum += frac

		shells := make([]shellData, len(sp.Shells))
		for j, sh := range sp.Shells {
			if sh.N < 1 || sh.L < 0 || sh.L >= sh.N {
				return nil, fmt.Errorf("%w: ion %q shell (n=%d, l=%d) invalid quantum numbers", ErrInvalidPlasmaState, sp.Symbol, sh.N, sh.L)
			}
			if sh.Population < 0 || math.IsNaN(sh.Population) {
				return nil, fmt.Errorf("%w: ion %q shell (%d,%d) population %g must be non-negative", ErrInvalidPlasmaState, sp.Symbol, sh.N, sh.L, sh.Population)
			}
			if !(sh.Zeff > 0) {
				return nil, fmt.Errorf("%w: ion %q shell (%d,%d) Zeff %g must be positive", ErrInvalidPlasmaState, sp.Symbol, sh.N, sh.L, sh.Zeff)
			}
			binding, err := scalarIn(sh.BindingEnergy, unit.Joule)
			if err != nil {
				return nil, fmt.Errorf("%w: ion %q shell (%d,%d) binding energy: %v", ErrInvalidPlasmaState, sp.Symbol, sh.N, sh.L, err)
			}
			if binding < 0 {
				return nil, fmt.Errorf("%w: ion %q shell (%d,%d) binding energy %g J must be non-negative", ErrInvalidPlasmaState, sp.Symbol, sh.N, sh.L, binding)
			}
			shells[j] = shellData{n: sh.N, l: sh.L, pop: sh.Population, zeff: sh.Zeff, bindingSI: binding}
		}

		ions[i] = ionData{
			symbol:     sp.Symbol,
			massSI:     mass,
			chargeFree: sp.ChargeFree,
			fraction:   frac,
			shells:     shells,
		}
	}
	if math.Abs(fracSum-1) > 1e-6 {
		return nil, fmt.Errorf("%w: ion fractions sum to %g, want 1", ErrInvalidPlasmaState, fracSum)
	}

	p := &PlasmaState{neSI: ne, teSI: te, tiSI: ti, ions: ions}
	if p.MeanChargeFree() <= 0 {
		return nil, fmt.Errorf("%w: mean free charge must be positive", ErrInvalidPlasmaState)
	}
	return p, nil
}

// scalarIn extracts a single-element quantity in the given unit.
func scalarIn(q unit.Quantity, u unit.Unit) (float64, error) {
	if q.IsZero() {
		return 0, fmt.Errorf("quantity not set")
	}
	vals, err := q.Values(u)
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, fmt.Errorf("want scalar, have length %d", len(vals))
	}
	return vals[0], nil
}

// TemperatureFromEV converts a temperature given in electronvolts (k_B·T)
// to a Kelvin quantity.
func TemperatureFromEV(ev float64) unit.Quantity {
	return unit.Scalar(ev*ElementaryCharge/BoltzmannConst, unit.Kelvin)
}

// ElectronDensity returns the electron density.
func (p *PlasmaState) ElectronDensity() unit.Quantity {
	return unit.Scalar(p.neSI, unit.PerCubicMeter)
}

// ElectronTemperature returns the electron temperature.
func (p *PlasmaState) ElectronTemperature() unit.Quantity {
	return unit.Scalar(p.teSI, unit.Kelvin)
}

// IonTemperature returns the ion temperature.
func (p *PlasmaState) IonTemperature() unit.Quantity {
	return unit.Scalar(p.tiSI, unit.Kelvin)
}

// Ions returns a copy of the ion species list.
func (p *PlasmaState) Ions() []IonSpecies {
	out := make([]IonSpecies, len(p.ions))
	for i, ion := range p.ions {
		shells := make([]Shell, len(ion.shells))
		for j, sh := range ion.shells {
			shells[j] = Shell{
				N: sh.n, L: sh.l, Population: sh.pop, Zeff: sh.zeff,
				BindingEnergy: unit.Scalar(sh.bindingSI, unit.Joule),
			}
		}
		out[i] = IonSpecies{
			Symbol:     ion.symbol,
			Mass:       unit.Scalar(ion.massSI, unit.Kilogram),
			ChargeFree: ion.chargeFree,
			Fraction:   ion.fraction,
			Shells:     shells,
		}
	}
	return out
}

// MeanChargeFree returns the fraction-weighted mean free charge Z̄_f.
func (p *PlasmaState) MeanChargeFree() float64 {
	var z float64
	for _, ion := range p.ions {
		z += ion.fraction * ion.chargeFree
	}
	return z
}

// MeanChargeBound returns the fraction-weighted mean number of bound
// electrons Z̄_c.
func (p *PlasmaState) MeanChargeBound() float64 {
	var z float64
	for _, ion := range p.ions {
		for _, sh := range ion.shells {
			z += ion.fraction * sh.pop
		}
	}
	return z
}

// With returns a copy of the state with the given fit parameter replaced by
// the SI value (1/m³ for density, K for temperatures, mean free charge for
// ionization). The copy is re-validated.
func (p *PlasmaState) With(param FitParam, value float64) (*PlasmaState, error) {
	c := p.clone()
	switch param {
	case ParamElectronDensity:
		c.neSI = value
	case ParamElectronTemperature:
		c.teSI = value
	case ParamIonTemperature:
		c.tiSI = value
	case ParamIonization:
		cur := c.MeanChargeFree()
		if !(value > 0) {
			return nil, fmt.Errorf("%w: mean free charge %g must be positive", ErrInvalidPlasmaState, value)
		}
		factor := value / cur
		for i := range c.ions {
			c.ions[i].chargeFree *= factor
		}
	default:
		return nil, fmt.Errorf("%w: unknown fit parameter %v", ErrInvalidPlasmaState, param)
	}
	if err := c.revalidate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *PlasmaState) revalidate() error {
	if !(p.neSI > 0) || math.IsInf(p.neSI, 0) {
		return fmt.Errorf("%w: electron density %g 1/m³ must be positive and finite", ErrInvalidPlasmaState, p.neSI)
	}
	if !(p.teSI > 0) || math.IsInf(p.teSI, 0) {
		return fmt.Errorf("%w: electron temperature %g K must be positive and finite", ErrInvalidPlasmaState, p.teSI)
	}
	if !(p.tiSI > 0) || math.IsInf(p.tiSI, 0) {
		return fmt.Errorf("%w: ion temperature %g K must be positive and finite", ErrInvalidPlasmaState, p.tiSI)
	}
	return nil
}

// clone returns a deep copy of the state.
func (p *PlasmaState) clone() *PlasmaState {
	c := *p
	c.ions = make([]ionData, len(p.ions))
	copy(c.ions, p.ions)
	for i := range c.ions {
		shells := make([]shellData, len(p.ions[i].shells))
		copy(shells, p.ions[i].shells)
		c.ions[i].shells = shells
	}
	return &c
}

// withSeed returns a copy whose internal accessors carry a unit derivative
// for the given parameter (forward-mode seeding).
func (p *PlasmaState) withSeed(param FitParam) *PlasmaState {
	c := p.clone()
	c.seed = param
	return c
}

// Seeded dual accessors. The Emag component is the forward-mode seed: 1 on
// the parameter selected by withSeed, 0 elsewhere.

func (p *PlasmaState) neDual() dual.Number {
	return dual.Number{Real: p.neSI, Emag: seedIf(p.seed == ParamElectronDensity)}
}

func (p *PlasmaState) teDual() dual.Number {
	return dual.Number{Real: p.teSI, Emag: seedIf(p.seed == ParamElectronTemperature)}
}

func (p *PlasmaState) tiDual() dual.Number {
	return dual.Number{Real: p.tiSI, Emag: seedIf(p.seed == ParamIonTemperature)}
}

func (p *PlasmaState) zfDual() dual.Number {
	return dual.Number{Real: p.MeanChargeFree(), Emag: seedIf(p.seed == ParamIonization)}
}

func seedIf(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
