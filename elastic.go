package xrts

import (
	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// debyeHueckelModel is the elastic (Rayleigh) feature weight
//
//	W_R(k) = Σ_i x_i · |f_i(k) + q_i(k)|² · S_ii(k)
//
// summed over ion species with number fractions x_i. The bound-electron form
// factor f_i is the shell-population-weighted sum of hydrogenic form
// factors, the screening cloud is
//
//	q_i(k) = Z_f,i · κ_e² / (k² + κ_e²)
//
// and the static ion-ion structure factor follows the linearized
// Debye-Hückel two-component result
//
//	S_ii(k) = (k² + κ_e²) / (k² + κ_e² + κ_i²)
//
// with κ_e, κ_i the electron and ion inverse screening lengths. The weight
// is dimensionless; the spectrum pipeline attaches it to the instrument
// kernel at zero energy shift.
type debyeHueckelModel struct{}

func (debyeHueckelModel) Name() string         { return "debye-hueckel" }
func (debyeHueckelModel) Differentiable() bool { return true }

func (debyeHueckelModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	if err := geom.Validate(); err != nil {
		return unit.Quantity{}, err
	}
	k := geom.momentumTransferSI()
	k2 := dual.Number{Real: k * k}

	ne, te, ti := state.neDual(), state.teDual(), state.tiDual()
	zf := state.zfDual()
	zfMean := state.MeanChargeFree()

	// Electron screening: κ_e² = e²·n_e / (ε₀·k_B·T_e).
	c := ElementaryCharge * ElementaryCharge / (VacuumPermit * BoltzmannConst)
	kappaE2 := dual.Scale(c, dual.Mul(ne, dual.Inv(te)))

	// Ion screening: κ_i² = Σ_i e²·n_i·Z_f,i² / (ε₀·k_B·T_i) with the total
	// ion density n_e/Z̄_f split by number fraction.
	nIon := dual.Mul(ne, dual.Inv(zf))
	var kappaI2 dual.Number
	for _, ion := range state.ions {
		zi := dual.Scale(ion.chargeFree/zfMean, zf)
		kappaI2 = dual.Add(kappaI2,
			dual.Scale(c*ion.fraction, dual.Mul(dual.Mul(nIon, dual.Mul(zi, zi)), dual.Inv(ti))))
	}

	den := dual.Add(k2, kappaE2)
	sii := dual.Mul(den, dual.Inv(dual.Add(den, kappaI2)))
	screen := dual.Mul(kappaE2, dual.Inv(den))

	var w dual.Number
	for _, ion := range state.ions {
		f := 0.0
		for _, sh := range ion.shells {
			fs, err := formFactorSI(sh.n, sh.l, k, sh.zeff)
			if err != nil {
				return unit.Quantity{}, err
			}
			f += sh.pop * fs
		}
		zi := dual.Scale(ion.chargeFree/zfMean, zf)
		fq := dual.Add(dual.Number{Real: f}, dual.Mul(zi, screen))
		w = dual.Add(w, dual.Scale(ion.fraction, dual.Mul(dual.Mul(fq, fq), sii)))
	}
	return unit.Reattach([]dual.Number{w}, unit.Dimensionless), nil
}

// noneElasticModel disables the elastic channel.
type noneElasticModel struct{}

func (noneElasticModel) Name() string         { return "none" }
func (noneElasticModel) Differentiable() bool { return true }

func (noneElasticModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	return unit.Reattach([]dual.Number{{}}, unit.Dimensionless), nil
}
