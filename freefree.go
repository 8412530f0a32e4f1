package xrts

import (
	"fmt"
	"math"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// salpeterModel is the classical (Salpeter) free-electron dynamic structure
// factor. The electron susceptibility is evaluated through the plasma
// dispersion function
//
//	W(x) = 1 - 2x·F(x) + i·√π·x·exp(-x²)
//
// with F the Dawson integral, x = ω/(k·v̄) and v̄ = sqrt(2·k_B·T_e/m_e):
//
//	S⁰ₑₑ(k,ω) = exp(-x²) / (√π·k·v̄·|1 + α²·W(x)|²),  α = 1/(k·λ_D)
//
// normalized so that the non-collective limit integrates to one per
// electron. Returned per unit energy shift (divided by ħ).
type salpeterModel struct{}

func (salpeterModel) Name() string         { return "salpeter" }
func (salpeterModel) Differentiable() bool { return true }

func (salpeterModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	if err := geom.Validate(); err != nil {
		return unit.Quantity{}, err
	}
	k := geom.momentumTransferSI()
	ne, te := state.neDual(), state.teDual()

	vbar := sqrtDual(dual.Scale(2*BoltzmannConst/ElectronMass, te)) // most probable speed
	alpha := dual.Inv(dual.Scale(k, debyeLengthSI(ne, te)))
	alpha2 := dual.Mul(alpha, alpha)

	one := dual.Number{Real: 1}
	data := make([]dual.Number, grid.Len())
	for i, eJ := range grid.si {
		omega := eJ / PlanckBar
		x := dual.Scale(omega/k, dual.Inv(vbar))
		f := dawsonDual(x)
		ex := dual.Exp(dual.Scale(-1, dual.Mul(x, x)))

		reW := dual.Sub(one, dual.Scale(2, dual.Mul(x, f)))
		imW := dual.Scale(math.SqrtPi, dual.Mul(x, ex))

		denRe := dual.Add(one, dual.Mul(alpha2, reW))
		denIm := dual.Mul(alpha2, imW)
		den := dual.Add(dual.Mul(denRe, denRe), dual.Mul(denIm, denIm))

		sOmega := dual.Mul(dual.Scale(1/(math.SqrtPi*k), dual.Inv(vbar)),
			dual.Mul(ex, dual.Inv(den)))
		data[i] = dual.Scale(1/PlanckBar, sOmega)
	}
	return unit.Reattach(data, unit.DimInverseEnergy), nil
}

// impulseGaussianModel is the impulse-approximation free-electron feature: a
// thermal-Doppler Gaussian centered on the Compton shift E_c = ħ²k²/(2m_e)
// with width σ_E = ħ·k·sqrt(k_B·T_e/m_e). Valid in the non-collective
// (large-k) regime; cheap and smooth everywhere.
type impulseGaussianModel struct{}

func (impulseGaussianModel) Name() string         { return "impulse-gaussian" }
func (impulseGaussianModel) Differentiable() bool { return true }

func (impulseGaussianModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	if err := geom.Validate(); err != nil {
		return unit.Quantity{}, err
	}
	k := geom.momentumTransferSI()
	te := state.teDual()

	ec := comptonShiftSI(k)
	sigma := dual.Scale(PlanckBar*k, sqrtDual(dual.Scale(BoltzmannConst/ElectronMass, te)))
	norm := dual.Scale(1/math.Sqrt(2*math.Pi), dual.Inv(sigma))

	data := make([]dual.Number, grid.Len())
	for i, eJ := range grid.si {
		d := dual.Scale(eJ-ec, dual.Inv(sigma))
		data[i] = dual.Mul(norm, dual.Exp(dual.Scale(-0.5, dual.Mul(d, d))))
	}
	return unit.Reattach(data, unit.DimInverseEnergy), nil
}

// inelasticContract checks a free-free or bound-free result against the
// slot contract: grid shape and inverse-energy dimension.
func inelasticContract(q unit.Quantity, grid EnergyGrid, slot Slot, name string) error {
	if q.Dim() != unit.DimInverseEnergy {
		return fmt.Errorf("xrts: %s variant %q returned dimension %s, want %s", slot, name, q.Dim(), unit.DimInverseEnergy)
	}
	if q.Len() != grid.Len() {
		return fmt.Errorf("xrts: %s variant %q returned length %d, want %d", slot, name, q.Len(), grid.Len())
	}
	return nil
}
