package xrts

import (
	"math"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// schumacherModel is the bound-free (Compton) feature in the impulse
// approximation with hydrogenic Bloch-Mendelsohn Compton profiles J_nl
// (Gregori 2004, eqns 16-20). With hr set, the first-order asymmetric
// Holm-Ribberfors correction is added to each profile.
//
// Profiles are functions of the scaled momentum variable
//
//	ξ = n·q / (zeff·α),  q = (ω - ω_c) / (c·k)
//
// with α the fine-structure constant and ω_c the Compton shift. The result
// is normalized per bound electron; the synthesis pipeline weights it with
// the mean bound charge.
type schumacherModel struct {
	name string
	hr   bool
}

func (m schumacherModel) Name() string         { return m.name }
func (m schumacherModel) Differentiable() bool { return true }

func (m schumacherModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	if err := geom.Validate(); err != nil {
		return unit.Quantity{}, err
	}
	zc := state.MeanChargeBound()
	data := make([]dual.Number, grid.Len())
	if zc == 0 {
		return unit.Reattach(data, unit.DimInverseEnergy), nil
	}

	k := geom.momentumTransferSI()
	omegaC := comptonShiftSI(k) / PlanckBar
	probeJ, _ := scalarIn(geom.ProbeEnergy, unit.Joule)
	omega0 := probeJ / PlanckBar

	// Relativistic correction factor B = 1 + ħk²/(2·m_e·ω₀).
	b := 1 + PlanckBar*k*k/(2*ElectronMass*omega0)
	b3 := b * b * b

	for _, ion := range state.ions {
		ionZc := 0.0
		for _, sh := range ion.shells {
			ionZc += sh.pop
		}
		if ionZc == 0 {
			continue
		}

		// Elastic-scattering reduction r_k = 1 - Σ (pop/Z_c)·f_nl².
		rk := 1.0
		for _, sh := range ion.shells {
			f, err := formFactorSI(sh.n, sh.l, k, sh.zeff)
			if err != nil {
				return unit.Quantity{}, err
			}
			rk -= sh.pop / ionZc * f * f
		}

		prefactor := ion.fraction * rk / b3

		// The profiles are unit-normalized densities in the dimensionless
		// momentum q = (ω - ω_c)/(c·k); dq/dE converts them to spectral
		// densities per unit energy shift.
		jac := 1 / (SpeedOfLight * k * PlanckBar)

		for _, sh := range ion.shells {
			if sh.pop == 0 {
				continue
			}
			for i, eJ := range grid.si {
				step := heaviside(eJ - sh.bindingSI)
				if step == 0 {
					continue
				}
				omega := eJ / PlanckBar
				xi := float64(sh.n) * (omega - omegaC) / (SpeedOfLight * k) / (sh.zeff * FineStructure)
				j := m.profile(sh.n, sh.l, xi, sh.zeff, k)
				data[i].Real += prefactor * sh.pop * j * jac * step / zc
			}
		}
	}
	return unit.Reattach(data, unit.DimInverseEnergy), nil
}

// profile evaluates J_nl(ξ), optionally with the Holm-Ribberfors term.
func (m schumacherModel) profile(n, l int, xi, zeff, k float64) float64 {
	o := 1 + xi*xi
	var bm, hr float64
	za := zeff * FineStructure
	switch {
	case n == 1 && l == 0:
		bm = 8 / (3 * math.Pi * za * o * o * o)
		if m.hr {
			hr = bm * (za / (k * BohrRadius)) * (1.5*xi - 2*math.Atan(xi))
		}
	case n == 2 && l == 0:
		bm = (64 / (math.Pi * za)) * (1/(3*o*o*o) - 1/(o*o*o*o) + 4/(5*o*o*o*o*o))
		if m.hr {
			x2 := xi * xi
			hr = bm * (za / (k * BohrRadius)) *
				(5*xi*(1+3*x2*x2)/(1-2.5*x2+2.5*x2*x2)/8 - 2*math.Atan(xi))
		}
	case n == 2 && l == 1:
		bm = (64 / (15 * math.Pi * za)) * (1 + 5*xi*xi) / (o * o * o * o * o)
		if m.hr {
			x2 := xi * xi
			hr = bm * (za / (k * BohrRadius)) *
				((1.0/3.0)*((10+15*x2)/(1+5*x2))*xi - math.Atan(xi))
		}
	default:
		// Unsupported shells are rejected earlier by the form factor.
		return 0
	}
	j := bm + hr
	if j < 0 {
		// The HR correction is perturbative; clip where it overshoots.
		return 0
	}
	return j
}

// heaviside is the unit step with 1/2 at the edge, matching the
// binding-energy cutoff convention of the impulse approximation.
func heaviside(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return 0
	default:
		return 0.5
	}
}

// noneBoundFreeModel disables the bound-free channel.
type noneBoundFreeModel struct{}

func (noneBoundFreeModel) Name() string         { return "none" }
func (noneBoundFreeModel) Differentiable() bool { return true }

func (noneBoundFreeModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	return unit.Reattach(make([]dual.Number, grid.Len()), unit.DimInverseEnergy), nil
}
