package xrts

import (
	"fmt"
	"math"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// PlasmaFrequency returns ω_pe = sqrt(e²·n_e / (ε₀·m_e)) in rad/s.
func PlasmaFrequency(electronDensity unit.Quantity) (unit.Quantity, error) {
	if electronDensity.Dim() != unit.DimNumberDensity {
		return unit.Quantity{}, fmt.Errorf("%w: electron density has dimension %s, want %s",
			unit.ErrDimensionMismatch, electronDensity.Dim(), unit.DimNumberDensity)
	}
	data := electronDensity.Detach()
	for i := range data {
		data[i] = plasmaFrequencySI(data[i])
	}
	return unit.Reattach(data, unit.DimFrequency), nil
}

// DebyeLength returns λ_D = sqrt(ε₀·k_B·T / (n_e·e²)).
func DebyeLength(electronDensity, temperature unit.Quantity) (unit.Quantity, error) {
	if electronDensity.Dim() != unit.DimNumberDensity {
		return unit.Quantity{}, fmt.Errorf("%w: density has dimension %s, want %s",
			unit.ErrDimensionMismatch, electronDensity.Dim(), unit.DimNumberDensity)
	}
	if temperature.Dim() != unit.DimTemperature {
		return unit.Quantity{}, fmt.Errorf("%w: temperature has dimension %s, want %s",
			unit.ErrDimensionMismatch, temperature.Dim(), unit.DimTemperature)
	}
	ne, t := electronDensity.At(0), temperature.At(0)
	return unit.Reattach([]dual.Number{debyeLengthSI(ne, t)}, unit.DimLength), nil
}

// ThermalVelocity returns v_th = sqrt(k_B·T / m_e).
func ThermalVelocity(temperature unit.Quantity) (unit.Quantity, error) {
	if temperature.Dim() != unit.DimTemperature {
		return unit.Quantity{}, fmt.Errorf("%w: temperature has dimension %s, want %s",
			unit.ErrDimensionMismatch, temperature.Dim(), unit.DimTemperature)
	}
	data := temperature.Detach()
	for i := range data {
		data[i] = thermalVelocitySI(data[i])
	}
	return unit.Reattach(data, unit.DimVelocity), nil
}

// ComptonShift returns the free-electron Compton energy shift
// ω_c·ħ = ħ²k² / (2·m_e) for a scattering wavenumber k.
func ComptonShift(k unit.Quantity) (unit.Quantity, error) {
	if k.Dim() != unit.DimInverseLength {
		return unit.Quantity{}, fmt.Errorf("%w: wavenumber has dimension %s, want %s",
			unit.ErrDimensionMismatch, k.Dim(), unit.DimInverseLength)
	}
	data := k.Detach()
	for i := range data {
		data[i] = dual.Scale(PlanckBar*PlanckBar/(2*ElectronMass), dual.Mul(data[i], data[i]))
	}
	return unit.Reattach(data, unit.DimEnergy), nil
}

// WignerSeitzRadius returns the mean inter-particle radius
// a = (3 / (4π·n))^(1/3).
func WignerSeitzRadius(density unit.Quantity) (unit.Quantity, error) {
	if density.Dim() != unit.DimNumberDensity {
		return unit.Quantity{}, fmt.Errorf("%w: density has dimension %s, want %s",
			unit.ErrDimensionMismatch, density.Dim(), unit.DimNumberDensity)
	}
	data := density.Detach()
	for i := range data {
		data[i] = dual.PowReal(dual.Scale(4*math.Pi/3, data[i]), -1.0/3.0)
	}
	return unit.Reattach(data, unit.DimLength), nil
}

// CouplingParameter returns the classical coupling parameter
// Γ = Z²·e² / (4π·ε₀·a·k_B·T) with a the Wigner-Seitz radius of the given
// density.
func CouplingParameter(density, temperature unit.Quantity, charge float64) (unit.Quantity, error) {
	a, err := WignerSeitzRadius(density)
	if err != nil {
		return unit.Quantity{}, err
	}
	if temperature.Dim() != unit.DimTemperature {
		return unit.Quantity{}, fmt.Errorf("%w: temperature has dimension %s, want %s",
			unit.ErrDimensionMismatch, temperature.Dim(), unit.DimTemperature)
	}
	num := charge * charge * ElementaryCharge * ElementaryCharge / (4 * math.Pi * VacuumPermit * BoltzmannConst)
	g := dual.Scale(num, dual.Inv(dual.Mul(a.At(0), temperature.At(0))))
	return unit.Reattach([]dual.Number{g}, unit.Dimensionless), nil
}

// FermiEnergy returns E_F = ħ²·(3π²·n_e)^(2/3) / (2·m_e).
func FermiEnergy(electronDensity unit.Quantity) (unit.Quantity, error) {
	if electronDensity.Dim() != unit.DimNumberDensity {
		return unit.Quantity{}, fmt.Errorf("%w: density has dimension %s, want %s",
			unit.ErrDimensionMismatch, electronDensity.Dim(), unit.DimNumberDensity)
	}
	data := electronDensity.Detach()
	for i := range data {
		kf2 := dual.PowReal(dual.Scale(3*math.Pi*math.Pi, data[i]), 2.0/3.0)
		data[i] = dual.Scale(PlanckBar*PlanckBar/(2*ElectronMass), kf2)
	}
	return unit.Reattach(data, unit.DimEnergy), nil
}

// Internal SI dual forms used by the model implementations.

// sqrtDual is the dual square root {√r, e/(2√r)}. dual.Sqrt routes through
// dual.PowReal, which clamps |Real| < 1e-15 before differentiating; coherent
// SI magnitudes such as λ_D² (~1e-21 m²) sit below that clamp, so the pair
// is computed directly.
func sqrtDual(x dual.Number) dual.Number {
	r := math.Sqrt(x.Real)
	return dual.Number{Real: r, Emag: x.Emag / (2 * r)}
}

func plasmaFrequencySI(ne dual.Number) dual.Number {
	return sqrtDual(dual.Scale(ElementaryCharge*ElementaryCharge/(VacuumPermit*ElectronMass), ne))
}

func debyeLengthSI(ne, tK dual.Number) dual.Number {
	c := VacuumPermit * BoltzmannConst / (ElementaryCharge * ElementaryCharge)
	return sqrtDual(dual.Scale(c, dual.Mul(tK, dual.Inv(ne))))
}

func thermalVelocitySI(tK dual.Number) dual.Number {
	return sqrtDual(dual.Scale(BoltzmannConst/ElectronMass, tK))
}

func comptonShiftSI(k float64) float64 {
	return PlanckBar * PlanckBar * k * k / (2 * ElectronMass) // J
}

// dawson computes the Dawson integral F(x) = exp(-x²)·∫₀ˣ exp(t²) dt
// using Rybicki's sampling method (Numerical Recipes §6.10).
func dawson(x float64) float64 {
	const (
		h    = 0.4
		nmax = 6
		a1   = 2.0 / 3.0
		a2   = 0.4
		a3   = 2.0 / 7.0
	)
	if math.Abs(x) < 0.2 {
		x2 := x * x
		return x * (1 - a1*x2*(1-a2*x2*(1-a3*x2)))
	}
	xx := math.Abs(x)
	n0 := 2 * int(0.5*xx/h+0.5)
	xp := xx - float64(n0)*h
	e1 := math.Exp(2 * xp * h)
	e2 := e1 * e1
	d1 := float64(n0 + 1)
	d2 := d1 - 2
	var sum float64
	for i := 1; i <= nmax; i++ {
		c := math.Exp(-sqr((2*float64(i) - 1) * h))
		sum += c * (e1/d1 + 1/(d2*e1))
		d1 += 2
		d2 -= 2
		e1 *= e2
	}
	const invSqrtPi = 0.5641895835477563
	return invSqrtPi * math.Copysign(math.Exp(-xp*xp), x) * sum
}

// dawsonDual extends dawson to dual numbers via F'(x) = 1 - 2·x·F(x).
func dawsonDual(x dual.Number) dual.Number {
	f := dawson(x.Real)
	return dual.Number{Real: f, Emag: x.Emag * (1 - 2*x.Real*f)}
}

func sqr(x float64) float64 { return x * x }
