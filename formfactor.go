package xrts

import (
	"fmt"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// FormFactor returns the hydrogenic (Pauling-Sherman) atomic form factor of
// a bound electron in shell (n, l) with effective charge zeff, evaluated at
// the scattering wavenumbers k. Supported shells: 1s, 2s, 2p.
func FormFactor(n, l int, k unit.Quantity, zeff float64) (unit.Quantity, error) {
	if k.Dim() != unit.DimInverseLength {
		return unit.Quantity{}, fmt.Errorf("%w: wavenumber has dimension %s, want %s",
			unit.ErrDimensionMismatch, k.Dim(), unit.DimInverseLength)
	}
	data := k.Detach()
	for i := range data {
		f, err := formFactorSI(n, l, data[i].Real, zeff)
		if err != nil {
			return unit.Quantity{}, err
		}
		data[i] = dual.Number{Real: f}
	}
	return unit.Reattach(data, unit.Dimensionless), nil
}

// formFactorSI evaluates the closed-form Fourier transforms of the
// hydrogenic shell densities:
//
//	f_1s = 1 / (1 + u²)²            u = k·a₀ / (2·zeff)
//	f_2s = (1-s²)(1-2s²) / (1+s²)⁴  s = k·a₀ / zeff
//	f_2p = (1-s²) / (1+s²)⁴
//
// Form factors may go negative at large k; only their squares enter the
// scattering weights.
func formFactorSI(n, l int, kSI, zeff float64) (float64, error) {
	switch {
	case n == 1 && l == 0:
		u := kSI * BohrRadius / (2 * zeff)
		u2 := u * u
		return 1 / sqr(1+u2), nil
	case n == 2 && l == 0:
		s := kSI * BohrRadius / zeff
		s2 := s * s
		return (1 - s2) * (1 - 2*s2) / sqr(sqr(1+s2)), nil
	case n == 2 && l == 1:
		s := kSI * BohrRadius / zeff
		s2 := s * s
		return (1 - s2) / sqr(sqr(1+s2)), nil
	default:
		return 0, fmt.Errorf("%w: no form factor for shell (n=%d, l=%d); supported: 1s, 2s, 2p", ErrInvalidPlasmaState, n, l)
	}
}
