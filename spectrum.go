package xrts

import (
	"fmt"

	"github.com/xrts-go/xrts/unit"
)

// Spectrum is a scattering intensity aligned to an energy grid. Intensity
// has dimension inverse energy (dynamic structure factor per unit energy
// shift). ElasticWeight carries the dimensionless Rayleigh weight W_R(k);
// when an instrument response is supplied during synthesis the elastic line
// is already folded into Intensity, and the weight is reported for
// reference.
type Spectrum struct {
	Grid          EnergyGrid
	Intensity     unit.Quantity
	ElasticWeight unit.Quantity
}

// NewSpectrum builds a measured or predicted spectrum from a grid and an
// intensity quantity of matching length and inverse-energy dimension.
func NewSpectrum(grid EnergyGrid, intensity unit.Quantity) (Spectrum, error) {
	if intensity.Dim() != unit.DimInverseEnergy {
		return Spectrum{}, fmt.Errorf("%w: intensity dimension %s, want %s", ErrInvalidSpectrum, intensity.Dim(), unit.DimInverseEnergy)
	}
	if intensity.Len() != grid.Len() {
		return Spectrum{}, fmt.Errorf("%w: intensity length %d != grid length %d", ErrInvalidSpectrum, intensity.Len(), grid.Len())
	}
	return Spectrum{Grid: grid, Intensity: intensity, ElasticWeight: unit.Scalar(0, unit.One)}, nil
}
