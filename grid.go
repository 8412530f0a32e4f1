package xrts

import (
	"fmt"
	"math"

	"github.com/xrts-go/xrts/unit"
)

// EnergyGrid is a strictly increasing sequence of energy-shift values over
// which spectra are evaluated. Negative shifts are the up-scattered
// (anti-Stokes) side.
type EnergyGrid struct {
	si []float64 // J
}

// NewEnergyGrid builds a grid from values in the given energy unit.
// The values must be finite, strictly increasing and non-empty.
func NewEnergyGrid(values []float64, u unit.Unit) (EnergyGrid, error) {
	if u.Dim != unit.DimEnergy {
		return EnergyGrid{}, fmt.Errorf("%w: unit %q has dimension %s, want energy", ErrInvalidGrid, u.Name, u.Dim)
	}
	if len(values) == 0 {
		return EnergyGrid{}, fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}
	si := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return EnergyGrid{}, fmt.Errorf("%w: non-finite value at index %d", ErrInvalidGrid, i)
		}
		si[i] = v * u.Factor
		if i > 0 && !(si[i] > si[i-1]) {
			return EnergyGrid{}, fmt.Errorf("%w: not strictly increasing at index %d (%g after %g %s)", ErrInvalidGrid, i, values[i], values[i-1], u.Name)
		}
	}
	return EnergyGrid{si: si}, nil
}

// LinearEnergyGrid builds an n-point evenly spaced grid from lo to hi in the
// given energy unit.
func LinearEnergyGrid(lo, hi float64, n int, u unit.Unit) (EnergyGrid, error) {
	if n < 2 {
		return EnergyGrid{}, fmt.Errorf("%w: need at least 2 points, have %d", ErrInvalidGrid, n)
	}
	if !(hi > lo) {
		return EnergyGrid{}, fmt.Errorf("%w: range [%g, %g] must be increasing", ErrInvalidGrid, lo, hi)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return NewEnergyGrid(values, u)
}

// Len returns the number of grid points.
func (g EnergyGrid) Len() int { return len(g.si) }

// SI returns a copy of the grid in joules.
func (g EnergyGrid) SI() []float64 {
	out := make([]float64, len(g.si))
	copy(out, g.si)
	return out
}

// Values returns the grid converted to the given energy unit.
func (g EnergyGrid) Values(u unit.Unit) ([]float64, error) {
	return g.Quantity().Values(u)
}

// Quantity returns the grid as an energy quantity.
func (g EnergyGrid) Quantity() unit.Quantity {
	return unit.New(g.si, unit.Joule)
}

// equal reports whether two grids have identical points.
func (g EnergyGrid) equal(o EnergyGrid) bool {
	if len(g.si) != len(o.si) {
		return false
	}
	for i := range g.si {
		if g.si[i] != o.si[i] {
			return false
		}
	}
	return true
}
