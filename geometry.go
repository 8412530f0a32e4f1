package xrts

import (
	"fmt"
	"math"

	"github.com/xrts-go/xrts/unit"
)

// Geometry describes the probe and detector arrangement: the energy of the
// incident X-ray beam and the scattering angle between beam and detector.
type Geometry struct {
	ProbeEnergy     unit.Quantity `json:"-"`
	ScatteringAngle float64       `json:"scattering_angle"` // radians, (0, π]
}

// NewGeometry builds and validates a Geometry from a probe energy in eV and
// a scattering angle in degrees.
func NewGeometry(probeEV, angleDeg float64) (Geometry, error) {
	g := Geometry{
		ProbeEnergy:     unit.Scalar(probeEV, unit.Electronvolt),
		ScatteringAngle: angleDeg * math.Pi / 180,
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks the geometry's physical ranges.
func (g Geometry) Validate() error {
	e, err := scalarIn(g.ProbeEnergy, unit.Joule)
	if err != nil {
		return fmt.Errorf("%w: probe energy: %v", ErrInvalidGeometry, err)
	}
	if !(e > 0) || math.IsInf(e, 0) {
		return fmt.Errorf("%w: probe energy %g J must be positive and finite", ErrInvalidGeometry, e)
	}
	if !(g.ScatteringAngle > 0) || g.ScatteringAngle > math.Pi {
		return fmt.Errorf("%w: scattering angle %g rad must be in (0, π]", ErrInvalidGeometry, g.ScatteringAngle)
	}
	return nil
}

// MomentumTransfer returns the scattering wavenumber
//
//	k = (2 E₀ / ħc) · sin(θ/2)
//
// assuming near-elastic scattering (photon energy change small against the
// probe energy).
func (g Geometry) MomentumTransfer() (unit.Quantity, error) {
	if err := g.Validate(); err != nil {
		return unit.Quantity{}, err
	}
	e, _ := scalarIn(g.ProbeEnergy, unit.Joule)
	k := 2 * e / (PlanckBar * SpeedOfLight) * math.Sin(g.ScatteringAngle/2)
	return unit.Scalar(k, unit.InverseMeter), nil
}

// momentumTransferSI is the unchecked internal form used by models after the
// pipeline has validated the geometry once.
func (g Geometry) momentumTransferSI() float64 {
	e, _ := scalarIn(g.ProbeEnergy, unit.Joule)
	return 2 * e / (PlanckBar * SpeedOfLight) * math.Sin(g.ScatteringAngle/2)
}
