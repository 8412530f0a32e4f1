package fit

import (
	"math"

	"github.com/xrts-go/xrts"
)

// paramSpec maps one fit parameter between its physical SI value and the
// unconstrained optimizer coordinate. Positive-definite parameters use a log
// transform so gradient steps can never push them out of the physical
// domain; bounds clamp the physical value after every step.
type paramSpec struct {
	logSpace     bool
	lower, upper float64 // SI
}

var paramSpecs = map[xrts.FitParam]paramSpec{
	xrts.ParamElectronDensity:     {logSpace: true, lower: 1e24, upper: 1e34}, // 1/m³
	xrts.ParamElectronTemperature: {logSpace: true, lower: 1e3, upper: 1e9},   // K
	xrts.ParamIonTemperature:      {logSpace: true, lower: 1e3, upper: 1e9},   // K
	xrts.ParamIonization:          {logSpace: false, lower: 0.05, upper: 100},
}

// encode maps a physical SI value into the optimizer coordinate.
func (s paramSpec) encode(v float64) float64 {
	if s.logSpace {
		return math.Log(v)
	}
	return v
}

// decode maps an optimizer coordinate back to a clamped physical SI value.
func (s paramSpec) decode(theta float64) float64 {
	v := theta
	if s.logSpace {
		v = math.Exp(theta)
	}
	return math.Min(s.upper, math.Max(s.lower, v))
}

// chainFactor is dv/dθ at the physical value v, used to pull loss gradients
// from physical space into the optimizer coordinate.
func (s paramSpec) chainFactor(v float64) float64 {
	if s.logSpace {
		return v
	}
	return 1
}
