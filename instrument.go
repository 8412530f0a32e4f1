package xrts

import (
	"fmt"
	"math"
	"sort"

	"github.com/xrts-go/xrts/quad"
	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/num/dual"
)

// InstrumentResponse is a normalized detector broadening profile. Kernel
// returns the profile as a function of energy shift in joules; Support
// returns the half-width in joules beyond which the kernel is treated as
// zero by the convolution.
type InstrumentResponse interface {
	Kernel() quad.Kernel
	Support() float64
}

// GaussianInstrument is a Gaussian response of the given full width at half
// maximum. The kernel integrates to one over its support.
type GaussianInstrument struct {
	sigma float64 // J
}

// NewGaussianInstrument builds a Gaussian response with the given FWHM.
func NewGaussianInstrument(fwhm unit.Quantity) (GaussianInstrument, error) {
	w, err := scalarIn(fwhm, unit.Joule)
	if err != nil {
		return GaussianInstrument{}, fmt.Errorf("xrts: instrument FWHM: %w", err)
	}
	if !(w > 0) {
		return GaussianInstrument{}, fmt.Errorf("xrts: instrument FWHM %g J must be positive", w)
	}
	return GaussianInstrument{sigma: w / (2 * math.Sqrt(2*math.Ln2))}, nil
}

func (g GaussianInstrument) Kernel() quad.Kernel {
	norm := 1 / (g.sigma * math.Sqrt(2*math.Pi))
	return func(dx float64) dual.Number {
		u := dx / g.sigma
		return dual.Number{Real: norm * math.Exp(-0.5*u*u)}
	}
}

// Support covers ±5σ, beyond which the Gaussian tail is negligible against
// typical quadrature tolerances.
func (g GaussianInstrument) Support() float64 { return 5 * g.sigma }

// LorentzianInstrument is a Lorentzian (Cauchy) response of the given FWHM.
// A Lorentzian has no finite variance, so the support must be chosen
// explicitly as a multiple of the half-width γ; the kernel is renormalized
// over the truncated window so it still integrates to one.
type LorentzianInstrument struct {
	gamma   float64 // half width at half maximum, J
	support float64 // J
}

// NewLorentzianInstrument builds a Lorentzian response truncated at
// halfWidths·γ on each side (a value of 0 defaults to 50).
func NewLorentzianInstrument(fwhm unit.Quantity, halfWidths float64) (LorentzianInstrument, error) {
	w, err := scalarIn(fwhm, unit.Joule)
	if err != nil {
		return LorentzianInstrument{}, fmt.Errorf("xrts: instrument FWHM: %w", err)
	}
	if !(w > 0) {
		return LorentzianInstrument{}, fmt.Errorf("xrts: instrument FWHM %g J must be positive", w)
	}
	if halfWidths == 0 {
		halfWidths = 50
	}
	if !(halfWidths > 1) {
		return LorentzianInstrument{}, fmt.Errorf("xrts: truncation %g must exceed one half-width", halfWidths)
	}
	g := w / 2
	return LorentzianInstrument{gamma: g, support: halfWidths * g}, nil
}

func (l LorentzianInstrument) Kernel() quad.Kernel {
	// Mass of the truncated window: (2/π)·atan(a/γ).
	mass := 2 / math.Pi * math.Atan(l.support/l.gamma)
	norm := 1 / (math.Pi * l.gamma * mass)
	return func(dx float64) dual.Number {
		u := dx / l.gamma
		return dual.Number{Real: norm / (1 + u*u)}
	}
}

func (l LorentzianInstrument) Support() float64 { return l.support }

// TabulatedInstrument wraps a measured response curve. The table is
// interpolated linearly and normalized to unit area on construction.
type TabulatedInstrument struct {
	shift []float64 // J, ascending, centered on zero shift
	resp  []float64 // normalized
}

// NewTabulatedInstrument builds a response from measured (shift, response)
// samples. Shifts must be strictly increasing, span zero, and the response
// must be non-negative with positive total area.
func NewTabulatedInstrument(shift, response unit.Quantity) (TabulatedInstrument, error) {
	xs, err := shift.Values(unit.Joule)
	if err != nil {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument shift axis: %w", err)
	}
	ys, err := response.Values(unit.One)
	if err != nil {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument response: %w", err)
	}
	if len(xs) != len(ys) {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument table: %d shifts but %d responses", len(xs), len(ys))
	}
	if len(xs) < 3 {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument table needs at least 3 samples, have %d", len(xs))
	}
	for i := range xs {
		if i > 0 && xs[i] <= xs[i-1] {
			return TabulatedInstrument{}, fmt.Errorf("xrts: instrument shifts must be strictly increasing at index %d", i)
		}
		if ys[i] < 0 || math.IsNaN(ys[i]) {
			return TabulatedInstrument{}, fmt.Errorf("xrts: instrument response must be non-negative at index %d", i)
		}
	}
	if xs[0] > 0 || xs[len(xs)-1] < 0 {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument table must span zero shift")
	}
	area := integrate.Trapezoidal(xs, ys)
	if !(area > 0) {
		return TabulatedInstrument{}, fmt.Errorf("xrts: instrument response has zero area")
	}
	norm := make([]float64, len(ys))
	for i, y := range ys {
		norm[i] = y / area
	}
	x := make([]float64, len(xs))
	copy(x, xs)
	return TabulatedInstrument{shift: x, resp: norm}, nil
}

func (t TabulatedInstrument) Kernel() quad.Kernel {
	return func(dx float64) dual.Number {
		if dx < t.shift[0] || dx > t.shift[len(t.shift)-1] {
			return dual.Number{}
		}
		j := sort.SearchFloat64s(t.shift, dx)
		if j == 0 {
			return dual.Number{Real: t.resp[0]}
		}
		x0, x1 := t.shift[j-1], t.shift[j]
		y0, y1 := t.resp[j-1], t.resp[j]
		return dual.Number{Real: y0 + (y1-y0)*(dx-x0)/(x1-x0)}
	}
}

func (t TabulatedInstrument) Support() float64 {
	return math.Max(-t.shift[0], t.shift[len(t.shift)-1])
}
