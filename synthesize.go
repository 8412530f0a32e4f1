package xrts

import (
	"fmt"

	"github.com/xrts-go/xrts/quad"
	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

// SynthesizerConfig configures a Synthesizer. Zero-valued fields fall back
// to defaults: a registry with the built-in variants, an engine with default
// tolerances, and DefaultSelection. Response is optional; without it the
// spectrum is unbroadened and the elastic line is reported as a separate
// weight instead of being folded into the intensity.
type SynthesizerConfig struct {
	Registry  *Registry
	Engine    *quad.Engine
	Selection Selection
	Response  InstrumentResponse
}

// Synthesizer evaluates the three-slot decomposition of the scattering
// spectrum
//
//	S(k,ω) = Z̄_f·S⁰ₑₑ(k,ω) + Z̄_c·S_bf(k,ω) + W_R(k)·δ(ω)
//
// for a fixed variant selection, optionally broadened by an instrument
// response. Variants are resolved once at construction, so an unknown name
// fails early instead of on first use.
type Synthesizer struct {
	engine *quad.Engine
	sel    Selection
	resp   InstrumentResponse

	freeFree  Model
	boundFree Model
	elastic   Model
}

// NewSynthesizer resolves the configured variants and builds a Synthesizer.
func NewSynthesizer(cfg SynthesizerConfig) (*Synthesizer, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	engine := cfg.Engine
	if engine == nil {
		var err error
		engine, err = quad.NewEngine(quad.Config{})
		if err != nil {
			return nil, err
		}
	}
	sel := cfg.Selection.withDefaults()

	ff, err := reg.Select(SlotFreeFree, sel.FreeFree)
	if err != nil {
		return nil, err
	}
	bf, err := reg.Select(SlotBoundFree, sel.BoundFree)
	if err != nil {
		return nil, err
	}
	el, err := reg.Select(SlotElastic, sel.Elastic)
	if err != nil {
		return nil, err
	}
	return &Synthesizer{
		engine:    engine,
		sel:       sel,
		resp:      cfg.Response,
		freeFree:  ff,
		boundFree: bf,
		elastic:   el,
	}, nil
}

// Selection returns the resolved variant selection.
func (s *Synthesizer) Selection() Selection { return s.sel }

// Differentiable reports whether every selected variant supports
// forward-mode parameter derivatives.
func (s *Synthesizer) Differentiable() bool {
	return s.freeFree.Differentiable() && s.boundFree.Differentiable() && s.elastic.Differentiable()
}

// Synthesize evaluates the spectrum for the given state, geometry and grid.
func (s *Synthesizer) Synthesize(state *PlasmaState, geom Geometry, grid EnergyGrid) (Spectrum, error) {
	total, wr, err := s.evaluate(state, geom, grid)
	if err != nil {
		return Spectrum{}, err
	}

	if s.resp != nil {
		kernel := s.resp.Kernel()
		broadened, err := s.engine.Convolve(grid.si, total, kernel, s.resp.Support())
		if err != nil {
			return Spectrum{}, fmt.Errorf("xrts: instrument broadening: %w", err)
		}
		// The elastic line is a delta at zero shift; convolving it with the
		// kernel leaves the kernel itself, scaled by the Rayleigh weight.
		for i, eJ := range grid.si {
			broadened[i] = dual.Add(broadened[i], dual.Mul(wr, kernel(eJ)))
		}
		total = broadened
	}

	sp, err := NewSpectrum(grid, unit.Reattach(total, unit.DimInverseEnergy))
	if err != nil {
		return Spectrum{}, err
	}
	sp.ElasticWeight = unit.Reattach([]dual.Number{wr}, unit.Dimensionless)
	return sp, nil
}

// evaluate runs the three slots with contract checks and combines the
// inelastic channels into one grid-shaped density.
func (s *Synthesizer) evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) ([]dual.Number, dual.Number, error) {
	if state == nil {
		return nil, dual.Number{}, fmt.Errorf("%w: nil state", ErrInvalidPlasmaState)
	}
	if err := geom.Validate(); err != nil {
		return nil, dual.Number{}, err
	}
	if grid.Len() == 0 {
		return nil, dual.Number{}, fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}

	ff, err := s.freeFree.Evaluate(state, geom, grid)
	if err != nil {
		return nil, dual.Number{}, fmt.Errorf("xrts: %s variant %q: %w", SlotFreeFree, s.freeFree.Name(), err)
	}
	if err := inelasticContract(ff, grid, SlotFreeFree, s.freeFree.Name()); err != nil {
		return nil, dual.Number{}, err
	}

	bf, err := s.boundFree.Evaluate(state, geom, grid)
	if err != nil {
		return nil, dual.Number{}, fmt.Errorf("xrts: %s variant %q: %w", SlotBoundFree, s.boundFree.Name(), err)
	}
	if err := inelasticContract(bf, grid, SlotBoundFree, s.boundFree.Name()); err != nil {
		return nil, dual.Number{}, err
	}

	el, err := s.elastic.Evaluate(state, geom, grid)
	if err != nil {
		return nil, dual.Number{}, fmt.Errorf("xrts: %s variant %q: %w", SlotElastic, s.elastic.Name(), err)
	}
	if el.Dim() != unit.Dimensionless || el.Len() != 1 {
		return nil, dual.Number{}, fmt.Errorf("xrts: %s variant %q must return a scalar dimensionless weight, have length %d dimension %s",
			SlotElastic, s.elastic.Name(), el.Len(), el.Dim())
	}

	zf := state.zfDual()
	zc := state.MeanChargeBound()
	ffData, bfData := ff.Detach(), bf.Detach()
	total := make([]dual.Number, grid.Len())
	for i := range total {
		total[i] = dual.Add(dual.Mul(zf, ffData[i]), dual.Scale(zc, bfData[i]))
	}
	return total, el.At(0), nil
}
