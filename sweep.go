package xrts

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/xrts-go/xrts/unit"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// SweepConfig configures a Monte Carlo uncertainty sweep. Sigma maps each
// varied parameter to the standard deviation of its Gaussian prior, in the
// parameter's SI unit. Zero-valued fields default to 64 samples and one
// worker per CPU.
type SweepConfig struct {
	Sigma   map[FitParam]float64
	Samples int
	Workers int
	Seed    uint64
}

// SweepResult holds the per-grid-point sample statistics of a sweep.
type SweepResult struct {
	Mean   unit.Quantity // inverse energy
	StdDev unit.Quantity // inverse energy

	ElasticMean   float64
	ElasticStdDev float64

	Rejected int // draws discarded by state validation
}

// MonteCarlo propagates Gaussian parameter uncertainty through the forward
// model: it draws parameter sets around the given state, synthesizes each
// sample concurrently, and reduces the ensemble to a per-point mean and
// standard deviation. Draws that violate state validation (a negative
// temperature from a wide prior, for instance) are discarded and counted.
// Sampling is deterministic for a fixed Seed regardless of worker count.
func (s *Synthesizer) MonteCarlo(ctx context.Context, state *PlasmaState, geom Geometry, grid EnergyGrid, cfg SweepConfig) (SweepResult, error) {
	if len(cfg.Sigma) == 0 {
		return SweepResult{}, fmt.Errorf("%w: sweep requires at least one parameter sigma", ErrInvalidPlasmaState)
	}
	samples := cfg.Samples
	if samples == 0 {
		samples = 64
	}
	if samples < 2 {
		return SweepResult{}, fmt.Errorf("%w: need at least 2 samples, have %d", ErrInvalidPlasmaState, samples)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	params := make([]FitParam, 0, len(cfg.Sigma))
	for _, p := range AllFitParams {
		if sigma, ok := cfg.Sigma[p]; ok {
			if !(sigma >= 0) {
				return SweepResult{}, fmt.Errorf("%w: sigma for %s must be non-negative, have %g", ErrInvalidPlasmaState, p, sigma)
			}
			params = append(params, p)
		}
	}
	if len(params) != len(cfg.Sigma) {
		return SweepResult{}, fmt.Errorf("%w: sweep sigma map contains an invalid parameter", ErrInvalidPlasmaState)
	}

	// Draw all states up front so the ensemble is independent of scheduling.
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	states := make([]*PlasmaState, 0, samples)
	rejected := 0
	for i := 0; i < samples; i++ {
		drawn := state
		ok := true
		for _, p := range params {
			base, err := p.Value(state)
			if err != nil {
				return SweepResult{}, err
			}
			next, err := drawn.With(p, base+cfg.Sigma[p]*rng.NormFloat64())
			if err != nil {
				ok = false
				break
			}
			drawn = next
		}
		if !ok {
			rejected++
			continue
		}
		states = append(states, drawn)
	}
	if len(states) < 2 {
		return SweepResult{}, fmt.Errorf("%w: only %d of %d draws passed validation; tighten the sigmas", ErrInvalidPlasmaState, len(states), samples)
	}

	intensities := make([][]float64, len(states))
	weights := make([]float64, len(states))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, st := range states {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sp, err := s.Synthesize(st, geom, grid)
			if err != nil {
				return err
			}
			vals, err := sp.Intensity.Values(unit.PerJoule)
			if err != nil {
				return err
			}
			w, err := sp.ElasticWeight.Values(unit.One)
			if err != nil {
				return err
			}
			intensities[i] = vals
			weights[i] = w[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepResult{}, fmt.Errorf("xrts: sweep: %w", err)
	}

	mean := make([]float64, grid.Len())
	std := make([]float64, grid.Len())
	col := make([]float64, len(states))
	for j := range mean {
		for i := range states {
			col[i] = intensities[i][j]
		}
		mean[j], std[j] = stat.MeanStdDev(col, nil)
	}
	wMean, wStd := stat.MeanStdDev(weights, nil)

	return SweepResult{
		Mean:          unit.New(mean, unit.PerJoule),
		StdDev:        unit.New(std, unit.PerJoule),
		ElasticMean:   wMean,
		ElasticStdDev: wStd,
		Rejected:      rejected,
	}, nil
}
