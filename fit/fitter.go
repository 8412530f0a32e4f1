package fit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/xrts-go/xrts"
	"github.com/xrts-go/xrts/unit"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInsufficientData is returned when the data grid has fewer points
	// than the number of free parameters.
	ErrInsufficientData = errors.New("fit: insufficient data points for the free parameters")

	// ErrGridMismatch is returned when the noise vector does not align with
	// the data grid.
	ErrGridMismatch = errors.New("fit: noise does not match the data grid")
)

// Config configures the fitting process.
// Zero values are replaced with sensible defaults.
type Config struct {
	Iterations   int             `json:"iterations"`    // default 200
	LearningRate float64         `json:"learning_rate"` // default 0.05
	Params       []xrts.FitParam `json:"params"`        // default: all fit parameters
	LogEvery     int             `json:"log_every"`     // default 25 iterations

	// MinLearningRate is the floor the cosine annealing schedule decays to
	// by the final iteration. Defaults to LearningRate/100.
	MinLearningRate float64 `json:"min_learning_rate"`

	// Noise is an optional per-point measurement uncertainty aligned with
	// the data grid, of dimension inverse energy. Without it every point is
	// weighted by the RMS of the data.
	Noise unit.Quantity `json:"-"`

	Logger *zap.Logger `json:"-"` // default zap.NewNop()
}

// Result is the outcome of a fit: the best state found, its loss, and the
// per-parameter SI values.
type Result struct {
	State      *xrts.PlasmaState
	Loss       float64
	Iterations int
	Values     map[xrts.FitParam]float64
}

// Fitter estimates plasma parameters from a measured spectrum using Adam
// gradient descent with cosine annealing on a reduced chi-square loss. Loss
// gradients are exact, built from the synthesizer's forward-mode spectrum
// derivatives.
type Fitter struct {
	synth      *xrts.Synthesizer
	iterations int
	lr         float64
	lrMin      float64
	params     []xrts.FitParam
	logEvery   int
	noise      unit.Quantity
	logger     *zap.Logger
}

// NewFitter creates a Fitter around a synthesizer. Zero-valued config fields
// receive defaults: Iterations=200, LearningRate=0.05,
// MinLearningRate=LearningRate/100, Params=AllFitParams, LogEvery=25,
// Logger=zap.NewNop(). The synthesizer's variant selection must be
// differentiable.
func NewFitter(synth *xrts.Synthesizer, cfg Config) (*Fitter, error) {
	if synth == nil {
		return nil, errors.New("fit: nil synthesizer")
	}
	if !synth.Differentiable() {
		return nil, fmt.Errorf("fit: selection %+v: %w", synth.Selection(), xrts.ErrNonDifferentiable)
	}
	f := &Fitter{
		synth:      synth,
		iterations: cfg.Iterations,
		lr:         cfg.LearningRate,
		lrMin:      cfg.MinLearningRate,
		params:     cfg.Params,
		logEvery:   cfg.LogEvery,
		noise:      cfg.Noise,
		logger:     cfg.Logger,
	}
	if f.iterations == 0 {
		f.iterations = 200
	}
	if f.lr == 0 {
		f.lr = 0.05
	}
	if f.lrMin == 0 {
		f.lrMin = f.lr / 100
	}
	if len(f.params) == 0 {
		f.params = xrts.AllFitParams
	}
	if f.logEvery == 0 {
		f.logEvery = 25
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	for _, p := range f.params {
		if _, ok := paramSpecs[p]; !ok {
			return nil, fmt.Errorf("fit: unknown fit parameter %v", p)
		}
	}
	return f, nil
}

// Fit minimizes the reduced chi-square between the measured spectrum and the
// forward model, starting from the initial state. It returns the best state
// seen over all iterations, which is not necessarily the last one. The
// context cancels a long-running fit; the best result so far is returned
// alongside the context error.
func (f *Fitter) Fit(ctx context.Context, data xrts.Spectrum, geom xrts.Geometry, initial *xrts.PlasmaState) (Result, error) {
	values, weight, err := f.prepare(data)
	if err != nil {
		return Result{}, err
	}

	// Optimizer coordinates: one entry per free parameter.
	theta := make([]float64, len(f.params))
	for i, p := range f.params {
		v, err := p.Value(initial)
		if err != nil {
			return Result{}, err
		}
		theta[i] = paramSpecs[p].encode(v)
	}

	adam := NewAdam(len(theta), f.lr)
	ca := NewCosineAnnealing(f.lr, f.lrMin, f.iterations)
	grad := make([]float64, len(theta))

	best := Result{State: initial, Loss: math.Inf(1), Values: make(map[xrts.FitParam]float64, len(f.params))}
	for iter := 0; iter < f.iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		state, err := f.decodeState(initial, theta)
		if err != nil {
			return best, err
		}
		res, err := f.synth.Gradient(state, geom, data.Grid, f.params...)
		if err != nil {
			return best, err
		}
		model, err := res.Spectrum.Intensity.Values(unit.PerJoule)
		if err != nil {
			return best, err
		}

		loss := chiSquare(model, values, weight)
		if loss < best.Loss {
			best.Loss = loss
			best.State = state
			best.Iterations = iter + 1
			for _, p := range f.params {
				v, _ := p.Value(state)
				best.Values[p] = v
			}
		}

		for i, p := range f.params {
			v, _ := p.Value(state)
			grad[i] = chiSquareGrad(model, values, weight, res.Deriv[p]) * paramSpecs[p].chainFactor(v)
		}

		adam.SetLR(ca.LR())
		adam.Update(theta, grad)
		ca.Step()

		if (iter+1)%f.logEvery == 0 {
			f.logger.Debug("fit iteration",
				zap.Int("iter", iter+1),
				zap.Float64("loss", loss),
				zap.Float64("best_loss", best.Loss),
				zap.Float64("grad_norm", floats.Norm(grad, 2)),
				zap.Float64("lr", ca.LR()),
			)
		}
	}

	f.logger.Info("fit finished",
		zap.Float64("loss", best.Loss),
		zap.Int("best_iteration", best.Iterations),
	)
	return best, nil
}

// Loss evaluates the reduced chi-square of a state against the data without
// taking a gradient step.
func (f *Fitter) Loss(state *xrts.PlasmaState, data xrts.Spectrum, geom xrts.Geometry) (float64, error) {
	values, weight, err := f.prepare(data)
	if err != nil {
		return 0, err
	}
	sp, err := f.synth.Synthesize(state, geom, data.Grid)
	if err != nil {
		return 0, err
	}
	model, err := sp.Intensity.Values(unit.PerJoule)
	if err != nil {
		return 0, err
	}
	return chiSquare(model, values, weight), nil
}

// prepare extracts the data values and per-point weights.
func (f *Fitter) prepare(data xrts.Spectrum) ([]float64, []float64, error) {
	values, err := data.Intensity.Values(unit.PerJoule)
	if err != nil {
		return nil, nil, err
	}
	if len(values) < len(f.params) {
		return nil, nil, fmt.Errorf("%w: %d points for %d parameters", ErrInsufficientData, len(values), len(f.params))
	}

	weight := make([]float64, len(values))
	if f.noise.IsZero() {
		// Uniform weights scaled by the RMS of the data so the loss is O(1).
		var ms float64
		for _, v := range values {
			ms += v * v
		}
		ms /= float64(len(values))
		if ms == 0 {
			return nil, nil, fmt.Errorf("%w: data is identically zero", ErrInsufficientData)
		}
		for i := range weight {
			weight[i] = 1 / ms
		}
		return values, weight, nil
	}

	sigma, err := f.noise.Values(unit.PerJoule)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGridMismatch, err)
	}
	if len(sigma) != len(values) {
		return nil, nil, fmt.Errorf("%w: %d noise points for %d data points", ErrGridMismatch, len(sigma), len(values))
	}
	for i, s := range sigma {
		if !(s > 0) {
			return nil, nil, fmt.Errorf("%w: noise must be positive at index %d", ErrGridMismatch, i)
		}
		weight[i] = 1 / (s * s)
	}
	return values, weight, nil
}

// decodeState maps optimizer coordinates back to a validated state derived
// from the initial one.
func (f *Fitter) decodeState(initial *xrts.PlasmaState, theta []float64) (*xrts.PlasmaState, error) {
	state := initial
	for i, p := range f.params {
		next, err := state.With(p, paramSpecs[p].decode(theta[i]))
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state, nil
}
