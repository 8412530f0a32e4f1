package fit

import (
	"github.com/xrts-go/xrts"
	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/diff/fd"
)

// CheckGradient compares the analytic loss gradient at the given state
// against central finite differences in the optimizer coordinates and
// returns the largest relative difference over the free parameters. Useful
// when validating a custom differentiable model variant.
func (f *Fitter) CheckGradient(data xrts.Spectrum, geom xrts.Geometry, state *xrts.PlasmaState) (float64, error) {
	values, weight, err := f.prepare(data)
	if err != nil {
		return 0, err
	}

	theta := make([]float64, len(f.params))
	for i, p := range f.params {
		v, err := p.Value(state)
		if err != nil {
			return 0, err
		}
		theta[i] = paramSpecs[p].encode(v)
	}

	res, err := f.synth.Gradient(state, geom, data.Grid, f.params...)
	if err != nil {
		return 0, err
	}
	model, err := res.Spectrum.Intensity.Values(unit.PerJoule)
	if err != nil {
		return 0, err
	}
	analytic := make([]float64, len(theta))
	for i, p := range f.params {
		v, _ := p.Value(state)
		analytic[i] = chiSquareGrad(model, values, weight, res.Deriv[p]) * paramSpecs[p].chainFactor(v)
	}

	var evalErr error
	loss := func(t []float64) float64 {
		if evalErr != nil {
			return 0
		}
		st, err := f.decodeState(state, t)
		if err != nil {
			evalErr = err
			return 0
		}
		l, err := f.Loss(st, data, geom)
		if err != nil {
			evalErr = err
			return 0
		}
		return l
	}
	numeric := fd.Gradient(nil, loss, theta, &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return 0, evalErr
	}

	var worst float64
	for i := range analytic {
		if d := relDiff(analytic[i], numeric[i]); d > worst {
			worst = d
		}
	}
	return worst, nil
}
