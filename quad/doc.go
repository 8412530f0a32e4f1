// Package quad provides adaptive numerical integration and instrument
// convolution for dual-valued integrands.
//
// Integrands return forward-mode dual numbers
// (gonum.org/v1/gonum/num/dual), so derivatives with respect to model
// parameters flow through the integral:
//
//	e := quad.NewEngine(quad.Config{})
//	res, err := e.Integrate(func(x float64) dual.Number {
//	    return dual.Exp(dual.Number{Real: -x * x})
//	}, 0, 10)
//
// The engine bisects the interval adaptively, evaluating each panel with
// Gauss-Legendre rules of two orders (nodes from
// gonum.org/v1/gonum/integrate/quad) and using their difference as the local
// error estimate. Oscillatory integrands are handled by capping the initial
// panel width at the oscillation scale via Config.MaxPanelWidth. When the
// panel budget runs out before the tolerance is met the engine returns
// [ErrNonConvergence] together with its best estimate; the caller may retry
// with a relaxed tolerance.
package quad
