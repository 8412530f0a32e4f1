// Package unit implements dimension-checked, differentiable physical
// quantities.
//
// A [Quantity] wraps an array of forward-mode dual numbers
// (gonum.org/v1/gonum/num/dual) together with a physical [Dimension].
// Arithmetic between quantities of incompatible dimensions fails with
// [ErrDimensionMismatch] instead of producing dimensionally wrong numbers,
// and every operation propagates derivatives, so unit tracking never has to
// be stripped before differentiating.
//
// Values are stored internally in coherent SI. Construction from and
// extraction to any compatible [Unit] applies the exact conversion factor:
//
//	q := unit.New([]float64{10, 20}, unit.Electronvolt)
//	ev, err := q.Values(unit.Electronvolt) // {10, 20}
//	j, err := q.Values(unit.Joule)         // {1.602...e-18, 3.204...e-18}
//
// [Quantity.Detach] and [Reattach] form the explicit boundary for code that
// needs the raw dual numbers (for example quadrature kernels).
package unit
