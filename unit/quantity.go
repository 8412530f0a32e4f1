package unit

import (
	"fmt"

	"gonum.org/v1/gonum/num/dual"
)

// Quantity is an immutable array of dual numbers tagged with a physical
// dimension. Values are stored in coherent SI; derivatives ride along in the
// dual part, so differentiating through unit-checked arithmetic needs no
// special handling. Operations return new quantities and never mutate their
// receivers.
type Quantity struct {
	data []dual.Number
	dim  Dimension
}

// New creates a quantity from values expressed in the given unit.
func New(values []float64, u Unit) Quantity {
	data := make([]dual.Number, len(values))
	for i, v := range values {
		data[i] = dual.Number{Real: v * u.Factor}
	}
	return Quantity{data: data, dim: u.Dim}
}

// Scalar creates a single-element quantity.
func Scalar(v float64, u Unit) Quantity {
	return New([]float64{v}, u)
}

// Reattach wraps raw dual numbers in a quantity of the given dimension.
// The data is interpreted as SI and copied. It is the inverse of
// [Quantity.Detach] and exists so numeric kernels (quadrature, convolution)
// can work on bare duals at a clearly marked boundary.
func Reattach(data []dual.Number, dim Dimension) Quantity {
	cp := make([]dual.Number, len(data))
	copy(cp, data)
	return Quantity{data: cp, dim: dim}
}

// Detach returns a copy of the underlying SI dual numbers, stripped of the
// dimension tag. Pair with [Reattach].
func (q Quantity) Detach() []dual.Number {
	cp := make([]dual.Number, len(q.data))
	copy(cp, q.data)
	return cp
}

// Dim returns the quantity's dimension.
func (q Quantity) Dim() Dimension { return q.dim }

// Len returns the number of elements.
func (q Quantity) Len() int { return len(q.data) }

// At returns the i-th element in SI.
func (q Quantity) At(i int) dual.Number { return q.data[i] }

// IsZero reports whether the quantity is the zero value (no data, no
// dimension), as opposed to a constructed quantity holding zeros.
func (q Quantity) IsZero() bool { return q.data == nil && q.dim == Dimension{} }

// Values converts the real parts to the given unit.
// Fails with ErrDimensionMismatch if the unit's dimension differs.
func (q Quantity) Values(u Unit) ([]float64, error) {
	if q.dim != u.Dim {
		return nil, fmt.Errorf("%w: have %s, want %s (unit %q)", ErrDimensionMismatch, q.dim, u.Dim, u.Name)
	}
	out := make([]float64, len(q.data))
	for i, d := range q.data {
		out[i] = d.Real / u.Factor
	}
	return out, nil
}

// Derivs converts the derivative (dual) parts to the given unit.
// The derivative is taken with respect to the SI value of whichever
// parameter was seeded; only the quantity's own dimension is converted.
func (q Quantity) Derivs(u Unit) ([]float64, error) {
	if q.dim != u.Dim {
		return nil, fmt.Errorf("%w: have %s, want %s (unit %q)", ErrDimensionMismatch, q.dim, u.Dim, u.Name)
	}
	out := make([]float64, len(q.data))
	for i, d := range q.data {
		out[i] = d.Emag / u.Factor
	}
	return out, nil
}

// Add returns q + o. Both quantities must share dimension and shape
// (equal lengths, or either side scalar).
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if q.dim != o.dim {
		return Quantity{}, fmt.Errorf("%w: cannot add %s to %s", ErrDimensionMismatch, o.dim, q.dim)
	}
	return q.zipWith(o, dual.Add)
}

// Sub returns q - o, with the same dimension and shape rules as Add.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if q.dim != o.dim {
		return Quantity{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrDimensionMismatch, o.dim, q.dim)
	}
	return q.zipWith(o, dual.Sub)
}

// Mul returns the elementwise product; dimensions multiply.
// Either operand may be scalar (length 1), which broadcasts.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	out, err := q.zipWith(o, dual.Mul)
	if err != nil {
		return Quantity{}, err
	}
	out.dim = q.dim.Mul(o.dim)
	return out, nil
}

// Div returns the elementwise quotient; dimensions divide.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	out, err := q.zipWith(o, func(a, b dual.Number) dual.Number {
		return dual.Mul(a, dual.Inv(b))
	})
	if err != nil {
		return Quantity{}, err
	}
	out.dim = q.dim.Div(o.dim)
	return out, nil
}

// Scale returns q multiplied by a dimensionless constant.
func (q Quantity) Scale(f float64) Quantity {
	data := make([]dual.Number, len(q.data))
	for i, d := range q.data {
		data[i] = dual.Scale(f, d)
	}
	return Quantity{data: data, dim: q.dim}
}

// Neg returns -q.
func (q Quantity) Neg() Quantity { return q.Scale(-1) }

// PowInt returns q raised elementwise to an integer power; the dimension is
// raised with it. PowInt(0) is the dimensionless one.
func (q Quantity) PowInt(n int) Quantity {
	data := make([]dual.Number, len(q.data))
	for i, d := range q.data {
		data[i] = powInt(d, n)
	}
	return Quantity{data: data, dim: q.dim.Pow(n)}
}

// powInt computes dⁿ by repeated multiplication. dual.PowReal clamps
// |Real| < 1e-15 before differentiating, which would corrupt derivatives of
// small coherent-SI values (a Debye length squared, say).
func powInt(d dual.Number, n int) dual.Number {
	if n < 0 {
		return dual.Inv(powInt(d, -n))
	}
	out := dual.Number{Real: 1}
	for ; n > 0; n-- {
		out = dual.Mul(out, d)
	}
	return out
}

func (q Quantity) zipWith(o Quantity, f func(a, b dual.Number) dual.Number) (Quantity, error) {
	switch {
	case len(q.data) == len(o.data):
		data := make([]dual.Number, len(q.data))
		for i := range q.data {
			data[i] = f(q.data[i], o.data[i])
		}
		return Quantity{data: data, dim: q.dim}, nil
	case len(o.data) == 1:
		data := make([]dual.Number, len(q.data))
		for i := range q.data {
			data[i] = f(q.data[i], o.data[0])
		}
		return Quantity{data: data, dim: q.dim}, nil
	case len(q.data) == 1:
		data := make([]dual.Number, len(o.data))
		for i := range o.data {
			data[i] = f(q.data[0], o.data[i])
		}
		return Quantity{data: data, dim: q.dim}, nil
	default:
		return Quantity{}, fmt.Errorf("%w: lengths %d and %d", ErrShapeMismatch, len(q.data), len(o.data))
	}
}
