package quad

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/num/dual"
)

// Kernel is a convolution kernel as a function of the shift from the kernel
// center. Instrument kernels should integrate to one over [-support, support].
type Kernel func(dx float64) dual.Number

// Convolve broadens sampled values by the kernel:
//
//	out[i] = ∫ interp(grid[i] - u) · kernel(u) du,  u ∈ [-support, support]
//
// where interp is the linear interpolant of (grid, values), zero outside the
// grid. Each output point is integrated adaptively, piecewise between the
// interpolant's knots, so the error is bounded by the engine tolerance even
// for sampled features much narrower than the kernel support. The grid must
// be strictly increasing and at least two points long.
func (e *Engine) Convolve(grid []float64, values []dual.Number, kernel Kernel, support float64) ([]dual.Number, error) {
	if len(grid) != len(values) {
		return nil, fmt.Errorf("%w: grid length %d != values length %d", ErrInvalidInput, len(grid), len(values))
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 grid points, have %d", ErrInvalidInput, len(grid))
	}
	if support <= 0 || math.IsInf(support, 0) || math.IsNaN(support) {
		return nil, fmt.Errorf("%w: kernel support %g must be positive and finite", ErrInvalidInput, support)
	}
	for i := 1; i < len(grid); i++ {
		if !(grid[i] > grid[i-1]) {
			return nil, fmt.Errorf("%w: grid not strictly increasing at index %d", ErrInvalidInput, i)
		}
	}

	interp := func(x float64) dual.Number {
		if x < grid[0] || x > grid[len(grid)-1] {
			return dual.Number{}
		}
		j := sort.SearchFloat64s(grid, x)
		if j == 0 {
			return values[0]
		}
		if j == len(grid) {
			return values[len(grid)-1]
		}
		t := (x - grid[j-1]) / (grid[j] - grid[j-1])
		return dual.Add(dual.Scale(1-t, values[j-1]), dual.Scale(t, values[j]))
	}

	out := make([]dual.Number, len(grid))
	cuts := make([]float64, 0, len(grid)+2)
	for i, x := range grid {
		f := func(u float64) dual.Number {
			return dual.Mul(interp(x-u), kernel(u))
		}

		// The integrand has a kink wherever x-u crosses a grid knot. Cutting
		// the window there keeps every panel smooth and, more importantly,
		// keeps a feature one grid step wide from hiding between the Gauss
		// nodes of a panel spanning the whole support.
		cuts = cuts[:0]
		cuts = append(cuts, -support)
		for j := len(grid) - 1; j >= 0; j-- {
			if u := x - grid[j]; u > -support && u < support {
				cuts = append(cuts, u)
			}
		}
		cuts = append(cuts, support)

		var sum dual.Number
		for s := 1; s < len(cuts); s++ {
			res, err := e.Integrate(f, cuts[s-1], cuts[s])
			if err != nil {
				return nil, fmt.Errorf("quad: convolution at grid point %d (x = %g): %w", i, x, err)
			}
			sum = dual.Add(sum, res.Value)
		}
		out[i] = sum
	}
	return out, nil
}
