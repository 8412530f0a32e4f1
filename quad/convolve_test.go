package quad

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/num/dual"
)

// gaussKernel returns a normalized Gaussian kernel with the given sigma.
func gaussKernel(sigma float64) Kernel {
	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	return func(dx float64) dual.Number {
		return dual.Scale(norm, dual.Exp(dual.Number{Real: -dx * dx / (2 * sigma * sigma)}))
	}
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func TestConvolveConstant(t *testing.T) {
	// A constant convolved with a unit-area kernel stays constant away
	// from the grid edges.
	e := mustEngine(t, Config{})
	grid := linspace(-10, 10, 201)
	values := make([]dual.Number, len(grid))
	for i := range values {
		values[i] = dual.Number{Real: 3}
	}
	out, err := e.Convolve(grid, values, gaussKernel(0.5), 4)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	for i, x := range grid {
		if x < -5 || x > 5 {
			continue // edge region, interpolant truncated to zero
		}
		if math.Abs(out[i].Real-3) > 1e-6 {
			t.Errorf("convolved constant at x=%g: %v, want 3", x, out[i].Real)
		}
	}
}

func TestConvolveBroadensPeak(t *testing.T) {
	// A narrow triangle convolved with a Gaussian spreads out but keeps
	// its area.
	e := mustEngine(t, Config{})
	grid := linspace(-10, 10, 401)
	h := grid[1] - grid[0]
	values := make([]dual.Number, len(grid))
	for i, x := range grid {
		if math.Abs(x) < h {
			values[i] = dual.Number{Real: (1 - math.Abs(x)/h) / h} // unit-area triangle
		}
	}
	sigma := 1.0
	out, err := e.Convolve(grid, values, gaussKernel(sigma), 6*sigma)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	// Area by trapezoid.
	var area float64
	for i := 1; i < len(out); i++ {
		area += 0.5 * (out[i].Real + out[i-1].Real) * h
	}
	if math.Abs(area-1) > 1e-3 {
		t.Errorf("broadened area = %v, want 1", area)
	}

	// Peak height should be close to the Gaussian's.
	var peak float64
	for _, v := range out {
		peak = math.Max(peak, v.Real)
	}
	want := 1 / (sigma * math.Sqrt(2*math.Pi))
	if math.Abs(peak-want) > 0.05*want {
		t.Errorf("broadened peak = %v, want ≈ %v", peak, want)
	}
}

func TestConvolvePreservesNarrowFeatureArea(t *testing.T) {
	// A spike one grid step wide, off-center and far narrower than the
	// kernel support, must keep its area. Without panels cut at the sample
	// knots the initial Gauss nodes straddle the spike and the refinement
	// never sees it.
	e := mustEngine(t, Config{})
	grid := linspace(-10, 10, 401)
	h := grid[1] - grid[0]
	values := make([]dual.Number, len(grid))
	values[250] = dual.Number{Real: 1 / h} // unit-area triangle at x = 2.5
	out, err := e.Convolve(grid, values, gaussKernel(1.5), 9)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	var area float64
	for i := 1; i < len(out); i++ {
		area += 0.5 * (out[i].Real + out[i-1].Real) * h
	}
	if math.Abs(area-1) > 1e-3 {
		t.Errorf("broadened area = %v, want 1", area)
	}

	// The broadened maximum sits at the spike position.
	argmax := 0
	for i, v := range out {
		if v.Real > out[argmax].Real {
			argmax = i
		}
	}
	if math.Abs(grid[argmax]-2.5) > h {
		t.Errorf("broadened peak at x = %g, want 2.5", grid[argmax])
	}
}

func TestConvolvePropagatesDerivatives(t *testing.T) {
	// Values scaled by a seeded parameter: the convolution is linear, so
	// the derivative of the output equals the convolution of the
	// derivative.
	e := mustEngine(t, Config{})
	grid := linspace(-5, 5, 101)
	a := dual.Number{Real: 2, Emag: 1}
	values := make([]dual.Number, len(grid))
	for i, x := range grid {
		values[i] = dual.Scale(math.Exp(-x*x), a) // a·exp(-x²)
	}
	out, err := e.Convolve(grid, values, gaussKernel(0.3), 2)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	mid := len(out) / 2
	if out[mid].Real == 0 {
		t.Fatal("zero convolved value at center")
	}
	// out = a·(exp(-x²) ⊛ kernel) ⇒ d(out)/da = out/a.
	want := out[mid].Real / 2
	if math.Abs(out[mid].Emag-want) > 1e-9*math.Abs(want) {
		t.Errorf("d(out)/da = %v, want %v", out[mid].Emag, want)
	}
}

func TestConvolveInputValidation(t *testing.T) {
	e := mustEngine(t, Config{})
	k := gaussKernel(1)
	grid := linspace(0, 1, 5)
	vals := make([]dual.Number, 5)

	if _, err := e.Convolve(grid, vals[:4], k, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("length mismatch: err = %v, want ErrInvalidInput", err)
	}
	if _, err := e.Convolve(grid[:1], vals[:1], k, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("single point: err = %v, want ErrInvalidInput", err)
	}
	if _, err := e.Convolve(grid, vals, k, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero support: err = %v, want ErrInvalidInput", err)
	}
	bad := []float64{0, 1, 1, 2, 3}
	if _, err := e.Convolve(bad, vals, k, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("non-increasing grid: err = %v, want ErrInvalidInput", err)
	}
}
