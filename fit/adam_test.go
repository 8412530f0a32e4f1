package fit

import (
	"math"
	"testing"
)

func TestAdamConvergesOnQuadratic(t *testing.T) {
	// Minimize f(w) = Σ (w[i] - target[i])².
	target := []float64{3, -2}
	w := []float64{0, 0}
	adam := NewAdam(2, 0.1)
	grad := make([]float64, 2)

	for iter := 0; iter < 2000; iter++ {
		for i := range w {
			grad[i] = 2 * (w[i] - target[i])
		}
		adam.Update(w, grad)
	}
	for i := range w {
		if math.Abs(w[i]-target[i]) > 1e-3 {
			t.Errorf("w[%d] = %g, want %g", i, w[i], target[i])
		}
	}
}

func TestAdamSkipsZeroGradient(t *testing.T) {
	w := []float64{1, 1}
	adam := NewAdam(2, 0.5)
	adam.Update(w, []float64{0, 1})
	if w[0] != 1 {
		t.Errorf("w[0] = %g changed despite zero gradient", w[0])
	}
	if w[1] == 1 {
		t.Error("w[1] unchanged despite nonzero gradient")
	}
}

func TestCosineAnnealing(t *testing.T) {
	ca := NewCosineAnnealing(0.1, 0.001, 100)
	if got := ca.LR(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("initial LR = %g, want 0.1", got)
	}

	prev := ca.LR()
	for i := 0; i < 100; i++ {
		lr := ca.Step()
		if lr > prev {
			t.Fatalf("LR increased from %g to %g at step %d", prev, lr, i+1)
		}
		if lr < 0.001-1e-12 {
			t.Fatalf("LR = %g fell below the floor at step %d", lr, i+1)
		}
		prev = lr
	}
	if math.Abs(prev-0.001) > 1e-12 {
		t.Errorf("final LR = %g, want the floor 0.001", prev)
	}
}

func TestCosineAnnealingZeroFloor(t *testing.T) {
	ca := NewCosineAnnealing(0.2, 0, 10)
	for i := 0; i < 10; i++ {
		ca.Step()
	}
	if got := ca.LR(); math.Abs(got) > 1e-12 {
		t.Errorf("final LR = %g, want 0", got)
	}
}
