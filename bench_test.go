package xrts_test

import (
	"testing"

	"github.com/xrts-go/xrts"
	"github.com/xrts-go/xrts/unit"
)

func benchState(b *testing.B) *xrts.PlasmaState {
	b.Helper()
	be := xrts.BareIon("Be", 9.0122, 2)
	be.Shells = []xrts.Shell{xrts.KShell(2, 3.68, 111.5)}
	state, err := xrts.NewPlasmaState(xrts.PlasmaStateConfig{
		ElectronDensity:     unit.Scalar(1e29, unit.PerCubicMeter),
		ElectronTemperature: xrts.TemperatureFromEV(10),
		Ions:                []xrts.IonSpecies{be},
	})
	if err != nil {
		b.Fatal(err)
	}
	return state
}

// BenchmarkSynthesize measures one forward evaluation on a 500-point grid
// without instrument broadening.
func BenchmarkSynthesize(b *testing.B) {
	s, err := xrts.NewSynthesizer(xrts.SynthesizerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	state := benchState(b)
	geom, err := xrts.NewGeometry(4750, 120)
	if err != nil {
		b.Fatal(err)
	}
	grid, err := xrts.LinearEnergyGrid(-200, 400, 500, unit.Electronvolt)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Synthesize(state, geom, grid); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGradient measures a full four-parameter gradient, which costs one
// extra seeded forward pass per parameter.
func BenchmarkGradient(b *testing.B) {
	s, err := xrts.NewSynthesizer(xrts.SynthesizerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	state := benchState(b)
	geom, err := xrts.NewGeometry(4750, 120)
	if err != nil {
		b.Fatal(err)
	}
	grid, err := xrts.LinearEnergyGrid(-200, 400, 200, unit.Electronvolt)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Gradient(state, geom, grid); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSynthesizeBroadened measures a forward evaluation including the
// adaptive convolution with a Gaussian instrument response.
func BenchmarkSynthesizeBroadened(b *testing.B) {
	resp, err := xrts.NewGaussianInstrument(unit.Scalar(8, unit.Electronvolt))
	if err != nil {
		b.Fatal(err)
	}
	s, err := xrts.NewSynthesizer(xrts.SynthesizerConfig{Response: resp})
	if err != nil {
		b.Fatal(err)
	}
	state := benchState(b)
	geom, err := xrts.NewGeometry(4750, 120)
	if err != nil {
		b.Fatal(err)
	}
	grid, err := xrts.LinearEnergyGrid(-200, 400, 200, unit.Electronvolt)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Synthesize(state, geom, grid); err != nil {
			b.Fatal(err)
		}
	}
}
