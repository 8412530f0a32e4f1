// Package xrts computes X-ray Thomson scattering spectra of warm dense
// matter and fits plasma parameters against measured spectra.
//
// xrts provides a pure-Go differentiable forward model: a plasma state and
// instrument geometry go in, a unit-tagged scattering spectrum (dynamic
// structure factor convolved with the instrument response) comes out. The
// xrts/fit subpackage performs gradient-based parameter fitting on top of
// the same pipeline.
//
// Basic usage:
//
//	state, err := xrts.NewPlasmaState(xrts.PlasmaStateConfig{
//	    ElectronDensity:     unit.Scalar(1e29, unit.PerCubicMeter),
//	    ElectronTemperature: xrts.TemperatureFromEV(10),
//	    Ions:                []xrts.IonSpecies{xrts.BareIon("Be", 9.012, 2)},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	geom, err := xrts.NewGeometry(4750, 120)
//	synth, err := xrts.NewSynthesizer(xrts.SynthesizerConfig{})
//	grid, err := xrts.LinearEnergyGrid(-100, 100, 500, unit.Electronvolt)
//	spec, err := synth.Synthesize(state, geom, grid)
package xrts
