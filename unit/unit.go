package unit

// A Unit names a scale of some dimension relative to coherent SI.
// Factor is the exact multiplier that converts a value expressed in this
// unit into SI (e.g. Electronvolt.Factor is the 2019 SI-exact elementary
// charge in joules).
type Unit struct {
	Name   string
	Dim    Dimension
	Factor float64
}

// Energy units.
var (
	Joule            = Unit{Name: "J", Dim: DimEnergy, Factor: 1}
	Electronvolt     = Unit{Name: "eV", Dim: DimEnergy, Factor: 1.602176634e-19}
	Kiloelectronvolt = Unit{Name: "keV", Dim: DimEnergy, Factor: 1.602176634e-16}
)

// Inverse-energy units (spectral densities per unit energy).
var (
	PerJoule        = Unit{Name: "1/J", Dim: DimInverseEnergy, Factor: 1}
	PerElectronvolt = Unit{Name: "1/eV", Dim: DimInverseEnergy, Factor: 1 / 1.602176634e-19}
)

// Length and inverse-length units.
var (
	Meter           = Unit{Name: "m", Dim: DimLength, Factor: 1}
	Centimeter      = Unit{Name: "cm", Dim: DimLength, Factor: 1e-2}
	Angstrom        = Unit{Name: "Å", Dim: DimLength, Factor: 1e-10}
	InverseMeter    = Unit{Name: "1/m", Dim: DimInverseLength, Factor: 1}
	InverseAngstrom = Unit{Name: "1/Å", Dim: DimInverseLength, Factor: 1e10}
)

// Number-density units.
var (
	PerCubicMeter      = Unit{Name: "1/m³", Dim: DimNumberDensity, Factor: 1}
	PerCubicCentimeter = Unit{Name: "1/cm³", Dim: DimNumberDensity, Factor: 1e6}
)

// Temperature, time, mass and dimensionless units.
var (
	Kelvin           = Unit{Name: "K", Dim: DimTemperature, Factor: 1}
	Second           = Unit{Name: "s", Dim: DimTime, Factor: 1}
	Femtosecond      = Unit{Name: "fs", Dim: DimTime, Factor: 1e-15}
	Hertz            = Unit{Name: "Hz", Dim: DimFrequency, Factor: 1}
	Kilogram         = Unit{Name: "kg", Dim: DimMass, Factor: 1}
	AtomicMassUnit   = Unit{Name: "u", Dim: DimMass, Factor: 1.66053906660e-27}
	MeterPerSecond   = Unit{Name: "m/s", Dim: DimVelocity, Factor: 1}
	One              = Unit{Name: "1", Dim: Dimensionless, Factor: 1}
)
