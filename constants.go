package xrts

// Physical constants in coherent SI (CODATA 2018; defined values are exact).
const (
	SpeedOfLight     = 299792458.0      // m/s
	ElementaryCharge = 1.602176634e-19  // C
	PlanckBar        = 1.054571817e-34  // J·s
	ElectronMass     = 9.1093837015e-31 // kg
	BoltzmannConst   = 1.380649e-23     // J/K
	VacuumPermit     = 8.8541878128e-12 // F/m
	BohrRadius       = 5.29177210903e-11 // m
	FineStructure    = 7.2973525693e-3
	AtomicMass       = 1.66053906660e-27 // kg
)
