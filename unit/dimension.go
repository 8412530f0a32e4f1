package unit

import (
	"fmt"
	"strings"
)

// Dimension is a physical dimension expressed as integer exponents over the
// SI base dimensions used in scattering physics. The zero value is
// dimensionless.
type Dimension struct {
	Length      int8 `json:"length"`
	Mass        int8 `json:"mass"`
	Time        int8 `json:"time"`
	Current     int8 `json:"current"`
	Temperature int8 `json:"temperature"`
}

// Common dimensions.
var (
	Dimensionless     = Dimension{}
	DimLength         = Dimension{Length: 1}
	DimMass           = Dimension{Mass: 1}
	DimTime           = Dimension{Time: 1}
	DimTemperature    = Dimension{Temperature: 1}
	DimFrequency      = Dimension{Time: -1}
	DimVelocity       = Dimension{Length: 1, Time: -1}
	DimInverseLength  = Dimension{Length: -1}
	DimNumberDensity  = Dimension{Length: -3}
	DimEnergy         = Dimension{Length: 2, Mass: 1, Time: -2}
	DimInverseEnergy  = Dimension{Length: -2, Mass: -1, Time: 2}
	DimMomentum       = Dimension{Length: 1, Mass: 1, Time: -1}
)

// Mul returns the dimension of a product.
func (d Dimension) Mul(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length + o.Length,
		Mass:        d.Mass + o.Mass,
		Time:        d.Time + o.Time,
		Current:     d.Current + o.Current,
		Temperature: d.Temperature + o.Temperature,
	}
}

// Div returns the dimension of a quotient.
func (d Dimension) Div(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length - o.Length,
		Mass:        d.Mass - o.Mass,
		Time:        d.Time - o.Time,
		Current:     d.Current - o.Current,
		Temperature: d.Temperature - o.Temperature,
	}
}

// Pow returns the dimension raised to an integer power.
func (d Dimension) Pow(n int) Dimension {
	m := int8(n)
	return Dimension{
		Length:      d.Length * m,
		Mass:        d.Mass * m,
		Time:        d.Time * m,
		Current:     d.Current * m,
		Temperature: d.Temperature * m,
	}
}

// IsDimensionless reports whether all exponents are zero.
func (d Dimension) IsDimensionless() bool {
	return d == Dimension{}
}

// String returns a compact form like "L^2 M T^-2".
// The dimensionless dimension renders as "1".
func (d Dimension) String() string {
	if d.IsDimensionless() {
		return "1"
	}
	parts := make([]string, 0, 5)
	for _, e := range []struct {
		sym string
		exp int8
	}{
		{"L", d.Length},
		{"M", d.Mass},
		{"T", d.Time},
		{"I", d.Current},
		{"Θ", d.Temperature},
	} {
		switch e.exp {
		case 0:
		case 1:
			parts = append(parts, e.sym)
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", e.sym, e.exp))
		}
	}
	return strings.Join(parts, " ")
}
