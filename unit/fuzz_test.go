package unit

import (
	"math"
	"testing"
)

// FuzzConversionRoundTrip checks that converting a finite value through a
// compatible unit pair and back reproduces it within float rounding.
func FuzzConversionRoundTrip(f *testing.F) {
	f.Add(10.0, 0)
	f.Add(-57.3, 1)
	f.Add(1e29, 2)
	f.Add(0.0, 3)

	pairs := [][2]Unit{
		{Electronvolt, Joule},
		{Kiloelectronvolt, Electronvolt},
		{Angstrom, Meter},
		{PerCubicCentimeter, PerCubicMeter},
	}

	f.Fuzz(func(t *testing.T, v float64, pick int) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Skip()
		}
		p := pairs[((pick%len(pairs))+len(pairs))%len(pairs)]
		q := Scalar(v, p[0])
		mid, err := q.Values(p[1])
		if err != nil {
			t.Fatalf("Values(%s): %v", p[1].Name, err)
		}
		back, err := Scalar(mid[0], p[1]).Values(p[0])
		if err != nil {
			t.Fatalf("Values(%s): %v", p[0].Name, err)
		}
		tol := 1e-12 * math.Max(math.Abs(v), 1)
		if math.Abs(back[0]-v) > tol {
			t.Errorf("round trip %v via %s: got %v", v, p[1].Name, back[0])
		}
	})
}
