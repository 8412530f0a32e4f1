package xrts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xrts-go/xrts/unit"
	"gonum.org/v1/gonum/num/dual"
)

func TestSlotString(t *testing.T) {
	tests := []struct {
		s    Slot
		want string
	}{
		{SlotFreeFree, "free-free"},
		{SlotBoundFree, "bound-free"},
		{SlotElastic, "elastic"},
		{Slot(0), "Slot(0)"},
		{Slot(4), "Slot(4)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Slot(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestSlotTextRoundTrip(t *testing.T) {
	for _, s := range []Slot{SlotFreeFree, SlotBoundFree, SlotElastic} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var got Slot
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if got != s {
			t.Errorf("round-trip: got %v, want %v", got, s)
		}
	}

	var s Slot
	if err := s.UnmarshalText([]byte("unknown")); err == nil {
		t.Error("UnmarshalText(unknown) should return error")
	}
	if _, err := Slot(0).MarshalText(); err == nil {
		t.Error("MarshalText(Slot(0)) should return error")
	}
}

func TestNewRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		slot Slot
		want []string
	}{
		{SlotFreeFree, []string{"impulse-gaussian", "salpeter"}},
		{SlotBoundFree, []string{"none", "schumacher-impulse", "schumacher-impulse-hr"}},
		{SlotElastic, []string{"debye-hueckel", "none"}},
	}
	for _, tt := range tests {
		got := r.Variants(tt.slot)
		if len(got) != len(tt.want) {
			t.Fatalf("Variants(%s) = %v, want %v", tt.slot, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Variants(%s) = %v, want %v", tt.slot, got, tt.want)
				break
			}
		}
	}
}

func TestRegistrySelectUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Select(SlotFreeFree, "born-mermin")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("Select error = %v, want ErrUnknownVariant", err)
	}
	// The error names the available variants.
	if msg := err.Error(); !strings.Contains(msg, "salpeter") {
		t.Errorf("error %q does not list available variants", msg)
	}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(SlotFreeFree, salpeterModel{}); err == nil {
		t.Error("registering a duplicate variant should return error")
	}
	if err := r.Register(Slot(9), salpeterModel{}); err == nil {
		t.Error("registering under an invalid slot should return error")
	}
}

// constModel is a trivial custom variant used to test extension and
// substitutability.
type constModel struct{ level float64 }

func (c constModel) Name() string         { return "const" }
func (c constModel) Differentiable() bool { return true }

func (c constModel) Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error) {
	data := make([]dual.Number, grid.Len())
	for i := range data {
		data[i] = dual.Number{Real: c.level}
	}
	return unit.Reattach(data, unit.DimInverseEnergy), nil
}

func TestRegistryCustomVariant(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(SlotFreeFree, constModel{level: 1}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	m, err := r.Select(SlotFreeFree, "const")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if m.Name() != "const" {
		t.Errorf("Name() = %q, want %q", m.Name(), "const")
	}
}

// Variants registered under the same slot must be interchangeable: identical
// inputs produce quantities of identical shape and dimension.
func TestSlotSubstitutability(t *testing.T) {
	state := testBeryllium(t)
	geom := testGeometry(t)
	grid := testGrid(t, -150, 150, 61)
	r := NewRegistry()

	for _, slot := range []Slot{SlotFreeFree, SlotBoundFree, SlotElastic} {
		var wantLen int
		var wantDim unit.Dimension
		for i, name := range r.Variants(slot) {
			m, err := r.Select(slot, name)
			if err != nil {
				t.Fatalf("Select(%s, %s): %v", slot, name, err)
			}
			q, err := m.Evaluate(state, geom, grid)
			if err != nil {
				t.Fatalf("%s/%s Evaluate: %v", slot, name, err)
			}
			if i == 0 {
				wantLen, wantDim = q.Len(), q.Dim()
				continue
			}
			if q.Len() != wantLen || q.Dim() != wantDim {
				t.Errorf("%s/%s returned (len %d, dim %s), want (len %d, dim %s)",
					slot, name, q.Len(), q.Dim(), wantLen, wantDim)
			}
		}
	}
}

func TestSelectionJSONAppliesDefaults(t *testing.T) {
	data, err := json.Marshal(Selection{FreeFree: "impulse-gaussian"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := fmt.Sprintf(`{"free_free":"impulse-gaussian","bound_free":%q,"elastic":%q}`,
		DefaultSelection.BoundFree, DefaultSelection.Elastic)
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
