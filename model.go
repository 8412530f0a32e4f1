package xrts

import (
	"encoding"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xrts-go/xrts/unit"
)

// Slot identifies one sub-model position in the Chihara decomposition of
// the scattering spectrum. Each slot holds interchangeable variants sharing
// a single evaluation contract.
type Slot int

const (
	SlotFreeFree  Slot = iota + 1 // free-electron (inelastic) feature
	SlotBoundFree                 // bound-free (Compton) feature
	SlotElastic                   // elastic (Rayleigh) ion feature
)

var (
	slotNames = [...]string{SlotFreeFree: "free-free", SlotBoundFree: "bound-free", SlotElastic: "elastic"}
	slotByName = map[string]Slot{
		"free-free":  SlotFreeFree,
		"bound-free": SlotBoundFree,
		"elastic":    SlotElastic,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Slot(0)
	_ encoding.TextMarshaler   = Slot(0)
	_ encoding.TextUnmarshaler = (*Slot)(nil)
)

func (s Slot) isValid() bool {
	return s >= SlotFreeFree && s <= SlotElastic
}

// String returns the slot name ("free-free", "bound-free", "elastic").
// For invalid values it returns "Slot(n)".
func (s Slot) String() string {
	if s.isValid() {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Slot) MarshalText() ([]byte, error) {
	if !s.isValid() {
		return nil, fmt.Errorf("xrts: invalid slot: %d", int(s))
	}
	return []byte(slotNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(text []byte) error {
	v, ok := slotByName[string(text)]
	if !ok {
		return fmt.Errorf("xrts: invalid slot: %q", text)
	}
	*s = v
	return nil
}

// Model is one variant of a sub-model. All variants registered under the
// same slot must return quantities of identical shape and dimension for
// identical inputs, so they can be swapped without touching the pipeline:
//
//   - free-free and bound-free variants return a grid-shaped spectral
//     density of dimension inverse energy, normalized per electron;
//   - elastic variants return a scalar dimensionless Rayleigh weight.
//
// Differentiable reports whether Evaluate supports forward-mode parameter
// derivatives; variants containing hard parameter branches must return
// false and are rejected by the gradient path.
type Model interface {
	Name() string
	Differentiable() bool
	Evaluate(state *PlasmaState, geom Geometry, grid EnergyGrid) (unit.Quantity, error)
}

// Registry maps slots to their registered model variants. The zero value is
// unusable; create with NewRegistry, which installs the built-in variants.
type Registry struct {
	models map[Slot]map[string]Model
}

// NewRegistry returns a registry populated with the built-in variants:
//
//	free-free:  "salpeter", "impulse-gaussian"
//	bound-free: "schumacher-impulse", "schumacher-impulse-hr", "none"
//	elastic:    "debye-hueckel", "none"
func NewRegistry() *Registry {
	r := &Registry{models: make(map[Slot]map[string]Model)}
	for _, m := range []struct {
		slot Slot
		m    Model
	}{
		{SlotFreeFree, salpeterModel{}},
		{SlotFreeFree, impulseGaussianModel{}},
		{SlotBoundFree, schumacherModel{hr: false, name: "schumacher-impulse"}},
		{SlotBoundFree, schumacherModel{hr: true, name: "schumacher-impulse-hr"}},
		{SlotBoundFree, noneBoundFreeModel{}},
		{SlotElastic, debyeHueckelModel{}},
		{SlotElastic, noneElasticModel{}},
	} {
		// Built-ins are known-good; ignore the duplicate check.
		_ = r.Register(m.slot, m.m)
	}
	return r
}

// Register adds a model variant to a slot. Registering a duplicate name or
// an invalid slot is an error.
func (r *Registry) Register(slot Slot, m Model) error {
	if !slot.isValid() {
		return fmt.Errorf("xrts: invalid slot: %d", int(slot))
	}
	if m == nil || m.Name() == "" {
		return fmt.Errorf("xrts: model must be non-nil with a non-empty name")
	}
	variants, ok := r.models[slot]
	if !ok {
		variants = make(map[string]Model)
		r.models[slot] = variants
	}
	if _, exists := variants[m.Name()]; exists {
		return fmt.Errorf("xrts: variant %q already registered for slot %s", m.Name(), slot)
	}
	variants[m.Name()] = m
	return nil
}

// Select returns the variant registered under the given slot and name.
// Fails with ErrUnknownVariant, listing the available variants.
func (r *Registry) Select(slot Slot, name string) (Model, error) {
	m, ok := r.models[slot][name]
	if !ok {
		return nil, fmt.Errorf("%w: %q for slot %s (available: %s)",
			ErrUnknownVariant, name, slot, strings.Join(r.Variants(slot), ", "))
	}
	return m, nil
}

// Variants returns the sorted names registered for a slot.
func (r *Registry) Variants(slot Slot) []string {
	names := make([]string, 0, len(r.models[slot]))
	for name := range r.models[slot] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Selection names one variant per slot. Zero-valued fields fall back to the
// defaults in DefaultSelection.
type Selection struct {
	FreeFree  string `json:"free_free"`
	BoundFree string `json:"bound_free"`
	Elastic   string `json:"elastic"`
}

// DefaultSelection is the variant set used for zero-valued Selection fields.
var DefaultSelection = Selection{
	FreeFree:  "salpeter",
	BoundFree: "schumacher-impulse",
	Elastic:   "debye-hueckel",
}

// withDefaults fills zero-valued fields from DefaultSelection.
func (s Selection) withDefaults() Selection {
	if s.FreeFree == "" {
		s.FreeFree = DefaultSelection.FreeFree
	}
	if s.BoundFree == "" {
		s.BoundFree = DefaultSelection.BoundFree
	}
	if s.Elastic == "" {
		s.Elastic = DefaultSelection.Elastic
	}
	return s
}

// MarshalJSON implements json.Marshaler with defaults applied, so a
// serialized selection is always explicit.
func (s Selection) MarshalJSON() ([]byte, error) {
	type plain Selection
	return json.Marshal(plain(s.withDefaults()))
}
