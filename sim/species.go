// Package sim implements the EcoLens core: the species registry, the
// environment resource pool, the per-generation dynamics engine, and the
// driver that owns the generation loop.
package sim

import "fmt"

// Role classifies a species as prey or predator.
type Role string

const (
	RolePrey     Role = "prey"
	RolePredator Role = "predator"
)

// Species holds the static parameters and current population of one species.
// Population is continuous biomass; fractional values are valid.
type Species struct {
	ID   string
	Role Role

	Population float64 // Current population, always >= 0
	Extinct    bool    // Set when population reaches 0; absorbing

	GrowthRate          float64 // Intrinsic growth rate (prey)
	CarryingCapacity    float64 // Max sustainable population absent predation (prey)
	ResourceRequirement float64 // Resource level at which growth is unconstrained (prey, 0 = no requirement)

	ConversionEfficiency float64 // Fraction of predation converted to predator growth (predator)
	DeathRate            float64 // Geometric decline rate absent prey (predator)

	// Interactions maps the id of each interacting species to a mass-action
	// coefficient. On a prey: keyed by predator id, loss rate. On a
	// predator: keyed by prey id, gain rate.
	Interactions map[string]float64
}

// Registry holds species in registration order. The engine iterates the
// registry order everywhere, which keeps runs deterministic.
type Registry struct {
	order []*Species
	byID  map[string]*Species
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Species)}
}

// Add registers a species. Duplicate ids are rejected.
func (r *Registry) Add(s *Species) error {
	if s.ID == "" {
		return fmt.Errorf("species id is required")
	}
	if _, ok := r.byID[s.ID]; ok {
		return fmt.Errorf("duplicate species id %q", s.ID)
	}
	r.order = append(r.order, s)
	r.byID[s.ID] = s
	return nil
}

// Get returns the species with the given id, or wraps ErrNotFound.
func (r *Registry) Get(id string) (*Species, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return s, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns all species in registration order.
func (r *Registry) All() []*Species {
	return r.order
}

// Len returns the number of registered species.
func (r *Registry) Len() int {
	return len(r.order)
}

// SetPopulation sets a species population, clamping to >= 0. A population
// that reaches 0 marks the species extinct; extinction is absorbing, so an
// extinct species stays at 0 regardless of later values.
func (r *Registry) SetPopulation(id string, v float64) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	if s.Extinct {
		s.Population = 0
		return nil
	}
	if v <= 0 {
		s.Population = 0
		s.Extinct = true
		return nil
	}
	s.Population = v
	return nil
}
