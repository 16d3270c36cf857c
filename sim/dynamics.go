package sim

import "sort"

// Deltas is the engine's output for one generation: population changes per
// species and the resource amount consumed by prey. The driver applies all
// of it together.
type Deltas struct {
	Populations map[string]float64
	Consumption float64
}

// Engine is the state-transition function. It has no hidden state: every
// output is derived from the generation-N snapshot it is handed, which makes
// a step replayable and testable in isolation.
type Engine struct {
	model GrowthModel
}

// NewEngine creates an engine using the given growth model for prey.
func NewEngine(model GrowthModel) *Engine {
	return &Engine{model: model}
}

// Step computes the next generation's deltas from the current registry and
// environment state. All deltas are computed from the same snapshot; nothing
// is applied here, so partially-updated values can never leak into the math.
//
// Interaction sums iterate the registry in registration order, never the
// interaction maps, so runs are byte-identical across repetitions.
func (e *Engine) Step(reg *Registry, env *Environment) (Deltas, error) {
	d := Deltas{Populations: make(map[string]float64, reg.Len())}

	for _, s := range reg.All() {
		if err := checkInteractions(reg, s); err != nil {
			return Deltas{}, err
		}

		if s.Extinct {
			d.Populations[s.ID] = 0
			continue
		}

		switch s.Role {
		case RolePrey:
			rf := resourceFactor(env.Level(), s.ResourceRequirement)
			delta := s.GrowthRate * e.model.ComputeDelta(s.Population, s.CarryingCapacity, rf)

			// Mass-action predation loss: scales with both densities.
			for _, p := range reg.All() {
				coeff, ok := s.Interactions[p.ID]
				if !ok || p.Extinct {
					continue
				}
				delta -= coeff * s.Population * p.Population
			}

			d.Populations[s.ID] = delta
			d.Consumption += s.Population * env.ConsumptionRate

		case RolePredator:
			var gain float64
			for _, q := range reg.All() {
				coeff, ok := s.Interactions[q.ID]
				if !ok || q.Extinct {
					continue
				}
				gain += coeff * q.Population * s.Population
			}
			d.Populations[s.ID] = s.ConversionEfficiency*gain - s.DeathRate*s.Population
		}
	}

	return d, nil
}

// checkInteractions verifies that every declared interaction resolves to a
// registered species. An incomplete table is a configuration bug, never
// silently defaulted.
func checkInteractions(reg *Registry, s *Species) error {
	matched := 0
	for _, other := range reg.All() {
		if _, ok := s.Interactions[other.ID]; ok {
			matched++
		}
	}
	if matched != len(s.Interactions) {
		err := &ConfigError{}
		for _, id := range sortedKeys(s.Interactions) {
			if !reg.Has(id) {
				err.Add("species " + s.ID + ": interaction references unknown species " + id)
			}
		}
		return err
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resourceFactor is min(1, level/requirement); 1 when there is no
// requirement. A zero resource level with a positive requirement yields 0,
// shutting off growth entirely.
func resourceFactor(level, requirement float64) float64 {
	if requirement <= 0 {
		return 1
	}
	f := level / requirement
	if f > 1 {
		return 1
	}
	return f
}
