package sim

// GenerationRecord is an immutable snapshot of one generation: the 0-based
// generation index, every species population after that generation's update,
// and the resource level. The ordered sequence of records is the run history
// (append-only, insertion order = generation order).
type GenerationRecord struct {
	Generation  int                `json:"generation"`
	Populations map[string]float64 `json:"populations"`
	Resource    float64            `json:"resource"`
}

// snapshotRecord captures the current registry and environment state.
func snapshotRecord(gen int, reg *Registry, env *Environment) GenerationRecord {
	pops := make(map[string]float64, reg.Len())
	for _, s := range reg.All() {
		pops[s.ID] = s.Population
	}
	return GenerationRecord{Generation: gen, Populations: pops, Resource: env.Level()}
}
