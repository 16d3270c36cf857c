package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/pthm-cable/ecolens/config"
)

// State is the driver's lifecycle state. Terminal states are final.
type State string

const (
	Idle        State = "idle"
	Running     State = "running"
	Completed   State = "completed"
	HaltedEarly State = "halted_early"
)

// Halt reasons reported in Result.Reason for early stops.
const (
	ReasonPredatorExtinction = "all_predators_extinct"
	ReasonResourceExhausted  = "resource_exhausted"
	ReasonCanceled           = "canceled"
)

// Result is the terminal summary of a run.
type Result struct {
	State            State
	HaltGeneration   int // Generation index at which the run halted; -1 when completed
	Reason           string
	Generations      int // Number of generations actually recorded
	FinalPopulations map[string]float64
	FinalResource    float64
}

// Driver owns the generation loop. It exclusively owns and mutates the
// registry and environment for the run's duration; the engine only ever sees
// read-only snapshots and returns deltas.
type Driver struct {
	cfg      *config.Config
	registry *Registry
	env      *Environment
	engine   *Engine

	state   State
	history []GenerationRecord

	hasPredators    bool
	zeroResourceRun int
	haltGen         int
	haltReason      string
}

// NewDriver validates the configuration and builds a driver in the Idle
// state. Validation failures are returned as a *ConfigError and no run can
// start; NotFound lookups during validation are folded into that error.
func NewDriver(cfg *config.Config) (*Driver, error) {
	cerr := &ConfigError{}

	if len(cfg.Species) == 0 {
		cerr.Add("at least one species is required")
	}
	if cfg.Run.Generations <= 0 {
		cerr.Add(fmt.Sprintf("generation count must be positive, got %d", cfg.Run.Generations))
	}

	model, err := ModelByName(cfg.Run.GrowthModel, cfg.Run.CustomRule)
	if err != nil {
		cerr.Add(err.Error())
	}

	env := cfg.Environment
	if env.MaxCapacity <= 0 {
		cerr.Add("environment max_capacity must be positive")
	}
	if env.InitialResource < 0 {
		cerr.Add("environment initial_resource must be non-negative")
	}
	if env.ConsumptionRate < 0 {
		cerr.Add("environment consumption_rate must be non-negative")
	}
	if env.RegenRate < 0 || env.RegenRate > 1 {
		cerr.Add("environment regen_rate must be in [0, 1]")
	}
	if cfg.EarlyStop.ResourceZeroGenerations < 0 {
		cerr.Add("early_stop resource_zero_generations must be non-negative")
	}

	registry := NewRegistry()
	hasPredators := false
	for _, sc := range cfg.Species {
		role := Role(sc.Role)
		if role != RolePrey && role != RolePredator {
			cerr.Add(fmt.Sprintf("species %s: unknown role %q", sc.ID, sc.Role))
		}
		if role == RolePredator {
			hasPredators = true
		}
		if sc.InitialPopulation < 0 {
			cerr.Add(fmt.Sprintf("species %s: initial_population must be non-negative", sc.ID))
		}
		if role == RolePrey && cfg.Run.GrowthModel == ModelLogistic && sc.CarryingCapacity <= 0 {
			cerr.Add(fmt.Sprintf("species %s: carrying_capacity must be positive under the logistic model", sc.ID))
		}
		if sc.ResourceRequirement < 0 {
			cerr.Add(fmt.Sprintf("species %s: resource_requirement must be non-negative", sc.ID))
		}

		s := &Species{
			ID:                   sc.ID,
			Role:                 role,
			Population:           sc.InitialPopulation,
			GrowthRate:           sc.GrowthRate,
			CarryingCapacity:     sc.CarryingCapacity,
			ResourceRequirement:  sc.ResourceRequirement,
			ConversionEfficiency: sc.ConversionEfficiency,
			DeathRate:            sc.DeathRate,
			Interactions:         sc.Interactions,
		}
		if s.Population == 0 {
			s.Extinct = true
		}
		if err := registry.Add(s); err != nil {
			cerr.Add(err.Error())
		}
	}

	validateInteractions(registry, cerr)

	if cerr.HasIssues() {
		return nil, cerr
	}

	return &Driver{
		cfg:      cfg,
		registry: registry,
		env: NewEnvironment(env.InitialResource, env.RegenRate,
			env.ConsumptionRate, env.MaxCapacity),
		engine:       NewEngine(model),
		state:        Idle,
		hasPredators: hasPredators,
		haltGen:      -1,
	}, nil
}

// validateInteractions checks interaction table closure: every referenced id
// must exist, roles must be complementary, and a pair declared on either
// side must be declared on both. Asymmetric tables are a configuration bug.
func validateInteractions(reg *Registry, cerr *ConfigError) {
	for _, s := range reg.All() {
		for _, other := range reg.All() {
			coeffDeclared := false
			if s.Interactions != nil {
				_, coeffDeclared = s.Interactions[other.ID]
			}
			if !coeffDeclared {
				continue
			}
			if other.Role == s.Role {
				cerr.Add(fmt.Sprintf("species %s: interaction with %s links two %s species",
					s.ID, other.ID, s.Role))
				continue
			}
			if other.Interactions == nil {
				cerr.Add(fmt.Sprintf("species %s: asymmetric interaction, %s does not declare %s",
					s.ID, other.ID, s.ID))
				continue
			}
			if _, ok := other.Interactions[s.ID]; !ok {
				cerr.Add(fmt.Sprintf("species %s: asymmetric interaction, %s does not declare %s",
					s.ID, other.ID, s.ID))
			}
		}
		// Dangling references don't show up in the registry sweep above.
		for _, id := range sortedKeys(s.Interactions) {
			if _, err := reg.Get(id); errors.Is(err, ErrNotFound) {
				cerr.Add(fmt.Sprintf("species %s: interaction references unknown species %s", s.ID, id))
			}
		}
	}
}

// Run executes the generation loop: Idle -> Running -> {Completed,
// HaltedEarly}. A driver runs exactly once. Cancellation is cooperative and
// checked once per generation; a canceled run is classified HaltedEarly and
// the context error is returned alongside the partial result.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	if d.state != Idle {
		return Result{}, fmt.Errorf("driver is %s; a driver runs exactly once", d.state)
	}
	d.state = Running

	for g := 0; g < d.cfg.Run.Generations; g++ {
		if err := ctx.Err(); err != nil {
			d.halt(g-1, ReasonCanceled)
			return d.result(), err
		}

		deltas, err := d.engine.Step(d.registry, d.env)
		if err != nil {
			// Unreachable after upfront validation; abort without history.
			d.state = Idle
			d.history = nil
			return Result{}, err
		}

		// Apply every delta from the same generation-N snapshot, then the
		// resource update: consumption before regeneration.
		for _, s := range d.registry.All() {
			if err := d.registry.SetPopulation(s.ID, s.Population+deltas.Populations[s.ID]); err != nil {
				return Result{}, err
			}
		}
		d.env.Consume(deltas.Consumption)
		d.env.Regenerate()

		d.history = append(d.history, snapshotRecord(g, d.registry, d.env))

		if reason, stop := d.evalEarlyStop(); stop {
			d.halt(g, reason)
			return d.result(), nil
		}
	}

	d.state = Completed
	return d.result(), nil
}

func (d *Driver) halt(gen int, reason string) {
	d.state = HaltedEarly
	d.haltGen = gen
	d.haltReason = reason
}

// evalEarlyStop checks the configured early-stop policy against the state
// after the latest generation.
func (d *Driver) evalEarlyStop() (string, bool) {
	if d.cfg.EarlyStop.HaltOnPredatorExtinction && d.hasPredators && d.allPredatorsExtinct() {
		return ReasonPredatorExtinction, true
	}

	if d.env.Level() == 0 {
		d.zeroResourceRun++
	} else {
		d.zeroResourceRun = 0
	}
	threshold := d.cfg.EarlyStop.ResourceZeroGenerations
	if threshold > 0 && d.zeroResourceRun >= threshold {
		return ReasonResourceExhausted, true
	}

	return "", false
}

func (d *Driver) allPredatorsExtinct() bool {
	for _, s := range d.registry.All() {
		if s.Role == RolePredator && !s.Extinct {
			return false
		}
	}
	return true
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// History returns the recorded generation sequence. Records are immutable;
// callers must treat the slice as read-only.
func (d *Driver) History() []GenerationRecord {
	return d.history
}

// SpeciesIDs returns species ids in registration order, for consumers that
// need a stable column order.
func (d *Driver) SpeciesIDs() []string {
	ids := make([]string, 0, d.registry.Len())
	for _, s := range d.registry.All() {
		ids = append(ids, s.ID)
	}
	return ids
}

func (d *Driver) result() Result {
	pops := make(map[string]float64, d.registry.Len())
	for _, s := range d.registry.All() {
		pops[s.ID] = s.Population
	}
	return Result{
		State:            d.state,
		HaltGeneration:   d.haltGen,
		Reason:           d.haltReason,
		Generations:      len(d.history),
		FinalPopulations: pops,
		FinalResource:    d.env.Level(),
	}
}
