package sim

// Environment tracks the shared resource pool. Resource is clamped to
// [0, MaxCapacity] at all times.
type Environment struct {
	Resource        float64
	RegenRate       float64 // Fraction of remaining headroom restored per generation
	ConsumptionRate float64 // Resource drained per unit of total prey population per generation
	MaxCapacity     float64
}

// NewEnvironment creates an environment with the initial resource clamped
// into [0, maxCapacity].
func NewEnvironment(initial, regenRate, consumptionRate, maxCapacity float64) *Environment {
	e := &Environment{
		RegenRate:       regenRate,
		ConsumptionRate: consumptionRate,
		MaxCapacity:     maxCapacity,
	}
	e.Resource = clamp(initial, 0, maxCapacity)
	return e
}

// Consume subtracts amount from the resource level, clamped at 0.
func (e *Environment) Consume(amount float64) {
	if amount <= 0 {
		return
	}
	e.Resource -= amount
	if e.Resource < 0 {
		e.Resource = 0
	}
}

// Regenerate restores resource toward MaxCapacity by RegenRate of the
// remaining headroom. Never exceeds capacity.
func (e *Environment) Regenerate() {
	e.Resource += e.RegenRate * (e.MaxCapacity - e.Resource)
	e.Resource = clamp(e.Resource, 0, e.MaxCapacity)
}

// Level returns the current resource level.
func (e *Environment) Level() float64 {
	return e.Resource
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
