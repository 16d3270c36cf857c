package sim

import "fmt"

// Growth model selector names.
const (
	ModelLogistic    = "logistic"
	ModelExponential = "exponential"
	ModelCustom      = "custom"
)

// GrowthModel computes the unscaled per-generation growth delta for a prey
// population. The engine multiplies the result by the species growth rate.
// resourceFactor is min(1, resource/requirement), or 1 when the species has
// no resource requirement.
type GrowthModel interface {
	ComputeDelta(population, capacity, resourceFactor float64) float64
}

// Logistic grows toward the carrying capacity and is scaled by resource
// availability, so food scarcity caps growth.
type Logistic struct{}

func (Logistic) ComputeDelta(population, capacity, resourceFactor float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return population * (1 - population/capacity) * resourceFactor
}

// Exponential has no capacity term and ignores resource availability.
// Intended for short-horizon or resource-unconstrained scenarios.
type Exponential struct{}

func (Exponential) ComputeDelta(population, _, _ float64) float64 {
	return population
}

// customRules holds growth rules registered for the "custom" selector.
// Registration happens before a run starts; the engine only reads the map.
var customRules = map[string]GrowthModel{}

// RegisterGrowthRule makes a custom growth rule selectable by name via the
// "custom" growth model selector.
func RegisterGrowthRule(name string, m GrowthModel) {
	customRules[name] = m
}

// ModelByName resolves a growth model selector. For ModelCustom, customRule
// must name a registered rule.
func ModelByName(selector, customRule string) (GrowthModel, error) {
	switch selector {
	case ModelLogistic:
		return Logistic{}, nil
	case ModelExponential:
		return Exponential{}, nil
	case ModelCustom:
		m, ok := customRules[customRule]
		if !ok {
			return nil, fmt.Errorf("custom growth rule %q is not registered", customRule)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown growth model %q", selector)
	}
}
