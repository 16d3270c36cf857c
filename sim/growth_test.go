package sim

import (
	"math"
	"testing"
)

func TestLogisticComputeDelta(t *testing.T) {
	tests := []struct {
		name           string
		pop, capacity  float64
		resourceFactor float64
		want           float64
	}{
		{"half capacity", 50, 100, 1, 25},
		{"at capacity", 100, 100, 1, 0},
		{"above capacity declines", 150, 100, 1, -75},
		{"scarcity halves growth", 50, 100, 0.5, 12.5},
		{"no resource shuts off growth", 50, 100, 0, 0},
		{"zero capacity", 50, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Logistic{}.ComputeDelta(tt.pop, tt.capacity, tt.resourceFactor)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeDelta(%v, %v, %v) = %v, want %v",
					tt.pop, tt.capacity, tt.resourceFactor, got, tt.want)
			}
		})
	}
}

func TestExponentialIgnoresCapacityAndResource(t *testing.T) {
	got := Exponential{}.ComputeDelta(50, 0, 0)
	if got != 50 {
		t.Errorf("ComputeDelta = %v, want 50", got)
	}
}

func TestModelByName(t *testing.T) {
	if _, err := ModelByName(ModelLogistic, ""); err != nil {
		t.Errorf("logistic: %v", err)
	}
	if _, err := ModelByName(ModelExponential, ""); err != nil {
		t.Errorf("exponential: %v", err)
	}
	if _, err := ModelByName("quadratic", ""); err == nil {
		t.Error("unknown selector should fail")
	}
}

// constantGrowth is a custom rule returning a fixed unscaled delta.
type constantGrowth struct {
	delta float64
}

func (c constantGrowth) ComputeDelta(_, _, _ float64) float64 {
	return c.delta
}

func TestCustomGrowthRuleRegistration(t *testing.T) {
	RegisterGrowthRule("constant", constantGrowth{delta: 3})

	m, err := ModelByName(ModelCustom, "constant")
	if err != nil {
		t.Fatalf("ModelByName: %v", err)
	}
	if got := m.ComputeDelta(1, 2, 3); got != 3 {
		t.Errorf("ComputeDelta = %v, want 3", got)
	}

	if _, err := ModelByName(ModelCustom, "missing"); err == nil {
		t.Error("unregistered custom rule should fail")
	}
}

func TestResourceFactor(t *testing.T) {
	tests := []struct {
		name               string
		level, requirement float64
		want               float64
	}{
		{"no requirement", 0, 0, 1},
		{"plenty", 100, 40, 1},
		{"exactly met", 40, 40, 1},
		{"scarce", 20, 40, 0.5},
		{"exhausted", 0, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resourceFactor(tt.level, tt.requirement)
			if got != tt.want {
				t.Errorf("resourceFactor(%v, %v) = %v, want %v", tt.level, tt.requirement, got, tt.want)
			}
		})
	}
}
