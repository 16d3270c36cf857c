package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecolens/sim"
)

func testHistory() []sim.GenerationRecord {
	return []sim.GenerationRecord{
		{Generation: 0, Populations: map[string]float64{"hare": 10, "lynx": 2}, Resource: 80},
		{Generation: 1, Populations: map[string]float64{"hare": 6, "lynx": 6}, Resource: 60},
		{Generation: 2, Populations: map[string]float64{"hare": 0, "lynx": 8}, Resource: 40},
	}
}

func TestSummarizeStabilityMetrics(t *testing.T) {
	res := sim.Result{
		State:            sim.Completed,
		HaltGeneration:   -1,
		Generations:      3,
		FinalPopulations: map[string]float64{"hare": 0, "lynx": 8},
		FinalResource:    40,
	}

	s := Summarize(testHistory(), res)

	// Generation 1 has zero variance across species.
	if s.MostStableGeneration != 1 {
		t.Errorf("most stable generation = %d, want 1", s.MostStableGeneration)
	}
	if s.MinPopulationVariance != 0 {
		t.Errorf("min variance = %v, want 0", s.MinPopulationVariance)
	}

	// The first extinction happens in generation 2.
	if s.ExtinctionFreeGenerations != 2 {
		t.Errorf("extinction-free generations = %d, want 2", s.ExtinctionFreeGenerations)
	}

	if s.PeakPopulations["hare"] != 10 || s.PeakPopulations["lynx"] != 8 {
		t.Errorf("peaks = %v, want hare=10 lynx=8", s.PeakPopulations)
	}

	if s.State != "completed" || s.Generations != 3 || s.FinalResource != 40 {
		t.Errorf("terminal fields not carried through: %+v", s)
	}
}

func TestSummarizeVarianceValue(t *testing.T) {
	history := []sim.GenerationRecord{
		{Generation: 0, Populations: map[string]float64{"a": 10, "b": 2}, Resource: 0},
	}
	s := Summarize(history, sim.Result{State: sim.Completed, HaltGeneration: -1})

	// Population variance of {10, 2}: mean 6, ((4^2)+(4^2))/2 = 16.
	if math.Abs(s.MinPopulationVariance-16) > 1e-9 {
		t.Errorf("variance = %v, want 16", s.MinPopulationVariance)
	}
	if s.MostStableGeneration != 0 {
		t.Errorf("most stable generation = %d, want 0", s.MostStableGeneration)
	}
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil, sim.Result{State: sim.HaltedEarly, HaltGeneration: -1, Reason: "canceled"})

	if s.MostStableGeneration != -1 {
		t.Errorf("most stable generation = %d, want -1", s.MostStableGeneration)
	}
	if s.ExtinctionFreeGenerations != 0 {
		t.Errorf("extinction-free generations = %d, want 0", s.ExtinctionFreeGenerations)
	}
	if s.State != "halted_early" || s.Reason != "canceled" {
		t.Errorf("terminal fields not carried through: %+v", s)
	}
}

func TestSummarizeExtinctionGapDoesNotResetPrefix(t *testing.T) {
	history := []sim.GenerationRecord{
		{Generation: 0, Populations: map[string]float64{"a": 5, "b": 5}},
		{Generation: 1, Populations: map[string]float64{"a": 0, "b": 5}},
		// Even if a value were nonzero again later, the prefix ended at 1.
		{Generation: 2, Populations: map[string]float64{"a": 3, "b": 5}},
	}
	s := Summarize(history, sim.Result{State: sim.Completed, HaltGeneration: -1})

	if s.ExtinctionFreeGenerations != 1 {
		t.Errorf("extinction-free generations = %d, want 1", s.ExtinctionFreeGenerations)
	}
}
