// Package telemetry derives statistics and structured output from a
// completed run's history. Everything here is a pure function over the
// generation records plus the driver's terminal result; nothing feeds back
// into the engine.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecolens/sim"
)

// Summary is the terminal report for a run: the final classification plus
// stability metrics derived from the full history.
type Summary struct {
	State          string  `json:"state"`
	HaltGeneration int     `json:"halt_generation"` // -1 when the run completed
	Reason         string  `json:"reason,omitempty"`
	Generations    int     `json:"generations"`
	FinalResource  float64 `json:"final_resource"`

	FinalPopulations map[string]float64 `json:"final_populations"`
	PeakPopulations  map[string]float64 `json:"peak_populations"`

	// MostStableGeneration has the minimum across-species population
	// variance; -1 when the history is empty.
	MostStableGeneration  int     `json:"most_stable_generation"`
	MinPopulationVariance float64 `json:"min_population_variance"`

	// ExtinctionFreeGenerations counts the leading generations in which
	// every species was still alive.
	ExtinctionFreeGenerations int `json:"extinction_free_generations"`
}

// Summarize builds the terminal summary from a run's history and result.
func Summarize(history []sim.GenerationRecord, res sim.Result) Summary {
	s := Summary{
		State:                string(res.State),
		HaltGeneration:       res.HaltGeneration,
		Reason:               res.Reason,
		Generations:          res.Generations,
		FinalResource:        res.FinalResource,
		FinalPopulations:     res.FinalPopulations,
		PeakPopulations:      make(map[string]float64),
		MostStableGeneration: -1,
	}

	extinctionSeen := false
	for _, rec := range history {
		values := populationsInOrder(rec.Populations)
		v := stat.PopVariance(values, nil)
		if s.MostStableGeneration == -1 || v < s.MinPopulationVariance {
			s.MostStableGeneration = rec.Generation
			s.MinPopulationVariance = v
		}

		allAlive := true
		for id, pop := range rec.Populations {
			if pop > s.PeakPopulations[id] {
				s.PeakPopulations[id] = pop
			}
			if pop == 0 {
				allAlive = false
			}
		}
		if allAlive && !extinctionSeen {
			s.ExtinctionFreeGenerations++
		} else {
			extinctionSeen = true
		}
	}

	return s
}

// populationsInOrder returns population values sorted by species id, so
// variance sums are order-stable.
func populationsInOrder(pops map[string]float64) []float64 {
	ids := make([]string, 0, len(pops))
	for id := range pops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = pops[id]
	}
	return values
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("state", s.State),
		slog.Int("halt_generation", s.HaltGeneration),
		slog.Int("generations", s.Generations),
		slog.Float64("final_resource", s.FinalResource),
		slog.Int("most_stable_generation", s.MostStableGeneration),
		slog.Float64("min_population_variance", s.MinPopulationVariance),
		slog.Int("extinction_free_generations", s.ExtinctionFreeGenerations),
	}
	if s.Reason != "" {
		attrs = append(attrs, slog.String("reason", s.Reason))
	}
	for id, pop := range s.FinalPopulations {
		attrs = append(attrs, slog.Float64("final_"+id, pop))
	}
	return slog.GroupValue(attrs...)
}

// LogHistory logs one record per generation, in order.
func LogHistory(history []sim.GenerationRecord, speciesOrder []string) {
	for _, rec := range history {
		args := []any{"generation", rec.Generation, "resource", rec.Resource}
		for _, id := range speciesOrder {
			args = append(args, id, rec.Populations[id])
		}
		slog.Info("generation", args...)
	}
}
