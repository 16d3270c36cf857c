// Package render draws charts of a completed run to image files.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/pthm-cable/ecolens/config"
	"github.com/pthm-cable/ecolens/sim"
)

// WritePlots renders the run's charts into dir and returns the written file
// paths: a population/resource time series, and a predator-prey phase plot
// when the configuration has at least one of each role.
func WritePlots(history []sim.GenerationRecord, species []config.SpeciesConfig, dir string) ([]string, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("empty history")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating plot directory: %w", err)
	}

	var paths []string

	p, err := timeSeriesPlot(history, species)
	if err != nil {
		return nil, err
	}
	tsPath := filepath.Join(dir, "population_resource.png")
	if err := p.Save(9*vg.Inch, 4*vg.Inch, tsPath); err != nil {
		return nil, fmt.Errorf("saving population plot: %w", err)
	}
	paths = append(paths, tsPath)

	preyID, predID := phasePair(species)
	if preyID != "" && predID != "" {
		p, err := phasePlot(history, preyID, predID)
		if err != nil {
			return nil, err
		}
		phasePath := filepath.Join(dir, "phase.png")
		if err := p.Save(5*vg.Inch, 5*vg.Inch, phasePath); err != nil {
			return nil, fmt.Errorf("saving phase plot: %w", err)
		}
		paths = append(paths, phasePath)
	}

	return paths, nil
}

// timeSeriesPlot charts every species population and the resource level
// against the generation index.
func timeSeriesPlot(history []sim.GenerationRecord, species []config.SpeciesConfig) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Population and Resource over Time"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Population / Resource"
	p.Legend.Top = true

	var series []interface{}
	for _, sc := range species {
		xys := make(plotter.XYs, len(history))
		for i, rec := range history {
			xys[i].X = float64(rec.Generation)
			xys[i].Y = rec.Populations[sc.ID]
		}
		series = append(series, sc.ID, xys)
	}

	resource := make(plotter.XYs, len(history))
	for i, rec := range history {
		resource[i].X = float64(rec.Generation)
		resource[i].Y = rec.Resource
	}
	series = append(series, "resource", resource)

	if err := plotutil.AddLines(p, series...); err != nil {
		return nil, fmt.Errorf("building population plot: %w", err)
	}
	return p, nil
}

// phasePlot charts the first predator's population against the first prey's.
func phasePlot(history []sim.GenerationRecord, preyID, predID string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Phase Plot (Predator vs Prey)"
	p.X.Label.Text = preyID
	p.Y.Label.Text = predID

	xys := make(plotter.XYs, len(history))
	for i, rec := range history {
		xys[i].X = rec.Populations[preyID]
		xys[i].Y = rec.Populations[predID]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("building phase plot: %w", err)
	}
	p.Add(line)
	return p, nil
}

// phasePair returns the first prey and first predator ids in declaration
// order; empty strings when a role is absent.
func phasePair(species []config.SpeciesConfig) (preyID, predID string) {
	for _, sc := range species {
		if sc.Role == string(sim.RolePrey) && preyID == "" {
			preyID = sc.ID
		}
		if sc.Role == string(sim.RolePredator) && predID == "" {
			predID = sc.ID
		}
	}
	return preyID, predID
}
