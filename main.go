package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pthm-cable/ecolens/config"
	"github.com/pthm-cable/ecolens/render"
	"github.com/pthm-cable/ecolens/sim"
	"github.com/pthm-cable/ecolens/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV/JSON logs and config snapshot")
	plotDir := flag.String("plot-dir", "", "Output directory for PNG charts")
	generations := flag.Int("generations", 0, "Override generation count (0 = use config)")
	logHistory := flag.Bool("log-history", false, "Log every generation record via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *generations > 0 {
		cfg.Run.Generations = *generations
	}

	driver, err := sim.NewDriver(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"species", len(cfg.Species),
		"generations", cfg.Run.Generations,
		"growth_model", cfg.Run.GrowthModel,
	)

	// SIGINT stops the run between generations; the partial history is
	// still reported and written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := driver.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	history := driver.History()
	order := driver.SpeciesIDs()
	summary := telemetry.Summarize(history, result)

	if *logHistory {
		telemetry.LogHistory(history, order)
	}
	slog.Info("simulation finished", "summary", summary)

	if err := writeOutputs(cfg, history, order, summary, *outputDir); err != nil {
		slog.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	if *plotDir != "" {
		paths, err := render.WritePlots(history, cfg.Species, *plotDir)
		if err != nil {
			slog.Error("failed to render plots", "error", err)
			os.Exit(1)
		}
		slog.Info("plots written", "files", paths)
	}
}

// writeOutputs writes history.csv, history.json, summary.json, and the
// config snapshot when an output directory is configured.
func writeOutputs(cfg *config.Config, history []sim.GenerationRecord, order []string,
	summary telemetry.Summary, dir string) error {

	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	if om == nil {
		return nil
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	if err := om.WriteHistory(history, order); err != nil {
		return err
	}
	if err := om.WriteHistoryJSON(history); err != nil {
		return err
	}
	if err := om.WriteSummary(summary); err != nil {
		return err
	}
	slog.Info("outputs written", "dir", om.Dir())
	return nil
}
