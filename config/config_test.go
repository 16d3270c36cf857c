package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Species) != 2 {
		t.Fatalf("len(Species) = %d, want 2", len(cfg.Species))
	}
	if cfg.Species[0].ID != "hare" || cfg.Species[0].Role != "prey" {
		t.Errorf("species[0] = %+v, want hare/prey", cfg.Species[0])
	}
	if cfg.Species[1].Interactions["hare"] != 0.02 {
		t.Errorf("lynx->hare coefficient = %v, want 0.02", cfg.Species[1].Interactions["hare"])
	}
	if cfg.Run.Generations != 200 || cfg.Run.GrowthModel != "logistic" {
		t.Errorf("run = %+v", cfg.Run)
	}
	if !cfg.EarlyStop.HaltOnPredatorExtinction || cfg.EarlyStop.ResourceZeroGenerations != 5 {
		t.Errorf("early stop = %+v", cfg.EarlyStop)
	}
	if cfg.Environment.MaxCapacity != 500 {
		t.Errorf("max capacity = %v, want 500", cfg.Environment.MaxCapacity)
	}
}

func TestLoadMergesUserFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := `
run:
  generations: 50
early_stop:
  halt_on_predator_extinction: false
`
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Overridden fields.
	if cfg.Run.Generations != 50 {
		t.Errorf("generations = %d, want 50", cfg.Run.Generations)
	}
	if cfg.EarlyStop.HaltOnPredatorExtinction {
		t.Error("halt_on_predator_extinction should be overridden to false")
	}
	// Untouched fields keep their defaults.
	if cfg.Run.GrowthModel != "logistic" {
		t.Errorf("growth model = %q, want default logistic", cfg.Run.GrowthModel)
	}
	if cfg.EarlyStop.ResourceZeroGenerations != 5 {
		t.Errorf("resource_zero_generations = %d, want default 5", cfg.EarlyStop.ResourceZeroGenerations)
	}
	if len(cfg.Species) != 2 {
		t.Errorf("len(Species) = %d, want default 2", len(cfg.Species))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("species: {not: [valid"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid yaml should fail")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Run.Generations = 77
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Run.Generations != 77 {
		t.Errorf("generations = %d, want 77", got.Run.Generations)
	}
	if len(got.Species) != len(cfg.Species) {
		t.Errorf("len(Species) = %d, want %d", len(got.Species), len(cfg.Species))
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after Init")
	}
}
