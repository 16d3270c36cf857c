// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Species     []SpeciesConfig   `yaml:"species"`
	Environment EnvironmentConfig `yaml:"environment"`
	Run         RunConfig         `yaml:"run"`
	EarlyStop   EarlyStopConfig   `yaml:"early_stop"`
}

// SpeciesConfig defines one species: its role, initial population, growth
// parameters, and pairwise interaction coefficients.
type SpeciesConfig struct {
	ID                string  `yaml:"id"`
	Role              string  `yaml:"role"` // prey | predator
	InitialPopulation float64 `yaml:"initial_population"`

	GrowthRate          float64 `yaml:"growth_rate"`          // Intrinsic growth rate (prey)
	CarryingCapacity    float64 `yaml:"carrying_capacity"`    // Max sustainable population absent predation (prey)
	ResourceRequirement float64 `yaml:"resource_requirement"` // Resource level for unconstrained growth (prey, 0 = none)

	ConversionEfficiency float64 `yaml:"conversion_efficiency"` // Predation-to-growth conversion (predator)
	DeathRate            float64 `yaml:"death_rate"`            // Decline rate absent prey (predator)

	// Interactions maps interacting species ids to mass-action coefficients.
	// On a prey entry the key is a predator id and the value a loss rate; on
	// a predator entry the key is a prey id and the value a gain rate. A
	// pair declared on one side must be declared on both.
	Interactions map[string]float64 `yaml:"interactions"`
}

// EnvironmentConfig holds the shared resource pool parameters.
type EnvironmentConfig struct {
	InitialResource float64 `yaml:"initial_resource"`
	RegenRate       float64 `yaml:"regen_rate"`       // Fraction of headroom restored per generation, in [0,1]
	ConsumptionRate float64 `yaml:"consumption_rate"` // Resource drained per unit of total prey population
	MaxCapacity     float64 `yaml:"max_capacity"`
}

// RunConfig holds run parameters.
type RunConfig struct {
	Generations int    `yaml:"generations"`
	GrowthModel string `yaml:"growth_model"` // logistic | exponential | custom
	CustomRule  string `yaml:"custom_rule"`  // Registered rule name when growth_model is custom
}

// EarlyStopConfig holds the early-stop policy.
type EarlyStopConfig struct {
	HaltOnPredatorExtinction bool `yaml:"halt_on_predator_extinction"`
	ResourceZeroGenerations  int  `yaml:"resource_zero_generations"` // Consecutive zero-resource generations before halting; 0 disables
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. A user file that
// declares its own species list replaces the default list entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
