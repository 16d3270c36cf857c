package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecolens/config"
	"github.com/pthm-cable/ecolens/sim"
)

// OutputManager handles structured run output with CSV and JSON logging.
type OutputManager struct {
	dir         string
	historyFile *os.File

	// Track if the CSV header has been written
	historyHeaderWritten bool
}

// HistoryRow is one history.csv row: long format, one row per species per
// generation, so the column set stays fixed regardless of the species list.
type HistoryRow struct {
	Generation int     `csv:"generation"`
	Species    string  `csv:"species"`
	Population float64 `csv:"population"`
	Resource   float64 `csv:"resource"`
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	historyPath := filepath.Join(dir, "history.csv")
	f, err := os.Create(historyPath)
	if err != nil {
		return nil, fmt.Errorf("creating history.csv: %w", err)
	}
	om.historyFile = f

	return om, nil
}

// WriteConfig saves the run's configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteRecord appends one generation record to history.csv, one row per
// species in the given order.
func (om *OutputManager) WriteRecord(rec sim.GenerationRecord, speciesOrder []string) error {
	if om == nil {
		return nil
	}

	rows := make([]HistoryRow, 0, len(speciesOrder))
	for _, id := range speciesOrder {
		rows = append(rows, HistoryRow{
			Generation: rec.Generation,
			Species:    id,
			Population: rec.Populations[id],
			Resource:   rec.Resource,
		})
	}

	if !om.historyHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, om.historyFile); err != nil {
			return fmt.Errorf("writing history: %w", err)
		}
		om.historyHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(rows, om.historyFile); err != nil {
			return fmt.Errorf("writing history: %w", err)
		}
	}

	return nil
}

// WriteHistory appends the full history to history.csv.
func (om *OutputManager) WriteHistory(history []sim.GenerationRecord, speciesOrder []string) error {
	if om == nil {
		return nil
	}
	for _, rec := range history {
		if err := om.WriteRecord(rec, speciesOrder); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistoryJSON saves the full history as history.json.
func (om *OutputManager) WriteHistoryJSON(history []sim.GenerationRecord) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	historyPath := filepath.Join(om.dir, "history.json")
	if err := os.WriteFile(historyPath, data, 0644); err != nil {
		return fmt.Errorf("writing history.json: %w", err)
	}

	return nil
}

// WriteSummary saves the terminal summary as summary.json.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	summaryPath := filepath.Join(om.dir, "summary.json")
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return fmt.Errorf("writing summary.json: %w", err)
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the history file.
func (om *OutputManager) Close() error {
	if om == nil || om.historyFile == nil {
		return nil
	}
	return om.historyFile.Close()
}
