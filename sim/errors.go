package sim

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a species identifier is not registered.
var ErrNotFound = errors.New("species not found")

// ConfigError collects configuration validation issues.
// It is fatal: a run never starts (and produces no history) when raised.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid configuration"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "configuration errors: " + strings.Join(e.Issues, "; ")
}

func (e *ConfigError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ConfigError) HasIssues() bool {
	return len(e.Issues) > 0
}
