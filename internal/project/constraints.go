// Package project handles persistence: constraint sets, design records,
// analysis reports, and the user's workspace configuration. Everything is
// plain JSON on disk; no store survives a crash mid-write beyond the
// backup taken before each overwrite.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// DefaultConfigDir returns the default directory for user configuration.
// On all platforms this is ~/.magnetorquer/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".magnetorquer")
}

// DefaultConstraintsPath returns the default constraint-set file path.
func DefaultConstraintsPath() string {
	return filepath.Join(DefaultConfigDir(), "constraints.json")
}

// SaveConstraints persists a constraint set to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveConstraints(path string, cfg model.ConstraintSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConstraints reads a constraint set from the given path and
// validates it. If the file does not exist, it returns the reference
// defaults with no error.
func LoadConstraints(path string) (model.ConstraintSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConstraints(), nil
		}
		return model.ConstraintSet{}, err
	}
	var cfg model.ConstraintSet
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.ConstraintSet{}, err
	}
	if err := cfg.Validate(); err != nil {
		return model.ConstraintSet{}, err
	}
	return cfg, nil
}
