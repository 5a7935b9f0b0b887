package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// DefaultDesignPath returns the default design-record file path.
func DefaultDesignPath() string {
	return filepath.Join(DefaultConfigDir(), "design.json")
}

// SaveDesign persists a complete design record to the given path. An
// existing record is renamed to a .bak sibling first, so one bad write
// never loses the previous design.
func SaveDesign(path string, design model.Design) error {
	if design.Name == "" {
		return errors.New("design has no name")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to back up existing design: %w", err)
		}
	}

	data, err := json.MarshalIndent(design, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDesign reads a design record from the given path. The embedded
// constraint set is re-validated so a hand-edited record cannot feed the
// exporters impossible numbers.
func LoadDesign(path string) (model.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Design{}, err
	}
	var design model.Design
	if err := json.Unmarshal(data, &design); err != nil {
		return model.Design{}, fmt.Errorf("failed to parse design record: %w", err)
	}
	if design.Name == "" {
		return model.Design{}, errors.New("design record has no name")
	}
	if err := design.Constraints.Validate(); err != nil {
		return model.Design{}, err
	}
	return design, nil
}
