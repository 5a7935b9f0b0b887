package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// BackupData is the top-level structure for export/import of a complete
// workspace: the user configuration, the active constraint set, and every
// design record worth carrying to another machine.
type BackupData struct {
	Version     string                `json:"version"`
	CreatedAt   string                `json:"created_at"`
	Config      model.WorkspaceConfig `json:"config"`
	Constraints model.ConstraintSet   `json:"constraints"`
	Designs     []model.Design        `json:"designs"`
}

// ExportAllData exports the whole workspace to a single JSON file.
func ExportAllData(exportPath string, config model.WorkspaceConfig, cfg model.ConstraintSet, designs []model.Design) error {
	backup := BackupData{
		Version:     "1.0.0",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      config,
		Constraints: cfg,
		Designs:     designs,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller decides what to apply.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentDesigns == nil {
		backup.Config.RecentDesigns = []string{}
	}
	return backup, nil
}
