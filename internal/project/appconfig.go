package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// DefaultConfigPath returns the default path for the workspace config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveWorkspaceConfig persists the workspace configuration as JSON,
// creating any missing parent directories.
func SaveWorkspaceConfig(path string, config model.WorkspaceConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadWorkspaceConfig reads the workspace configuration from the given
// path. If the file does not exist, it returns the defaults with no error.
func LoadWorkspaceConfig(path string) (model.WorkspaceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultWorkspaceConfig(), nil
		}
		return model.WorkspaceConfig{}, err
	}
	var config model.WorkspaceConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return model.WorkspaceConfig{}, err
	}
	if config.RecentDesigns == nil {
		config.RecentDesigns = []string{}
	}
	return config, nil
}
