package model

// WorkspaceConfig holds user-level application settings persisted between
// runs: where constraint sets and generated artifacts live, and the
// recently opened design records.
type WorkspaceConfig struct {
	ConstraintsPath string   `json:"constraints_path"`
	OutputDir       string   `json:"output_dir"`
	RecentDesigns   []string `json:"recent_designs"`
}

// DefaultWorkspaceConfig returns the settings used before the user saves
// any.
func DefaultWorkspaceConfig() WorkspaceConfig {
	return WorkspaceConfig{
		OutputDir:     "output",
		RecentDesigns: []string{},
	}
}

// maxRecentDesigns bounds the recent-designs list.
const maxRecentDesigns = 10

// AddRecentDesign prepends a design path to the recent list, dropping
// duplicates and trimming to the maximum length.
func (c *WorkspaceConfig) AddRecentDesign(path string) {
	recent := []string{path}
	for _, p := range c.RecentDesigns {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentDesigns {
		recent = recent[:maxRecentDesigns]
	}
	c.RecentDesigns = recent
}
