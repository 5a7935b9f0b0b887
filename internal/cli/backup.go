package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// newBackupCmd creates the backup command group: export the whole
// workspace to one file, or restore it on another machine.
func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the full workspace",
	}
	cmd.AddCommand(newBackupExportCmd())
	cmd.AddCommand(newBackupImportCmd())
	return cmd
}

func newBackupExportCmd() *cobra.Command {
	var designPaths []string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export workspace config, constraints, and designs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			config, err := project.LoadWorkspaceConfig(project.DefaultConfigPath())
			if err != nil {
				return err
			}
			cfg, err := project.LoadConstraints(project.DefaultConstraintsPath())
			if err != nil {
				return err
			}

			var designs []model.Design
			for _, path := range designPaths {
				design, err := project.LoadDesign(path)
				if err != nil {
					return fmt.Errorf("load design %s: %w", path, err)
				}
				designs = append(designs, design)
			}

			if err := project.ExportAllData(args[0], config, cfg, designs); err != nil {
				return err
			}
			logger.Info("workspace exported", "path", args[0], "designs", len(designs))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&designPaths, "design", "d", nil, "design record file (repeatable)")
	return cmd
}

func newBackupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore workspace config, constraints, and designs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveWorkspaceConfig(project.DefaultConfigPath(), backup.Config); err != nil {
				return err
			}
			if err := project.SaveConstraints(project.DefaultConstraintsPath(), backup.Constraints); err != nil {
				return err
			}
			for _, design := range backup.Designs {
				path := project.DefaultDesignPath()
				if len(backup.Designs) > 1 {
					path = fmt.Sprintf("%s.%s.json", path, design.Result.RunID)
				}
				if err := project.SaveDesign(path, design); err != nil {
					return err
				}
			}
			logger.Info("workspace imported", "created_at", backup.CreatedAt, "designs", len(backup.Designs))
			return nil
		},
	}
}
