package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// newConstraintsCmd creates the constraints command group for managing
// the constraint-set file the optimizer consumes.
func newConstraintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Manage the constraint set",
	}
	cmd.AddCommand(newConstraintsInitCmd())
	cmd.AddCommand(newConstraintsShowCmd())
	return cmd
}

// newConstraintsInitCmd writes the reference constraint set so the user
// has a complete file to edit.
func newConstraintsInitCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the reference constraint set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			if err := project.SaveConstraints(path, model.DefaultConstraints()); err != nil {
				return err
			}
			logger.Info("constraint set written", "path", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", project.DefaultConstraintsPath(), "constraint set file")
	return cmd
}

// newConstraintsShowCmd prints the active constraint set after validation.
func newConstraintsShowCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active constraint set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConstraints(path)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}

	cmd.Flags().StringVarP(&path, "constraints", "c", project.DefaultConstraintsPath(), "constraint set file")
	return cmd
}
