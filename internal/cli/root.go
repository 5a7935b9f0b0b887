// Package cli implements the magnetorquer command-line interface: running
// the optimizer, analyzing fixed design points, expanding trace geometry,
// and exporting manufacturing artifacts. Commands log through
// charmbracelet/log at info level, or debug with --verbose.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the magnetorquer CLI and returns an error if any command
// fails.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "magnetorquer",
		Short:        "Design PCB magnetorquer coils for CubeSat attitude control",
		Long:         `magnetorquer searches trace width and turn count for the maximum-moment embedded coil satisfying power, thermal, current-density, and board-fit constraints, then expands the result into per-layer spiral geometry and manufacturing exports.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("magnetorquer %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newOptimizeCmd())
	root.AddCommand(newDesignCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newConstraintsCmd())
	root.AddCommand(newBackupCmd())

	return root.ExecuteContext(context.Background())
}
