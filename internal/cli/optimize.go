package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/geometry"
	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	constraints string // constraint set path
	output      string // design record path
	name        string // design name
}

// newOptimizeCmd creates the optimize command: run the full search, expand
// the geometry, persist the design record, and print the analysis summary.
func newOptimizeCmd() *cobra.Command {
	opts := optimizeOpts{
		constraints: project.DefaultConstraintsPath(),
		output:      project.DefaultDesignPath(),
		name:        "magnetorquer",
	}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for the maximum-moment coil design",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := project.LoadConstraints(opts.constraints)
			if err != nil {
				return err
			}
			logger.Debug("constraints loaded", "path", opts.constraints,
				"layers", cfg.Design.NumLayers, "max_power", cfg.Design.MaxPower)

			opt, err := engine.NewOptimizer(cfg, engine.DefaultOptions())
			if err != nil {
				return err
			}

			p := newProgress(logger)
			result := opt.Run()
			p.done(fmt.Sprintf("Optimization %s after %d iterations", result.Status, result.Iterations))

			if result.Status == model.StatusFailed {
				return fmt.Errorf("optimization failed: no design point could be evaluated")
			}
			if result.Status == model.StatusInfeasible {
				logger.Warn("no feasible design found, reporting least-violating point",
					"max_residual", result.Residuals.Max())
			}
			logger.Info("optimum",
				"trace_width_mm", result.Point.TraceWidth*1e3,
				"turns", result.Point.Turns,
				"moment_am2", result.Moment)

			design, err := geometry.NewGenerator(cfg).Design(opts.name, result)
			if err != nil {
				return err
			}
			if err := project.SaveDesign(opts.output, design); err != nil {
				return err
			}
			logger.Info("design record saved", "path", opts.output, "run", result.RunID)

			return printReport(cmd, design)
		},
	}

	cmd.Flags().StringVarP(&opts.constraints, "constraints", "c", opts.constraints, "constraint set file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "design record output file")
	cmd.Flags().StringVarP(&opts.name, "name", "n", opts.name, "design name")
	return cmd
}

// printReport writes the display-unit analysis summary to stdout.
func printReport(cmd *cobra.Command, design model.Design) error {
	report := project.BuildReport(design)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
