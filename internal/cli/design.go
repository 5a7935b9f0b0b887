package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/geometry"
	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// newDesignCmd creates the design command: optimize and export in one
// pass, the common path from constraint file to fabrication artifacts.
func newDesignCmd() *cobra.Command {
	opts := struct {
		optimizeOpts
		exportOpts
	}{
		optimizeOpts: optimizeOpts{
			constraints: project.DefaultConstraintsPath(),
			output:      project.DefaultDesignPath(),
			name:        "magnetorquer",
		},
		exportOpts: exportOpts{
			outputDir: "output",
			formats:   "pdf,dxf,labels,xlsx,report",
		},
	}

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Optimize and export in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := project.LoadConstraints(opts.constraints)
			if err != nil {
				return err
			}
			opt, err := engine.NewOptimizer(cfg, engine.DefaultOptions())
			if err != nil {
				return err
			}

			p := newProgress(logger)
			result := opt.Run()
			if result.Status == model.StatusFailed {
				return fmt.Errorf("optimization failed: no design point could be evaluated")
			}
			if result.Status == model.StatusInfeasible {
				logger.Warn("no feasible design found, reporting least-violating point",
					"max_residual", result.Residuals.Max())
			}

			design, err := geometry.NewGenerator(cfg).Design(opts.name, result)
			if err != nil {
				return err
			}
			if err := project.SaveDesign(opts.output, design); err != nil {
				return err
			}
			logger.Info("design record saved", "path", opts.output, "run", result.RunID)

			if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
				return err
			}
			for _, format := range strings.Split(opts.formats, ",") {
				format = strings.TrimSpace(format)
				if format == "" {
					continue
				}
				out, err := exportFormat(opts.outputDir, format, design)
				if err != nil {
					return fmt.Errorf("export %s: %w", format, err)
				}
				logger.Info("wrote artifact", "format", format, "path", out)
			}
			p.done(fmt.Sprintf("Design %s complete", result.RunID))

			return printReport(cmd, design)
		},
	}

	cmd.Flags().StringVarP(&opts.constraints, "constraints", "c", opts.constraints, "constraint set file")
	cmd.Flags().StringVar(&opts.output, "record", opts.output, "design record output file")
	cmd.Flags().StringVarP(&opts.name, "name", "n", opts.name, "design name")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", opts.outputDir, "artifact output directory")
	cmd.Flags().StringVarP(&opts.formats, "formats", "f", opts.formats, "comma-separated formats: pdf, dxf, labels, xlsx, report")
	return cmd
}
