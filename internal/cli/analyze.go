package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/geometry"
	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// newAnalyzeCmd creates the analyze command. Without flags it summarizes a
// saved design record; with --width it evaluates the electro-thermal model
// at a fixed trace width, skipping the optimizer entirely.
func newAnalyzeCmd() *cobra.Command {
	var (
		constraintsPath string
		widthMM         float64
	)

	cmd := &cobra.Command{
		Use:   "analyze [design.json]",
		Short: "Summarize a design record or a fixed trace width",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if widthMM > 0 {
				cfg, err := project.LoadConstraints(constraintsPath)
				if err != nil {
					return err
				}
				design, err := analyzeWidth(cfg, widthMM*1e-3)
				if err != nil {
					return err
				}
				logger.Debug("evaluated fixed width", "width_mm", widthMM, "turns", design.Result.Point.Turns)
				return printReport(cmd, design)
			}

			path := project.DefaultDesignPath()
			if len(args) == 1 {
				path = args[0]
			}
			design, err := project.LoadDesign(path)
			if err != nil {
				return err
			}
			logger.Debug("design loaded", "path", path, "run", design.Result.RunID)
			return printReport(cmd, design)
		},
	}

	cmd.Flags().StringVarP(&constraintsPath, "constraints", "c", project.DefaultConstraintsPath(), "constraint set file (with --width)")
	cmd.Flags().Float64VarP(&widthMM, "width", "w", 0, "evaluate a fixed trace width in mm instead of loading a design")
	return cmd
}

// analyzeWidth evaluates one trace width and assembles an unsaved design
// record for reporting.
func analyzeWidth(cfg model.ConstraintSet, width float64) (model.Design, error) {
	if err := cfg.Validate(); err != nil {
		return model.Design{}, err
	}

	coil := engine.NewCoil(cfg)
	point := coil.DesignPointFor(width)
	state, err := coil.Evaluate(point)
	if err != nil {
		return model.Design{}, fmt.Errorf("width %.3f mm is not evaluable: %w", width*1e3, err)
	}

	residuals := coil.ResidualsFor(point, state)
	status := model.StatusConverged
	if !residuals.Feasible(engine.DefaultOptions().ResidualTol) {
		status = model.StatusInfeasible
	}

	result := model.OptimizationResult{
		RunID:     model.NewRunID(),
		Status:    status,
		Point:     point,
		State:     state,
		Residuals: residuals,
		Moment:    coil.Moment(point, state.Current),
		Dynamics:  coil.DynamicsFor(point, state.Resistance),
	}
	return geometry.NewGenerator(cfg).Design("analysis", result)
}
