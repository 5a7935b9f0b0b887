package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/magnetorquer/internal/model"
)

func TestNewOptimizerRejectsInvalidConfig(t *testing.T) {
	_, err := NewOptimizer(model.ConstraintSet{}, DefaultOptions())
	require.Error(t, err)

	var cfgErr *model.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.NotEmpty(t, cfgErr.Problems)
}

func TestRunConvergesOnReferenceConstraints(t *testing.T) {
	opt, err := NewOptimizer(model.DefaultConstraints(), DefaultOptions())
	require.NoError(t, err)

	result := opt.Run()
	require.Equal(t, model.StatusConverged, result.Status)
	assert.NotEmpty(t, result.RunID)
	assert.Greater(t, result.Iterations, 0)
	assert.Greater(t, result.Moment, 0.0)
	assert.True(t, result.Residuals.Feasible(DefaultOptions().ResidualTol),
		"optimum must be feasible: %+v", result.Residuals)

	// The optimum beats an arbitrary feasible hand-picked width.
	coil := opt.Coil()
	p := coil.DesignPointFor(0.45e-3)
	state, err := coil.Evaluate(p)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Moment, coil.Moment(p, state.Current))

	// The reported state is consistent with re-evaluating the point.
	recheck, err := coil.Evaluate(result.Point)
	require.NoError(t, err)
	assert.InDelta(t, recheck.Resistance, result.State.Resistance, 1e-9)
	assert.InDelta(t, recheck.Current, result.State.Current, 1e-12)
}

func TestRunTurnCountMatchesGeometryRule(t *testing.T) {
	opt, err := NewOptimizer(model.DefaultConstraints(), DefaultOptions())
	require.NoError(t, err)

	result := opt.Run()
	require.Equal(t, model.StatusConverged, result.Status)

	// The geometry generator derives turns from the width with the same
	// rule, so the two can never disagree about the final layout.
	assert.Equal(t, opt.Coil().MaxTurns(result.Point.TraceWidth), result.Point.Turns)
	assert.GreaterOrEqual(t, result.Point.TraceWidth, opt.Coil().Constraints().Manufacturing.MinTraceWidth)
	assert.LessOrEqual(t, result.Point.TraceWidth, opt.Coil().Constraints().Manufacturing.MaxTraceWidth)
}

func TestRunMomentMonotonicInPowerBudget(t *testing.T) {
	base := model.DefaultConstraints()
	relaxed := base
	relaxed.Design.MaxPower = 2 * base.Design.MaxPower

	baseOpt, err := NewOptimizer(base, DefaultOptions())
	require.NoError(t, err)
	relaxedOpt, err := NewOptimizer(relaxed, DefaultOptions())
	require.NoError(t, err)

	baseResult := baseOpt.Run()
	relaxedResult := relaxedOpt.Run()
	require.Equal(t, model.StatusConverged, baseResult.Status)
	require.Equal(t, model.StatusConverged, relaxedResult.Status)

	// A larger power budget only enlarges the feasible set.
	assert.GreaterOrEqual(t, relaxedResult.Moment, baseResult.Moment)
}

func TestRunDegenerateWidthBounds(t *testing.T) {
	cfg := model.DefaultConstraints()
	cfg.Manufacturing.MinTraceWidth = 0.45e-3
	cfg.Manufacturing.MaxTraceWidth = 0.45e-3

	opt, err := NewOptimizer(cfg, DefaultOptions())
	require.NoError(t, err)

	result := opt.Run()
	require.Equal(t, model.StatusConverged, result.Status)
	assert.InDelta(t, 0.45e-3, result.Point.TraceWidth, 1e-12)
	assert.Equal(t, 27, result.Point.Turns)
}

func TestRunFailsWithoutWindingRoom(t *testing.T) {
	cfg := model.DefaultConstraints()
	// A 1 mm winding annulus per side cannot host a single turn with its
	// clearance at any width the fab allows.
	cfg.Design.InnerLength = cfg.Design.OuterLength - 2e-3
	cfg.Design.InnerWidth = cfg.Design.OuterWidth - 2e-3
	cfg.Manufacturing.MinTraceWidth = 0.8e-3
	cfg.Manufacturing.MaxTraceWidth = 1.0e-3

	opt, err := NewOptimizer(cfg, DefaultOptions())
	require.NoError(t, err)

	result := opt.Run()
	assert.Equal(t, model.StatusFailed, result.Status)
	assert.NotEmpty(t, result.RunID)
}

func TestRunReportsDynamics(t *testing.T) {
	opt, err := NewOptimizer(model.DefaultConstraints(), DefaultOptions())
	require.NoError(t, err)

	result := opt.Run()
	require.Equal(t, model.StatusConverged, result.Status)
	assert.Greater(t, result.Dynamics.Inductance, 0.0)
	assert.Greater(t, result.Dynamics.TimeConstant, 0.0)
	assert.Greater(t, result.Dynamics.TimeTo99, result.Dynamics.TimeConstant)
}
