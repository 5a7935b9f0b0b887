package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/magnetorquer/internal/model"
)

func TestEquilibriumZeroPower(t *testing.T) {
	cfg := model.DefaultConstraints()
	coil := NewCoil(cfg)

	ground, err := coil.Equilibrium(0, ModeGround)
	require.NoError(t, err)
	assert.InDelta(t, cfg.Design.AmbientTemp, ground, 1e-9)

	space, err := coil.Equilibrium(0, ModeSpace)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, space, 1e-9)
}

func TestEquilibriumMonotonicInPower(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	for _, mode := range []Mode{ModeGround, ModeSpace} {
		t.Run(mode.String(), func(t *testing.T) {
			prev := -300.0
			for _, power := range []float64{0.1, 0.5, 1.0, 2.0, 4.0} {
				temp, err := coil.Equilibrium(power, mode)
				require.NoError(t, err)
				assert.Greater(t, temp, prev, "equilibrium must rise with power")
				prev = temp
			}
		})
	}
}

func TestEquilibriumDeterministic(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	first, err := coil.Equilibrium(0.82, ModeGround)
	require.NoError(t, err)
	second, err := coil.Equilibrium(0.82, ModeGround)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEquilibriumDivergence(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	// No rectangle of this size can radiate a kilowatt below the solver
	// ceiling.
	_, err := coil.Equilibrium(1000.0, ModeGround)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThermalDivergence)
	assert.True(t, IsThermalDivergence(err))
}

func TestAllowablePowerClosesTheLoop(t *testing.T) {
	cfg := model.DefaultConstraints()
	coil := NewCoil(cfg)

	// Ground mode has the warmer sink, so it governs the budget here.
	budget := coil.AllowablePower()
	assert.InDelta(t, coil.allowablePower(ModeGround), budget, 1e-15)
	assert.Less(t, budget, coil.allowablePower(ModeSpace))

	// Dissipating exactly the budget must land on the operating limit.
	temp, err := coil.Equilibrium(budget, ModeGround)
	require.NoError(t, err)
	assert.InDelta(t, cfg.Design.OperatingTemp, temp, 1e-4)
}

func TestSinkTempByMode(t *testing.T) {
	cfg := model.DefaultConstraints()
	coil := NewCoil(cfg)

	assert.InDelta(t, cfg.Design.AmbientTemp+kelvinOffset, coil.sinkTemp(ModeGround), 1e-12)
	assert.InDelta(t, kelvinOffset, coil.sinkTemp(ModeSpace), 1e-12)
}
