package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/magnetorquer/internal/model"
)

func TestMaxTurns(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	tests := []struct {
		name  string
		width float64 // m
		want  int
	}{
		{"reference width", 0.45e-3, 27},
		{"fab minimum", 0.15e-3, 56},
		{"fab maximum", 1.0e-3, 14},
		{"zero width", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coil.MaxTurns(tt.width))
		})
	}
}

func TestMaxTurnsNoRoom(t *testing.T) {
	cfg := model.DefaultConstraints()
	cfg.Design.InnerLength = cfg.Design.OuterLength - 1e-3
	cfg.Design.InnerWidth = cfg.Design.OuterWidth - 1e-3
	coil := NewCoil(cfg)

	// 0.5 mm of annulus per side cannot hold a 1 mm trace plus clearance.
	assert.Equal(t, 0, coil.MaxTurns(1.0e-3))
}

func TestWidthIntervalBracketsSampledWidths(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	cfg := coil.Constraints()

	// Every width inside the fab bounds must fall into the interval
	// reported for its own turn count.
	for w := cfg.Manufacturing.MinTraceWidth + 1e-6; w < cfg.Manufacturing.MaxTraceWidth; w += 17e-6 {
		n := coil.MaxTurns(w)
		require.GreaterOrEqual(t, n, 1)

		lo, hi, ok := coil.WidthInterval(n)
		require.True(t, ok, "turn count %d has no width interval", n)
		assert.LessOrEqual(t, lo, w)
		assert.LessOrEqual(t, w, hi)
	}
}

func TestWidthIntervalEmptyOutsideBounds(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	_, _, ok := coil.WidthInterval(0)
	assert.False(t, ok)

	// More turns than the fab minimum width allows.
	_, _, ok = coil.WidthInterval(500)
	assert.False(t, ok)
}

func TestLayerLengthGrowsWithTurns(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())

	prev := 0.0
	for n := 1; n <= 20; n++ {
		length := coil.LayerLength(n, 0.45e-3)
		assert.Greater(t, length, prev)
		prev = length
	}
}

func TestResistanceReferencePoint(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	p := coil.DesignPointFor(0.45e-3)
	require.Equal(t, 27, p.Turns)

	// Hand calculation: 8.75 m per winding layer, five winding layers,
	// copper at 65 °C through a 0.45 mm x 34.8 um cross section.
	r := coil.Resistance(p)
	assert.InDelta(t, 55.3, r, 0.5)
}

func TestResistanceInfiniteWithoutTurns(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	r := coil.Resistance(model.DesignPoint{TraceWidth: 0.45e-3})
	assert.True(t, math.IsInf(r, 1))
}

func TestCurrentPowerCapped(t *testing.T) {
	cfg := model.DefaultConstraints()
	coil := NewCoil(cfg)
	p := coil.DesignPointFor(0.45e-3)
	r := coil.Resistance(p)

	// At the reference point the supply could push ~0.15 A, but the 1 W
	// budget at 8.2 V caps the current first.
	got := coil.Current(p, r)
	assert.InDelta(t, cfg.Design.MaxPower/cfg.Design.Voltage, got, 1e-12)
}

func TestCurrentSupplyLimitedAtHighResistance(t *testing.T) {
	cfg := model.DefaultConstraints()
	cfg.Design.MaxPower = 50.0
	coil := NewCoil(cfg)
	p := coil.DesignPointFor(0.15e-3)
	r := coil.Resistance(p)

	// A generous power budget on a thin, long winding leaves V/R as the
	// binding limit.
	got := coil.Current(p, r)
	assert.InDelta(t, cfg.Design.Voltage/r, got, 1e-12)
}

func TestEvaluateReferencePointFeasible(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	p := coil.DesignPointFor(0.45e-3)

	state, err := coil.Evaluate(p)
	require.NoError(t, err)

	res := coil.ResidualsFor(p, state)
	assert.True(t, res.Feasible(1e-9), "residuals: %+v", res)

	assert.Less(t, state.Power, coil.Constraints().Design.MaxPower)
	assert.Less(t, state.WorstEquilibrium(), coil.Constraints().Design.OperatingTemp)
	assert.InDelta(t, 0.82, state.Power, 0.05)
	assert.InDelta(t, 29.0, state.EquilibriumGround, 1.0)
}

func TestEvaluateNoWindingRoom(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	_, err := coil.Evaluate(model.DesignPoint{TraceWidth: 0.45e-3})
	assert.ErrorIs(t, err, ErrNoWindingRoom)
}

func TestMomentScalesWithCurrent(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	p := coil.DesignPointFor(0.45e-3)

	base := coil.Moment(p, 0.1)
	assert.Greater(t, base, 0.0)
	assert.InDelta(t, 2*base, coil.Moment(p, 0.2), 1e-12)
	assert.Zero(t, coil.Moment(p, 0))
}

func TestDynamicsForReferencePoint(t *testing.T) {
	coil := NewCoil(model.DefaultConstraints())
	p := coil.DesignPointFor(0.45e-3)
	r := coil.Resistance(p)

	dyn := coil.DynamicsFor(p, r)
	assert.Greater(t, dyn.Inductance, 0.0)
	assert.InDelta(t, dyn.Inductance/r, dyn.TimeConstant, 1e-15)
	assert.InDelta(t, dyn.TimeConstant*math.Log(100), dyn.TimeTo99, 1e-12)
}
