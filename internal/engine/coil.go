// Package engine implements the electro-thermal coil model, the thermal
// equilibrium solver, the constraint evaluator, and the optimization core
// that searches trace width and turn count for the moment-maximizing
// magnetorquer design.
package engine

import (
	"math"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// Coil evaluates a candidate trace width against a fixed ConstraintSet.
// All methods are pure: the same input always yields the same output, and
// a Coil can be shared across runs.
type Coil struct {
	cfg       model.ConstraintSet
	thickness float64 // copper thickness, m
	layers    int     // winding layers
}

// NewCoil builds a Coil for the given constraint set. The set must already
// have passed Validate.
func NewCoil(cfg model.ConstraintSet) *Coil {
	return &Coil{
		cfg:       cfg,
		thickness: cfg.CopperThickness(),
		layers:    cfg.CoilLayers(),
	}
}

// Constraints returns the constraint set the coil was built from.
func (c *Coil) Constraints() model.ConstraintSet { return c.cfg }

// turnPitch is the center-to-center distance between adjacent turns.
func (c *Coil) turnPitch(width float64) float64 {
	return width + c.cfg.Manufacturing.MinTraceSpacing
}

// innerClearance is the margin the innermost turn must keep from the
// central keep-out: one trace plus a spacing gap on each side.
func (c *Coil) innerClearance(width float64) float64 {
	return width + 2*c.cfg.Manufacturing.MinTraceSpacing
}

// MaxTurns returns the number of turns that fit in the winding annulus for
// the given trace width. The more constraining board axis wins. Zero means
// the width leaves no room to wind at all.
func (c *Coil) MaxTurns(width float64) int {
	if width <= 0 {
		return 0
	}
	clearance := c.innerClearance(width)
	availLength := (c.cfg.Design.OuterLength - c.cfg.Design.InnerLength) / 2
	availWidth := (c.cfg.Design.OuterWidth - c.cfg.Design.InnerWidth) / 2
	availLength -= clearance
	availWidth -= clearance
	if availLength <= 0 || availWidth <= 0 {
		return 0
	}
	pitch := c.turnPitch(width)
	byLength := int(availLength / pitch)
	byWidth := int(availWidth / pitch)
	n := byLength
	if byWidth < n {
		n = byWidth
	}
	if n < 1 {
		n = 1
	}
	return n
}

// WidthInterval returns the half-open trace-width interval (lo, hi] on
// which MaxTurns yields exactly n, clipped to the manufacturing bounds.
// ok is false when the interval is empty. This is the exact inverse of
// MaxTurns, so the outer turn-count loop and the per-width evaluation can
// never disagree.
func (c *Coil) WidthInterval(n int) (lo, hi float64, ok bool) {
	if n < 1 {
		return 0, 0, false
	}
	// MaxTurns(w) >= n  <=>  w <= widthCeil(n) on both axes.
	widthCeil := func(turns int) float64 {
		s := c.cfg.Manufacturing.MinTraceSpacing
		byLength := ((c.cfg.Design.OuterLength-c.cfg.Design.InnerLength)/2 - 2*s - float64(turns)*s) / float64(turns+1)
		byWidth := ((c.cfg.Design.OuterWidth-c.cfg.Design.InnerWidth)/2 - 2*s - float64(turns)*s) / float64(turns+1)
		return math.Min(byLength, byWidth)
	}
	lo = widthCeil(n + 1)
	hi = widthCeil(n)
	if lo < c.cfg.Manufacturing.MinTraceWidth {
		lo = c.cfg.Manufacturing.MinTraceWidth
	}
	if hi > c.cfg.Manufacturing.MaxTraceWidth {
		hi = c.cfg.Manufacturing.MaxTraceWidth
	}
	if hi <= 0 || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// TurnLength returns the centerline length of turn number turn (0-based,
// outermost first), including the drop connection to the next turn.
func (c *Coil) TurnLength(turn int, width float64) float64 {
	offset := float64(turn) * c.turnPitch(width)
	length := c.cfg.Design.OuterLength - 2*offset
	w := c.cfg.Design.OuterWidth - 2*offset
	return 2*(length+w) + c.turnPitch(width)
}

// TurnArea returns the area enclosed by turn number turn.
func (c *Coil) TurnArea(turn int, width float64) float64 {
	offset := float64(turn) * c.turnPitch(width)
	return (c.cfg.Design.OuterLength - 2*offset) * (c.cfg.Design.OuterWidth - 2*offset)
}

// LayerLength returns the total centerline trace length of one winding
// layer with the given turn count.
func (c *Coil) LayerLength(turns int, width float64) float64 {
	var total float64
	for t := 0; t < turns; t++ {
		total += c.TurnLength(t, width)
	}
	return total
}

// TotalTurnArea returns the summed enclosed area of all turns on one layer.
func (c *Coil) TotalTurnArea(turns int, width float64) float64 {
	var total float64
	for t := 0; t < turns; t++ {
		total += c.TurnArea(t, width)
	}
	return total
}

// DesignPointFor derives the full DesignPoint for a trace width.
func (c *Coil) DesignPointFor(width float64) model.DesignPoint {
	return model.DesignPoint{
		TraceWidth:      width,
		Turns:           c.MaxTurns(width),
		CopperThickness: c.thickness,
	}
}

// Resistance returns the series resistance of all winding layers,
// temperature-compensated to the target operating temperature against the
// 20 °C reference resistivity.
func (c *Coil) Resistance(p model.DesignPoint) float64 {
	if p.Turns < 1 || p.TraceWidth <= 0 {
		return math.Inf(1)
	}
	length := c.LayerLength(p.Turns, p.TraceWidth) * float64(c.layers)
	deltaT := c.cfg.Design.OperatingTemp - referenceTemp
	rho := c.cfg.Physical.CopperResistivity * (1 + c.cfg.Physical.TemperatureCoefficient*deltaT)
	return rho * length / p.CrossSection()
}

// referenceTemp is the temperature (°C) at which the copper resistivity
// constant is specified.
const referenceTemp = 20.0

// Current returns the operating current: the supply current V/R, capped by
// the power budget, the thermal equilibrium limit of the worse operating
// mode, and the manufacturing current-density limit.
func (c *Coil) Current(p model.DesignPoint, resistance float64) float64 {
	if resistance <= 0 || math.IsInf(resistance, 1) {
		return 0
	}
	fromSupply := c.cfg.Design.Voltage / resistance
	fromPower := c.cfg.Design.MaxPower / c.cfg.Design.Voltage
	fromDensity := c.cfg.Physical.CurrentDensityLimit * p.CrossSection()
	fromThermal := math.Sqrt(c.AllowablePower() / resistance)

	current := fromSupply
	for _, limit := range []float64{fromPower, fromDensity, fromThermal} {
		if limit < current {
			current = limit
		}
	}
	return current
}

// Evaluate computes the full electro-thermal state of a design point.
// A point whose thermal equilibrium cannot be found is reported with the
// solver error so the optimizer can penalize it; the state is still
// populated with the electrical quantities.
func (c *Coil) Evaluate(p model.DesignPoint) (model.ElectroThermalState, error) {
	state := model.ElectroThermalState{}
	if p.Turns < 1 {
		return state, ErrNoWindingRoom
	}

	resistance := c.Resistance(p)
	current := c.Current(p, resistance)
	power := current * current * resistance

	state.TraceLength = c.LayerLength(p.Turns, p.TraceWidth) * float64(c.layers)
	state.Resistance = resistance
	state.Current = current
	state.Power = power
	state.CurrentDensity = current / p.CrossSection()

	ground, err := c.Equilibrium(power, ModeGround)
	if err != nil {
		return state, err
	}
	space, err := c.Equilibrium(power, ModeSpace)
	if err != nil {
		return state, err
	}
	state.EquilibriumGround = ground
	state.EquilibriumSpace = space
	return state, nil
}

// Moment returns the magnetic moment of the full coil stack for a design
// point at the given operating current.
func (c *Coil) Moment(p model.DesignPoint, current float64) float64 {
	if p.Turns < 1 || current <= 0 {
		return 0
	}
	return c.TotalTurnArea(p.Turns, p.TraceWidth) * current * float64(c.layers)
}
