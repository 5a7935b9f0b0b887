package engine

import (
	"math"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// wheelerK is the empirical constant of Wheeler's inductance approximation
// for rectangular planar coils.
const wheelerK = 0.4

// Inductance estimates the series inductance of the full coil stack using
// Wheeler's formula with the mean of the inner and outer board envelopes
// as the effective diameter.
func (c *Coil) Inductance(p model.DesignPoint) float64 {
	if p.Turns < 1 || p.TraceWidth <= 0 {
		return 0
	}
	avgLength := (c.cfg.Design.OuterLength + c.cfg.Design.InnerLength) / 2
	avgWidth := (c.cfg.Design.OuterWidth + c.cfg.Design.InnerWidth) / 2
	avgDiameter := (avgLength + avgWidth) / 2

	totalTurns := float64(p.Turns * c.layers)
	return wheelerK * c.cfg.Physical.VacuumPermeability * totalTurns * totalTurns *
		avgDiameter * (math.Log(4*avgDiameter/p.TraceWidth) - 0.5)
}

// DynamicsFor returns the RL response characteristics of a design point:
// the Wheeler inductance, the L/R time constant, and the time for the
// moment to reach 99% of steady state.
func (c *Coil) DynamicsFor(p model.DesignPoint, resistance float64) model.Dynamics {
	inductance := c.Inductance(p)
	if resistance <= 0 || math.IsInf(resistance, 1) {
		return model.Dynamics{Inductance: inductance}
	}
	tau := inductance / resistance
	return model.Dynamics{
		Inductance:   inductance,
		TimeConstant: tau,
		TimeTo99:     -tau * math.Log(1-0.99),
	}
}
