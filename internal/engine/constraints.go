package engine

import (
	"github.com/piwi3910/magnetorquer/internal/model"
)

// ResidualsFor assembles the signed constraint vector for an evaluated
// design point. Every entry must be <= 0 at a feasible point; the trace
// width bounds are enforced as variable bounds by the optimizer and do not
// appear here.
func (c *Coil) ResidualsFor(p model.DesignPoint, s model.ElectroThermalState) model.Residuals {
	pitch := c.turnPitch(p.TraceWidth)
	return model.Residuals{
		Power:          s.Power - c.cfg.Design.MaxPower,
		ThermalGround:  s.EquilibriumGround - c.cfg.Design.OperatingTemp,
		ThermalSpace:   s.EquilibriumSpace - c.cfg.Design.OperatingTemp,
		CurrentDensity: s.CurrentDensity - c.cfg.Physical.CurrentDensityLimit,
		FitLength:      float64(p.Turns)*pitch - (c.cfg.Design.OuterLength-c.cfg.Design.InnerLength)/2,
		FitWidth:       float64(p.Turns)*pitch - (c.cfg.Design.OuterWidth-c.cfg.Design.InnerWidth)/2,
	}
}

// divergedResiduals is the penalty vector assigned to a trial whose
// thermal solve diverged, so the optimizer steps firmly away from it.
func divergedResiduals() model.Residuals {
	const penalty = 1e6
	return model.Residuals{
		Power:          penalty,
		ThermalGround:  penalty,
		ThermalSpace:   penalty,
		CurrentDensity: penalty,
	}
}
