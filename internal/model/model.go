package model

import (
	"math"

	"github.com/google/uuid"
)

// DesignPoint is the optimizer's decision variable with its derived
// quantities: trace width is the free variable, turn count follows
// deterministically from the board geometry, copper thickness from the
// layer copper weight.
type DesignPoint struct {
	TraceWidth      float64 `json:"trace_width"`      // m
	Turns           int     `json:"turns"`            // per winding layer
	CopperThickness float64 `json:"copper_thickness"` // m
}

// CrossSection returns the conductor cross-sectional area in m².
func (p DesignPoint) CrossSection() float64 {
	return p.TraceWidth * p.CopperThickness
}

// ElectroThermalState holds the derived electrical and thermal quantities
// for one DesignPoint. It is valid only for the point it was computed from
// and is recomputed on every optimizer evaluation.
type ElectroThermalState struct {
	TraceLength       float64 `json:"trace_length"`       // m, all winding layers
	Resistance        float64 `json:"resistance"`         // Ohm, temperature-compensated
	Current           float64 `json:"current"`            // A
	Power             float64 `json:"power"`              // W
	CurrentDensity    float64 `json:"current_density"`    // A/m²
	EquilibriumGround float64 `json:"equilibrium_ground"` // °C, ground-test mode
	EquilibriumSpace  float64 `json:"equilibrium_space"`  // °C, on-orbit mode
}

// WorstEquilibrium returns the higher of the two operating-mode
// equilibrium temperatures.
func (s ElectroThermalState) WorstEquilibrium() float64 {
	return math.Max(s.EquilibriumGround, s.EquilibriumSpace)
}

// Residuals is the signed constraint vector. Every entry must be <= 0
// (within tolerance) at a feasible design point.
type Residuals struct {
	Power          float64 `json:"power"`           // P - max_power
	ThermalGround  float64 `json:"thermal_ground"`  // T_eq(ground) - operating_temp
	ThermalSpace   float64 `json:"thermal_space"`   // T_eq(space) - operating_temp
	CurrentDensity float64 `json:"current_density"` // j - j_max
	FitLength      float64 `json:"fit_length"`      // winding annulus fit, length axis
	FitWidth       float64 `json:"fit_width"`       // winding annulus fit, width axis
}

// Max returns the largest (worst) residual.
func (r Residuals) Max() float64 {
	worst := r.Power
	for _, v := range []float64{r.ThermalGround, r.ThermalSpace, r.CurrentDensity, r.FitLength, r.FitWidth} {
		if v > worst {
			worst = v
		}
	}
	return worst
}

// Feasible reports whether every residual is within tolerance.
func (r Residuals) Feasible(tol float64) bool {
	return r.Max() <= tol
}

// ConvergenceStatus describes how an optimization run terminated.
type ConvergenceStatus string

const (
	StatusConverged  ConvergenceStatus = "converged"  // feasible optimum found
	StatusInfeasible ConvergenceStatus = "infeasible" // iteration budget exhausted without a feasible point
	StatusFailed     ConvergenceStatus = "failed"     // evaluation failed on every candidate
)

// Dynamics holds the RL response characteristics of the finished coil.
type Dynamics struct {
	Inductance   float64 `json:"inductance"`    // H, Wheeler approximation
	TimeConstant float64 `json:"time_constant"` // s, L/R
	TimeTo99     float64 `json:"time_to_99"`    // s, to reach 99% of steady-state moment
}

// OptimizationResult is produced once per run, at convergence or failure,
// and consumed by the geometry generator and the export collaborators.
type OptimizationResult struct {
	RunID      string              `json:"run_id"`
	Status     ConvergenceStatus   `json:"status"`
	Point      DesignPoint         `json:"point"`
	State      ElectroThermalState `json:"state"`
	Residuals  Residuals           `json:"residuals"`
	Moment     float64             `json:"moment"` // A·m²
	Dynamics   Dynamics            `json:"dynamics"`
	Iterations int                 `json:"iterations"`
}

// NewRunID returns a short unique identifier for one optimization run.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// Point2D is a 2D coordinate in millimeters, board-centered.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered polyline of trace centerline coordinates.
type Path []Point2D

// Length returns the total polyline length in mm.
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		dx := p[i].X - p[i-1].X
		dy := p[i].Y - p[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total
}

// WindingDirection is the rotation sense of one layer's spiral, viewed
// from the top of the board.
type WindingDirection int

const (
	Clockwise WindingDirection = iota
	CounterClockwise
)

func (d WindingDirection) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// Via is an inter-layer transition: a plated hole connecting the spiral on
// one layer to the next layer in the series chain.
type Via struct {
	Position  Point2D `json:"position"`
	Drill     float64 `json:"drill"`    // mm
	Diameter  float64 `json:"diameter"` // mm, outer pad
	FromLayer int     `json:"from_layer"`
	ToLayer   int     `json:"to_layer"`
}

// LayerGeometry is the complete trace description of one winding layer:
// the spiral turns from outermost to innermost, the winding direction, and
// the via leaving this layer. On the last winding layer the via feeds the
// H-bridge terminal layer.
type LayerGeometry struct {
	Layer      int              `json:"layer"` // 0-based winding layer index
	Direction  WindingDirection `json:"direction"`
	TraceWidth float64          `json:"trace_width"` // mm
	Turns      []Path           `json:"turns"`       // one path per turn, outer to inner
	InputStub  Path             `json:"input_stub"`  // connection feeding the outermost turn
	ExitVia    *Via             `json:"exit_via,omitempty"`
}

// TurnCount returns the number of turns emitted on this layer.
func (lg LayerGeometry) TurnCount() int {
	return len(lg.Turns)
}

// Pad is a terminal pad on the H-bridge layer.
type Pad struct {
	Label    string  `json:"label"`
	Position Point2D `json:"position"`
	Diameter float64 `json:"diameter"` // mm
}

// TerminalLayer describes the last board layer, reserved for the H-bridge
// driver connections rather than a winding.
type TerminalLayer struct {
	Layer int     `json:"layer"` // board layer index
	Pads  []Pad   `json:"pads"`
	Width float64 `json:"connector_width"` // mm, connector body
}

// Design ties one run together for persistence: the inputs, the optimum,
// and the generated geometry.
type Design struct {
	Name        string          `json:"name"`
	Constraints ConstraintSet   `json:"constraints"`
	Result      OptimizationResult `json:"result"`
	Layers      []LayerGeometry `json:"layers"`
	Terminal    TerminalLayer   `json:"terminal"`
}
