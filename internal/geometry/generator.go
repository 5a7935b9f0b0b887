// Package geometry maps a final optimized design point to explicit
// per-layer spiral trace paths. The mapping is deterministic and does no
// iteration: the turn count, width, and spacing are fixed inputs, and the
// output is pure coordinate data for the export collaborators.
package geometry

import (
	"errors"
	"fmt"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/model"
)

// ErrGeometryInconsistency means the requested turn count does not match
// what the board envelope admits at the requested trace width. The
// optimizer derives turns with the same fitting rule used here, so this
// error signals a caller bug, never a normal operating condition.
var ErrGeometryInconsistency = errors.New("turn count inconsistent with board envelope")

// Via drill and pad sizes for the inter-layer transitions, standard for
// 1 oz copper boards.
const (
	viaDrillMM    = 0.3
	viaDiameterMM = 0.6
)

// H-bridge connector footprint on the terminal layer.
const (
	connectorWidthMM  = 5.0
	connectorLengthMM = 8.0
	padDiameterMM     = 1.2
	padPitchMM        = 2.0
)

// Generator produces trace geometry for one constraint set. All
// coordinates are emitted in millimeters, centered on the board origin,
// X along the board width and Y along the board length.
type Generator struct {
	cfg  model.ConstraintSet
	coil *engine.Coil
}

// NewGenerator builds a generator sharing the coil model's turn-fitting
// rule, so geometry and optimization can never disagree.
func NewGenerator(cfg model.ConstraintSet) *Generator {
	return &Generator{cfg: cfg, coil: engine.NewCoil(cfg)}
}

// layout holds the per-layer frame in millimeters.
type layout struct {
	boardLength float64 // Y extent
	boardWidth  float64 // X extent
	pitch       float64 // turn center-to-center distance
	chamfer     float64 // corner cut length, one pitch
}

func (g *Generator) layoutFor(width float64) layout {
	pitch := (width + g.cfg.Manufacturing.MinTraceSpacing) * 1e3
	return layout{
		boardLength: g.cfg.Design.OuterLength * 1e3,
		boardWidth:  g.cfg.Design.OuterWidth * 1e3,
		pitch:       pitch,
		chamfer:     pitch,
	}
}

// Generate expands a design point into one LayerGeometry per winding
// layer. The last board layer carries no winding; see Terminal.
func (g *Generator) Generate(point model.DesignPoint) ([]model.LayerGeometry, error) {
	if err := g.check(point); err != nil {
		return nil, err
	}

	layers := make([]model.LayerGeometry, g.cfg.CoilLayers())
	for i := range layers {
		layers[i] = g.layer(i, point)
	}
	return layers, nil
}

// check enforces the turn-fitting invariant: the point's turn count must
// be exactly what the envelope admits at its width, with the innermost
// turn keeping a full clearance from the central keep-out.
func (g *Generator) check(point model.DesignPoint) error {
	fit := g.coil.MaxTurns(point.TraceWidth)
	if fit < 1 {
		return fmt.Errorf("%w: no room for any turn at width %.3f mm", ErrGeometryInconsistency, point.TraceWidth*1e3)
	}
	if point.Turns != fit {
		return fmt.Errorf("%w: %d turns requested, envelope admits %d at width %.3f mm",
			ErrGeometryInconsistency, point.Turns, fit, point.TraceWidth*1e3)
	}
	return nil
}

// layer builds the spiral for one winding layer. Even layers wind
// clockwise, odd layers counter-clockwise (mirrored across the Y axis),
// so the series-connected stack drives a consistent net flux direction.
func (g *Generator) layer(idx int, point model.DesignPoint) model.LayerGeometry {
	l := g.layoutFor(point.TraceWidth)
	direction := model.Clockwise
	mirror := 1.0
	if idx%2 == 1 {
		direction = model.CounterClockwise
		mirror = -1.0
	}

	lg := model.LayerGeometry{
		Layer:      idx,
		Direction:  direction,
		TraceWidth: point.TraceWidth * 1e3,
		Turns:      make([]model.Path, 0, point.Turns),
	}

	for n := 0; n < point.Turns; n++ {
		last := n == point.Turns-1
		turn, exit := g.turn(l, n, idx, last, mirror)
		lg.Turns = append(lg.Turns, turn)
		if last {
			lg.ExitVia = exit
		}
	}
	lg.InputStub = g.inputStub(l, idx, mirror)
	return lg
}

// turn emits the polyline of turn n (0-based, outermost first) as a
// chamfered rectangle winding inward, including the drop segment into the
// next turn. The final turn instead routes to the exit via and returns it.
func (g *Generator) turn(l layout, n, layerIdx int, last bool, mirror float64) (model.Path, *model.Via) {
	offset := float64(n) * l.pitch
	c := l.chamfer

	xStart := -l.boardWidth/2 + offset
	yStart := -l.boardLength/2 + offset
	xEnd := xStart + (l.boardWidth - 2*offset)
	yEnd := yStart + (l.boardLength - 2*offset)
	yInner := yEnd - l.pitch  // bottom rail, one pitch inside the entry rail
	xInner := xStart + l.pitch // left rail of the next turn

	path := model.Path{
		{X: xStart, Y: yEnd - c},   // entry on the left rail
		{X: xStart, Y: yStart + c}, // left vertical
		{X: xStart + c, Y: yStart}, // corner
		{X: xEnd - c, Y: yStart},   // top horizontal
		{X: xEnd, Y: yStart + c},   // corner
		{X: xEnd, Y: yInner - c},   // right vertical
		{X: xEnd - c, Y: yInner},   // corner
	}

	var exit *model.Via
	if last {
		// Route out of the spiral to the transition point. The exit via
		// sits at a fixed radial offset from the innermost rail on every
		// layer, keeping the transition stack aligned.
		xExit := xInner + 2*c
		path = append(path,
			model.Point2D{X: xExit, Y: yInner},
			model.Point2D{X: xExit - c, Y: yInner - 1.5*c},
		)
		pos := model.Point2D{X: mirror * (xExit - c), Y: yInner - 1.5*c}
		exit = &model.Via{
			Position:  pos,
			Drill:     viaDrillMM,
			Diameter:  viaDiameterMM,
			FromLayer: layerIdx,
			ToLayer:   layerIdx + 1,
		}
	} else {
		path = append(path,
			model.Point2D{X: xInner + c, Y: yInner}, // bottom horizontal
			model.Point2D{X: xInner, Y: yInner - c}, // drop into the next turn
		)
	}

	for i := range path {
		path[i].X *= mirror
	}
	return path, exit
}

// inputStub emits the connection feeding the outermost turn. Layer 0 is
// fed directly from the supply edge; deeper layers are fed from the
// previous layer's exit via through a short dog-leg.
func (g *Generator) inputStub(l layout, layerIdx int, mirror float64) model.Path {
	c := l.chamfer
	xStart := -l.boardWidth / 2
	yEnd := l.boardLength / 2

	var path model.Path
	if layerIdx == 0 {
		path = model.Path{
			{X: xStart, Y: yEnd - c},
			{X: xStart, Y: yEnd + 1.5*c},
		}
	} else {
		xVia := xStart + l.pitch + 3*c
		path = model.Path{
			{X: xStart, Y: yEnd - c},
			{X: xStart + c, Y: yEnd},
			{X: xVia - c, Y: yEnd},
			{X: xVia, Y: yEnd - 1.5*c},
		}
	}

	for i := range path {
		path[i].X *= mirror
	}
	return path
}

// Terminal describes the H-bridge connection layer: the last board layer,
// carrying the driver connector and its two pads instead of a winding.
func (g *Generator) Terminal() model.TerminalLayer {
	connX := g.cfg.Design.OuterWidth*1e3/2 + 1 + connectorWidthMM/2
	return model.TerminalLayer{
		Layer: g.cfg.Design.NumLayers - 1,
		Width: connectorWidthMM,
		Pads: []model.Pad{
			{Label: "I", Position: model.Point2D{X: connX, Y: -padPitchMM}, Diameter: padDiameterMM},
			{Label: "O", Position: model.Point2D{X: connX, Y: padPitchMM}, Diameter: padDiameterMM},
		},
	}
}

// Design assembles the complete persistable record for one run: the
// inputs, the optimization result, and the expanded geometry.
func (g *Generator) Design(name string, result model.OptimizationResult) (model.Design, error) {
	layers, err := g.Generate(result.Point)
	if err != nil {
		return model.Design{}, err
	}
	return model.Design{
		Name:        name,
		Constraints: g.cfg,
		Result:      result,
		Layers:      layers,
		Terminal:    g.Terminal(),
	}, nil
}
