package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// ExportDXF writes the complete trace geometry to a DXF drawing, one DXF
// layer per winding layer plus outline, keep-out, via, and terminal
// layers. Coordinates are emitted in millimeters, board-centered, exactly
// as the geometry generator produced them, so the drawing can be imported
// into a PCB tool without transformation.
func ExportDXF(path string, design model.Design) error {
	if len(design.Layers) == 0 {
		return fmt.Errorf("no layers to export")
	}

	d := dxf.NewDrawing()

	cfg := design.Constraints.Design
	if _, err := d.AddLayer("BOARD", color.White, table.LT_CONTINUOUS, true); err != nil {
		return err
	}
	drawRect(d, cfg.OuterWidth*1e3, cfg.OuterLength*1e3)

	if _, err := d.AddLayer("KEEPOUT", color.Yellow, table.LT_CONTINUOUS, true); err != nil {
		return err
	}
	drawRect(d, cfg.InnerWidth*1e3, cfg.InnerLength*1e3)

	copperColors := []color.ColorNumber{color.Red, color.Green, color.Cyan, color.Magenta, color.Blue}
	for i, layer := range design.Layers {
		name := fmt.Sprintf("COIL_L%d", layer.Layer+1)
		if _, err := d.AddLayer(name, copperColors[i%len(copperColors)], table.LT_CONTINUOUS, true); err != nil {
			return err
		}
		for _, turn := range layer.Turns {
			drawPolyline(d, turn)
		}
		drawPolyline(d, layer.InputStub)
	}

	if _, err := d.AddLayer("VIA", color.White, table.LT_CONTINUOUS, true); err != nil {
		return err
	}
	for _, layer := range design.Layers {
		if v := layer.ExitVia; v != nil {
			d.Circle(v.Position.X, v.Position.Y, 0, v.Diameter/2)
			d.Circle(v.Position.X, v.Position.Y, 0, v.Drill/2)
		}
	}

	if _, err := d.AddLayer("TERMINAL", color.Yellow, table.LT_CONTINUOUS, true); err != nil {
		return err
	}
	for _, pad := range design.Terminal.Pads {
		d.Circle(pad.Position.X, pad.Position.Y, 0, pad.Diameter/2)
	}

	return d.SaveAs(path)
}

// drawRect draws an origin-centered rectangle on the current layer.
func drawRect(d *drawing.Drawing, width, length float64) {
	d.LwPolyline(true,
		[]float64{-width / 2, -length / 2, 0},
		[]float64{width / 2, -length / 2, 0},
		[]float64{width / 2, length / 2, 0},
		[]float64{-width / 2, length / 2, 0},
	)
}

// drawPolyline draws an open polyline on the current layer.
func drawPolyline(d *drawing.Drawing, path model.Path) {
	if len(path) < 2 {
		return
	}
	vertices := make([][]float64, len(path))
	for i, pt := range path {
		vertices[i] = []float64{pt.X, pt.Y, 0}
	}
	d.LwPolyline(false, vertices...)
}
