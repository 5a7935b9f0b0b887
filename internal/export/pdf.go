// Package export renders finished designs to manufacturing and review
// artifacts: layer diagrams as PDF, board outlines and traces as DXF,
// QR-coded build labels, and an analysis workbook.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates the design review document: one page per winding
// layer with the spiral rendered to scale, a page for the terminal layer,
// and a closing summary page with the full analysis tables.
func ExportPDF(path string, design model.Design) error {
	if len(design.Layers) == 0 {
		return fmt.Errorf("no layers to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, layer := range design.Layers {
		pdf.AddPage()
		renderLayerPage(pdf, design, layer)
	}

	pdf.AddPage()
	renderTerminalPage(pdf, design)

	pdf.AddPage()
	renderSummaryPage(pdf, design)

	return pdf.OutputFileAndClose(path)
}

// frame maps board-centered millimeter coordinates onto the current page.
type frame struct {
	scale   float64
	centerX float64
	centerY float64
}

// boardFrame computes the scale fitting the board (plus a little margin
// for stubs that poke past the edge) into the drawing area.
func boardFrame(design model.Design) frame {
	boardW := design.Constraints.Design.OuterWidth * 1e3
	boardL := design.Constraints.Design.OuterLength * 1e3
	extra := 8.0 // mm of board space for stubs and the connector

	drawW := pageWidth - marginLeft - marginRight
	drawH := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawW/(boardW+2*extra), drawH/(boardL+2*extra))

	return frame{
		scale:   scale,
		centerX: marginLeft + drawW/2,
		centerY: drawAreaTop + drawH/2,
	}
}

func (f frame) x(v float64) float64 { return f.centerX + v*f.scale }

// y flips the axis: board +Y is up, PDF +Y is down.
func (f frame) y(v float64) float64 { return f.centerY - v*f.scale }

// renderLayerPage draws one winding layer to scale.
func renderLayerPage(pdf *fpdf.Fpdf, design model.Design, layer model.LayerGeometry) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Layer %d (%s)", design.Name, layer.Layer+1, layer.Direction)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Turns: %d | Trace width: %.3f mm | Run: %s",
		layer.TurnCount(), layer.TraceWidth, design.Result.RunID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	f := boardFrame(design)
	drawBoardOutline(pdf, design, f)

	// Spiral turns, shaded from outermost to innermost.
	pdf.SetLineWidth(math.Max(layer.TraceWidth*f.scale, 0.2))
	for n, turn := range layer.Turns {
		shade := 40 + 160*n/len(layer.Turns)
		pdf.SetDrawColor(shade, 60, 180-120*n/len(layer.Turns))
		drawPath(pdf, f, turn)
	}

	// Input stub in copper orange.
	pdf.SetDrawColor(200, 120, 0)
	drawPath(pdf, f, layer.InputStub)

	if layer.ExitVia != nil {
		v := layer.ExitVia
		pdf.SetFillColor(220, 220, 220)
		pdf.SetDrawColor(60, 60, 60)
		pdf.SetLineWidth(0.2)
		pdf.Circle(f.x(v.Position.X), f.y(v.Position.Y), math.Max(v.Diameter/2*f.scale, 0.8), "FD")
	}
}

// renderTerminalPage draws the H-bridge connection layer.
func renderTerminalPage(pdf *fpdf.Fpdf, design model.Design) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Layer %d (H-bridge connections)", design.Name, design.Terminal.Layer+1)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	f := boardFrame(design)
	drawBoardOutline(pdf, design, f)

	term := design.Terminal
	if term.Width > 0 {
		// Connector body just off the board edge.
		bodyW := term.Width * f.scale
		bodyH := 8.0 * f.scale
		bodyX := f.x(design.Constraints.Design.OuterWidth*1e3/2 + 1)
		pdf.SetFillColor(230, 230, 230)
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bodyX, f.y(0)-bodyH/2, bodyW, bodyH, "FD")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, pad := range term.Pads {
		pdf.SetFillColor(212, 175, 55)
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
		r := math.Max(pad.Diameter/2*f.scale, 1.0)
		pdf.Circle(f.x(pad.Position.X), f.y(pad.Position.Y), r, "FD")
		pdf.SetXY(f.x(pad.Position.X)+r+1, f.y(pad.Position.Y)-2)
		pdf.CellFormat(8, 4, pad.Label, "", 0, "L", false, 0, "")
	}
}

// drawBoardOutline draws the board envelope and the central keep-out.
func drawBoardOutline(pdf *fpdf.Fpdf, design model.Design, f frame) {
	cfg := design.Constraints.Design
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)

	ow := cfg.OuterWidth * 1e3 * f.scale
	ol := cfg.OuterLength * 1e3 * f.scale
	pdf.Rect(f.centerX-ow/2, f.centerY-ol/2, ow, ol, "D")

	iw := cfg.InnerWidth * 1e3 * f.scale
	il := cfg.InnerLength * 1e3 * f.scale
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.3)
	pdf.Rect(f.centerX-iw/2, f.centerY-il/2, iw, il, "D")
}

// drawPath strokes a polyline in board coordinates.
func drawPath(pdf *fpdf.Fpdf, f frame, path model.Path) {
	for i := 1; i < len(path); i++ {
		pdf.Line(f.x(path[i-1].X), f.y(path[i-1].Y), f.x(path[i].X), f.y(path[i].Y))
	}
}

// renderSummaryPage draws the analysis tables for the whole design.
func renderSummaryPage(pdf *fpdf.Fpdf, design model.Design) {
	report := project.BuildReport(design)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, fmt.Sprintf("Magnetorquer Design Summary - %s", design.Name), "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	y = renderKeyValueTable(pdf, "Winding", y, [][2]string{
		{"Board envelope", fmt.Sprintf("%.1f x %.1f mm", report.Dimensions.Outer.Length, report.Dimensions.Outer.Width)},
		{"Central keep-out", fmt.Sprintf("%.1f x %.1f mm", report.Dimensions.Inner.Length, report.Dimensions.Inner.Width)},
		{"Trace width / spacing", fmt.Sprintf("%.3f / %.3f mm", report.Traces.Width, report.Traces.Spacing)},
		{"Turns per layer", fmt.Sprintf("%d across %d layers", report.Traces.TurnsPerLayer, report.Traces.TotalLayers-1)},
		{"Total trace length", fmt.Sprintf("%.1f m", report.Traces.TotalLength)},
	})

	y = renderKeyValueTable(pdf, "Electrical", y+4, [][2]string{
		{"Resistance", fmt.Sprintf("%.2f Ohm", report.Electrical.Resistance)},
		{"Supply voltage", fmt.Sprintf("%.2f V", report.Electrical.Voltage)},
		{"Operating current", fmt.Sprintf("%.3f A", report.Electrical.Current)},
		{"Power dissipation", fmt.Sprintf("%.2f W", report.Electrical.Power)},
		{"Current density", fmt.Sprintf("%.2f A/mm2", report.Electrical.CurrentDensity)},
	})

	renderKeyValueTable(pdf, "Thermal", y+4, [][2]string{
		{"Space equilibrium", fmt.Sprintf("%.2f C", report.Thermal.Space.FinalTemperature)},
		{"Ground equilibrium", fmt.Sprintf("%.2f C (ambient %.1f C)", report.Thermal.Ground.FinalTemperature, report.Thermal.Ground.Ambient)},
	})

	// Right column.
	y = marginTop + 18
	y = renderKeyValueTableAt(pdf, "Dynamics", pageWidth/2+5, y, [][2]string{
		{"Inductance", fmt.Sprintf("%.3f uH", report.Dynamics.Inductance)},
		{"Time constant", fmt.Sprintf("%.2f ms", report.Dynamics.TimeConstant)},
		{"Time to 99% moment", fmt.Sprintf("%.2f ms", report.Dynamics.TimeTo99Percent)},
	})

	renderKeyValueTableAt(pdf, "Performance", pageWidth/2+5, y+4, [][2]string{
		{"Magnetic moment", fmt.Sprintf("%.4f A.m2", report.Performance.MagneticMoment)},
		{"Convergence", report.Performance.Status},
		{"Run", report.Performance.RunID},
		{"Iterations", fmt.Sprintf("%d", design.Result.Iterations)},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by magnetorquer - PCB coil designer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func renderKeyValueTable(pdf *fpdf.Fpdf, heading string, y float64, rows [][2]string) float64 {
	return renderKeyValueTableAt(pdf, heading, marginLeft, y, rows)
}

func renderKeyValueTableAt(pdf *fpdf.Fpdf, heading string, x, y float64, rows [][2]string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetXY(x+5, y)
		pdf.CellFormat(55, 6, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, row[1], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}
