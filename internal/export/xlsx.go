package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// ExportWorkbook writes the analysis workbook: a Summary sheet with the
// full report, a Layers sheet with per-layer winding data, a Residuals
// sheet with the constraint margins at the optimum, and a Candidates
// sheet sweeping every admissible turn count.
func ExportWorkbook(path string, design model.Design) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, summary, design); err != nil {
		return err
	}
	if err := writeLayersSheet(f, design); err != nil {
		return err
	}
	if err := writeResidualsSheet(f, design); err != nil {
		return err
	}
	if err := writeCandidatesSheet(f, design); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, sheet string, design model.Design) error {
	report := project.BuildReport(design)

	rows := [][2]interface{}{
		{"Design", design.Name},
		{"Run", report.Performance.RunID},
		{"Status", report.Performance.Status},
		{"", ""},
		{"Outer envelope (mm)", fmt.Sprintf("%.1f x %.1f", report.Dimensions.Outer.Length, report.Dimensions.Outer.Width)},
		{"Inner keep-out (mm)", fmt.Sprintf("%.1f x %.1f", report.Dimensions.Inner.Length, report.Dimensions.Inner.Width)},
		{"Trace width (mm)", report.Traces.Width},
		{"Trace spacing (mm)", report.Traces.Spacing},
		{"Turns per layer", report.Traces.TurnsPerLayer},
		{"Total layers", report.Traces.TotalLayers},
		{"Total trace length (m)", report.Traces.TotalLength},
		{"", ""},
		{"Resistance (Ohm)", report.Electrical.Resistance},
		{"Voltage (V)", report.Electrical.Voltage},
		{"Current (A)", report.Electrical.Current},
		{"Power (W)", report.Electrical.Power},
		{"Current density (A/mm2)", report.Electrical.CurrentDensity},
		{"", ""},
		{"Space equilibrium (C)", report.Thermal.Space.FinalTemperature},
		{"Ground equilibrium (C)", report.Thermal.Ground.FinalTemperature},
		{"", ""},
		{"Inductance (uH)", report.Dynamics.Inductance},
		{"Time constant (ms)", report.Dynamics.TimeConstant},
		{"Time to 99% (ms)", report.Dynamics.TimeTo99Percent},
		{"", ""},
		{"Magnetic moment (A.m2)", report.Performance.MagneticMoment},
		{"Iterations", design.Result.Iterations},
	}

	for i, row := range rows {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeLayersSheet(f *excelize.File, design model.Design) error {
	const sheet = "Layers"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Layer", "Role", "Direction", "Turns", "Trace width (mm)", "Path length (mm)", "Via X (mm)", "Via Y (mm)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, layer := range design.Layers {
		var length float64
		for _, turn := range layer.Turns {
			length += turn.Length()
		}
		length += layer.InputStub.Length()

		row := []interface{}{layer.Layer + 1, "winding", layer.Direction.String(), layer.TurnCount(), layer.TraceWidth, length}
		if v := layer.ExitVia; v != nil {
			row = append(row, v.Position.X, v.Position.Y)
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	// Terminal layer row.
	row := []interface{}{design.Terminal.Layer + 1, "terminal", "", 0, "", ""}
	for j, val := range row {
		cell, err := excelize.CoordinatesToCellName(j+1, len(design.Layers)+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func writeResidualsSheet(f *excelize.File, design model.Design) error {
	const sheet = "Residuals"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	r := design.Result.Residuals
	rows := [][2]interface{}{
		{"Constraint", "Residual (feasible <= 0)"},
		{"Power", r.Power},
		{"Thermal ground", r.ThermalGround},
		{"Thermal space", r.ThermalSpace},
		{"Current density", r.CurrentDensity},
		{"Fit length axis", r.FitLength},
		{"Fit width axis", r.FitWidth},
	}
	for i, row := range rows {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}
	return nil
}

// writeCandidatesSheet re-evaluates the widest admissible trace width for
// every candidate turn count, showing how the chosen optimum compares to
// its neighbors.
func writeCandidatesSheet(f *excelize.File, design model.Design) error {
	const sheet = "Candidates"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Turns", "Trace width (mm)", "Resistance (Ohm)", "Current (A)", "Power (W)", "Moment (A.m2)", "Max residual", "Chosen"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	coil := engine.NewCoil(design.Constraints)
	bounds := design.Constraints.Manufacturing
	low := coil.MaxTurns(bounds.MaxTraceWidth)
	if low < 1 {
		low = 1
	}
	high := coil.MaxTurns(bounds.MinTraceWidth)

	rowIdx := 2
	for n := low; n <= high; n++ {
		_, hi, ok := coil.WidthInterval(n)
		if !ok {
			continue
		}
		point := coil.DesignPointFor(hi)
		state, err := coil.Evaluate(point)
		if err != nil {
			continue
		}
		residuals := coil.ResidualsFor(point, state)

		chosen := ""
		if n == design.Result.Point.Turns {
			chosen = "x"
		}
		row := []interface{}{n, hi * 1e3, state.Resistance, state.Current, state.Power,
			coil.Moment(point, state.Current), residuals.Max(), chosen}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
		rowIdx++
	}
	return nil
}
