package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// LabelInfo holds the data encoded into each layer label's QR code, so a
// bare board in the integration lab can be traced back to its design run.
type LabelInfo struct {
	Design     string  `json:"design"`
	RunID      string  `json:"run_id"`
	Layer      int     `json:"layer"`
	Role       string  `json:"role"` // "winding" or "terminal"
	Direction  string  `json:"direction,omitempty"`
	Turns      int     `json:"turns,omitempty"`
	TraceWidth float64 `json:"trace_width_mm,omitempty"`
	Moment     float64 `json:"moment_am2"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page). Each label cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels: one per winding layer
// plus one for the terminal layer, laid out on a standard label sheet.
func ExportLabels(path string, design model.Design) error {
	labels := CollectLabelInfos(design)
	if len(labels) == 0 {
		return fmt.Errorf("no layers to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for layer %d: %w", label.Layer, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border for cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.RunID, info.Layer)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	title := fmt.Sprintf("%s L%d", info.Design, info.Layer+1)
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	var detail string
	if info.Role == "terminal" {
		detail = "H-bridge connections"
	} else {
		detail = fmt.Sprintf("%d turns, %.3f mm, %s", info.Turns, info.TraceWidth, info.Direction)
	}
	pdf.CellFormat(textW, 3.5, detail, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Run %s | %.4f A.m2", info.RunID, info.Moment), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a design record for
// use in testing or alternative export formats.
func CollectLabelInfos(design model.Design) []LabelInfo {
	var labels []LabelInfo
	for _, layer := range design.Layers {
		labels = append(labels, LabelInfo{
			Design:     design.Name,
			RunID:      design.Result.RunID,
			Layer:      layer.Layer,
			Role:       "winding",
			Direction:  layer.Direction.String(),
			Turns:      layer.TurnCount(),
			TraceWidth: layer.TraceWidth,
			Moment:     design.Result.Moment,
		})
	}
	if len(labels) > 0 {
		labels = append(labels, LabelInfo{
			Design: design.Name,
			RunID:  design.Result.RunID,
			Layer:  design.Terminal.Layer,
			Role:   "terminal",
			Moment: design.Result.Moment,
		})
	}
	return labels
}
