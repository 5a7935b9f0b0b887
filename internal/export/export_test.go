package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/magnetorquer/internal/engine"
	"github.com/piwi3910/magnetorquer/internal/geometry"
	"github.com/piwi3910/magnetorquer/internal/model"
)

// buildTestDesign assembles a real design record by running the geometry
// generator on the reference constraint set.
func buildTestDesign(t *testing.T) model.Design {
	t.Helper()

	cfg := model.DefaultConstraints()
	coil := engine.NewCoil(cfg)
	point := coil.DesignPointFor(0.45e-3)
	state, err := coil.Evaluate(point)
	require.NoError(t, err)

	result := model.OptimizationResult{
		RunID:     "deadbeef",
		Status:    model.StatusConverged,
		Point:     point,
		State:     state,
		Residuals: coil.ResidualsFor(point, state),
		Moment:    coil.Moment(point, state.Current),
		Dynamics:  coil.DynamicsFor(point, state.Resistance),
	}

	design, err := geometry.NewGenerator(cfg).Design("qualification-unit", result)
	require.NoError(t, err)
	return design
}

func TestExportPDFCreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.pdf")
	require.NoError(t, ExportPDF(path, buildTestDesign(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output is not a PDF")
	assert.Greater(t, len(data), 1000)
}

func TestExportPDFRejectsEmptyDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.pdf")
	err := ExportPDF(path, model.Design{Name: "empty"})
	assert.Error(t, err)
}

func TestExportLabelsCreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, buildTestDesign(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestCollectLabelInfos(t *testing.T) {
	design := buildTestDesign(t)
	labels := CollectLabelInfos(design)

	// One per winding layer plus the terminal layer.
	require.Len(t, labels, design.Constraints.CoilLayers()+1)
	for i, label := range labels[:len(labels)-1] {
		assert.Equal(t, "winding", label.Role)
		assert.Equal(t, i, label.Layer)
		assert.Equal(t, 27, label.Turns)
		assert.Equal(t, "deadbeef", label.RunID)
	}
	last := labels[len(labels)-1]
	assert.Equal(t, "terminal", last.Role)
	assert.Equal(t, design.Terminal.Layer, last.Layer)
}

func TestCollectLabelInfosEmptyDesign(t *testing.T) {
	assert.Empty(t, CollectLabelInfos(model.Design{}))
}

func TestExportDXFCreatesDrawing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.dxf")
	design := buildTestDesign(t)
	require.NoError(t, ExportDXF(path, design))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "BOARD")
	assert.Contains(t, content, "KEEPOUT")
	assert.Contains(t, content, "COIL_L1")
	assert.Contains(t, content, "COIL_L5")
	assert.Contains(t, content, "TERMINAL")
}

func TestExportWorkbookCreatesSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.xlsx")
	design := buildTestDesign(t)
	require.NoError(t, ExportWorkbook(path, design))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Layers", "Residuals", "Candidates"}, f.GetSheetList())

	name, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "qualification-unit", name)

	turns, err := f.GetCellValue("Layers", "D2")
	require.NoError(t, err)
	assert.Equal(t, "27", turns)

	// The candidate sweep marks exactly the turn count the run chose.
	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	require.Greater(t, len(rows), 2)
	chosen := 0
	for _, row := range rows[1:] {
		if len(row) >= 8 && row[7] == "x" {
			chosen++
			assert.Equal(t, "27", row[0])
		}
	}
	assert.Equal(t, 1, chosen)
}
