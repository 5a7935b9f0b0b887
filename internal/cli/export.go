package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/magnetorquer/internal/export"
	"github.com/piwi3910/magnetorquer/internal/model"
	"github.com/piwi3910/magnetorquer/internal/project"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	outputDir string
	formats   string
}

// newExportCmd creates the export command, emitting the manufacturing and
// review artifacts for a saved design record.
func newExportCmd() *cobra.Command {
	opts := exportOpts{
		outputDir: "output",
		formats:   "pdf,dxf,labels,xlsx",
	}

	cmd := &cobra.Command{
		Use:   "export [design.json]",
		Short: "Export manufacturing artifacts for a design record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			path := project.DefaultDesignPath()
			if len(args) == 1 {
				path = args[0]
			}
			design, err := project.LoadDesign(path)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
				return err
			}

			p := newProgress(logger)
			count := 0
			for _, format := range strings.Split(opts.formats, ",") {
				format = strings.TrimSpace(format)
				if format == "" {
					continue
				}
				out, err := exportFormat(opts.outputDir, format, design)
				if err != nil {
					return fmt.Errorf("export %s: %w", format, err)
				}
				logger.Info("wrote artifact", "format", format, "path", out)
				count++
			}
			p.done(fmt.Sprintf("Exported %d artifacts", count))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", opts.outputDir, "output directory")
	cmd.Flags().StringVarP(&opts.formats, "formats", "f", opts.formats, "comma-separated formats: pdf, dxf, labels, xlsx, report")
	return cmd
}

// exportFormat dispatches one artifact and returns the written path.
func exportFormat(dir, format string, design model.Design) (string, error) {
	base := strings.ReplaceAll(strings.ToLower(design.Name), " ", "_")
	switch format {
	case "pdf":
		out := filepath.Join(dir, base+".pdf")
		return out, export.ExportPDF(out, design)
	case "dxf":
		out := filepath.Join(dir, base+".dxf")
		return out, export.ExportDXF(out, design)
	case "labels":
		out := filepath.Join(dir, base+"_labels.pdf")
		return out, export.ExportLabels(out, design)
	case "xlsx":
		out := filepath.Join(dir, base+".xlsx")
		return out, export.ExportWorkbook(out, design)
	case "report":
		out := filepath.Join(dir, base+"_report.json")
		return out, project.SaveReport(out, project.BuildReport(design))
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
