package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// NewDocument builds the document chain: classify the document kind,
// export a PDF report when the task asks for one, then summarize the
// filing decision. An empty exportDir falls back to the system temp
// directory.
func NewDocument(logger *zap.Logger, exportDir string) *Pipeline {
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	return New("document", logger,
		Step{Name: "classify", Run: classifyDocument},
		Step{Name: "export", Run: exportDocument(exportDir)},
		Step{Name: "summarize", Run: summarizeDocument},
	)
}

func classifyDocument(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	switch {
	case strings.Contains(lower, "contract"), strings.Contains(lower, "contrato"):
		ctx.Fields["kind"] = "contract"
	case strings.Contains(lower, "invoice"), strings.Contains(lower, "fatura"):
		ctx.Fields["kind"] = "invoice"
	case strings.Contains(lower, "report"), strings.Contains(lower, "relatorio"):
		ctx.Fields["kind"] = "report"
	default:
		ctx.Fields["kind"] = "general"
	}
	return nil
}

// exportDocument writes a PDF report when the task asks for an export;
// other tasks pass through untouched.
func exportDocument(dir string) func(*Context) error {
	return func(ctx *Context) error {
		if !strings.Contains(strings.ToLower(ctx.Input), "export") {
			return nil
		}
		path := filepath.Join(dir, fmt.Sprintf("report-%s.pdf", uuid.NewString()))
		lines := []string{
			fmt.Sprintf("Task: %s", ctx.Input),
			fmt.Sprintf("Classified as: %s", ctx.Fields["kind"]),
		}
		if err := ExportReport(path, "Document Report", lines); err != nil {
			return err
		}
		ctx.Fields["report"] = path
		return nil
	}
}

func summarizeDocument(ctx *Context) error {
	ctx.Result = fmt.Sprintf("document filed under %s", ctx.Fields["kind"])
	if report := ctx.Fields["report"]; report != "" {
		ctx.Result += fmt.Sprintf("; report exported to %s", report)
	}
	return nil
}

// ExportReport renders a one-page PDF summary of pipeline results.
func ExportReport(path, title string, lines []string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
