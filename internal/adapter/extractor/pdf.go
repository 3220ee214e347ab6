package extractor

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PdfSource extracts text from PDF files page by page. A page whose
// extraction fails contributes an empty string; only opening the file
// itself can fail the whole document.
type PdfSource struct {
	logger *zap.Logger
}

func NewPdfSource(logger *zap.Logger) *PdfSource {
	return &PdfSource{logger: logger}
}

func (e *PdfSource) Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to extract pdf page",
				zap.String("file", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *PdfSource) Extensions() []string {
	return []string{".pdf"}
}
