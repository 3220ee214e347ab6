package extractor

import (
	"strings"

	"github.com/unidoc/unioffice/document"
)

// DocxSource extracts paragraph text from Word documents.
type DocxSource struct{}

func NewDocxSource() *DocxSource {
	return &DocxSource{}
}

func (e *DocxSource) Extract(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *DocxSource) Extensions() []string {
	return []string{".docx"}
}
