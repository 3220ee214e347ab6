// Package extractor converts corpus documents into plain text. Each
// supported format is a small variant behind the port.Extractor
// capability; the Set dispatches by file extension.
package extractor

import "os"

// TextSource extracts UTF-8 plain-text files.
type TextSource struct{}

func NewTextSource() *TextSource {
	return &TextSource{}
}

func (e *TextSource) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *TextSource) Extensions() []string {
	return []string{".txt"}
}
