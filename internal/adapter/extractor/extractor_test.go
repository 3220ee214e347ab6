package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

func TestTextSourceExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.txt")
	content := "Vacation requests must be submitted 14 days in advance.\nSecond line."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := NewTextSource().Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != content {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestTextSourceMissingFile(t *testing.T) {
	_, err := NewTextSource().Extract(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPdfSourceExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "handbook.pdf")

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, "Vacation requests must be submitted 14 days in advance.")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatal(err)
	}

	text, err := NewPdfSource(zap.NewNop()).Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Vacation requests") {
		t.Errorf("expected extracted text to contain the page content, got %q", text)
	}
}

func TestPdfSourceRejectsNonPdf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPdfSource(zap.NewNop()).Extract(path); err == nil {
		t.Error("expected error opening a non-pdf file")
	}
}

func TestSetDispatch(t *testing.T) {
	set := DefaultSet(zap.NewNop())

	tests := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"report.PDF", true},
		{"contract.docx", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if _, ok := set.For(tt.path); ok != tt.want {
			t.Errorf("For(%q) = %v, want %v", tt.path, ok, tt.want)
		}
	}
}
