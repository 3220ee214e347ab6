package extractor

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"kalebbot/internal/port"
)

// Set dispatches extraction by file extension over a closed set of
// format variants. Files with an unknown extension are skipped.
type Set struct {
	byExt map[string]port.Extractor
}

// NewSet builds a set from the given extractors.
func NewSet(extractors ...port.Extractor) *Set {
	byExt := make(map[string]port.Extractor)
	for _, ex := range extractors {
		for _, ext := range ex.Extensions() {
			byExt[ext] = ex
		}
	}
	return &Set{byExt: byExt}
}

// DefaultSet returns the set covering the supported corpus formats.
func DefaultSet(logger *zap.Logger) *Set {
	return NewSet(
		NewTextSource(),
		NewPdfSource(logger),
		NewDocxSource(),
	)
}

// For returns the extractor for the file's extension, or false when
// the format is unsupported.
func (s *Set) For(path string) (port.Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := s.byExt[ext]
	return ex, ok
}

// Extensions lists the supported extensions.
func (s *Set) Extensions() []string {
	exts := make([]string, 0, len(s.byExt))
	for ext := range s.byExt {
		exts = append(exts, ext)
	}
	return exts
}
