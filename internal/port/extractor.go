package port

// Extractor pulls plain text out of one source document format.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	Extract(path string) (string, error)

	// Extensions returns the lower-case file extensions (with dot)
	// this extractor handles.
	Extensions() []string
}
