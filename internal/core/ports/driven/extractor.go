package driven

import "context"

// Extractor converts raw document bytes into plain text.
// Each extractor handles a set of file extensions (pdf, txt, ...).
// Extraction is upstream of chunking; the chunker only ever sees text.
type Extractor interface {
	// Name returns the extractor name for logging and registry lookup.
	Name() string

	// SupportedExtensions returns the lowercase file extensions this
	// extractor handles, including the dot (".pdf", ".txt").
	SupportedExtensions() []string

	// Extract returns the plain text content of the raw bytes.
	// Returns domain.ErrEmptyDocument when no usable text is found.
	Extract(ctx context.Context, filename string, raw []byte) (string, error)
}

// ExtractorRegistry routes raw bytes to the extractor registered for the
// file's extension, with a fallback for unknown types.
type ExtractorRegistry interface {
	// Extract selects an extractor for the filename and runs it.
	Extract(ctx context.Context, filename string, raw []byte) (string, error)
}
