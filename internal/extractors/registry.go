package extractors

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/extractors/binary"
	"github.com/pagelens/kb-cli/internal/extractors/pdf"
	"github.com/pagelens/kb-cli/internal/extractors/plaintext"
	"github.com/pagelens/kb-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry routes files to extractors by extension.
type Registry struct {
	byExt    map[string]driven.Extractor
	fallback driven.Extractor
}

// New creates a registry with the given extractors. The fallback handles
// files whose extension no extractor claims.
func New(fallback driven.Extractor, extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byExt:    make(map[string]driven.Extractor),
		fallback: fallback,
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Defaults returns a registry with the standard extractors: plain text,
// PDF, and a binary fallback.
func Defaults() *Registry {
	return New(binary.New(), plaintext.New(), pdf.New())
}

// Register adds an extractor for all its supported extensions.
// Later registrations win on extension conflicts.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extract selects an extractor for the filename and runs it.
func (r *Registry) Extract(ctx context.Context, filename string, raw []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	extractor, ok := r.byExt[ext]
	if !ok {
		extractor = r.fallback
		logger.Debug("No extractor for %q, using fallback %s", ext, extractor.Name())
	}

	return extractor.Extract(ctx, filename, raw)
}
