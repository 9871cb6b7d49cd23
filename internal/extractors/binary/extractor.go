// Package binary provides a best-effort text extractor for unknown file
// types. It keeps printable ASCII plus common whitespace and replaces
// everything else with spaces, which recovers readable fragments from
// formats like legacy .doc files.
package binary

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
)

var _ driven.Extractor = (*Extractor)(nil)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return "binary"
}

// SupportedExtensions is empty: this extractor is only used as the
// registry fallback.
func (e *Extractor) SupportedExtensions() []string {
	return nil
}

func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for _, c := range raw {
		if (c >= 0x20 && c <= 0x7E) || c == '\n' || c == '\r' || c == '\t' {
			b.WriteByte(c)
		} else {
			b.WriteByte(' ')
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%s has no readable text: %w", filename, domain.ErrEmptyDocument)
	}

	return text, nil
}
