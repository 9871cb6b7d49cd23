// Package plaintext extracts text from files that already are text.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
)

var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain-text formats: txt, markdown, csv and friends.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return "plaintext"
}

func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown", ".csv", ".json", ".log"}
}

// Extract returns the file content as-is, trimmed. Non-UTF-8 input is
// rejected rather than silently mangled.
func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s is not valid UTF-8: %w", filename, domain.ErrUnsupportedType)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}

	return text, nil
}
