// Package chunker provides fixed-size text chunking with overlap.
package chunker

import (
	"strings"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// MinChunkLength is the minimum trimmed length for a chunk to be kept.
// Shorter fragments carry negligible retrieval signal and would pollute
// the index.
const MinChunkLength = 50

// Chunker splits extracted document text into overlapping windows.
// Windows share their boundaries so a fact split across two chunks is
// still retrievable from either side.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured window overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into overlapping windows of chunkSize characters,
// each consecutive pair sharing overlap characters. Output order is
// document order and identical input always yields identical output, so
// reprocessing a document is idempotent.
//
// Candidates whose trimmed length is at most MinChunkLength are dropped.
// Empty or whitespace-only input yields zero chunks and no error.
//
// Returns domain.ErrInvalidConfiguration when chunkSize <= overlap, since
// the window could never advance.
func (c *Chunker) Split(text string) ([]string, error) {
	if c.chunkSize <= c.overlap {
		return nil, domain.ErrInvalidConfiguration
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	textLen := len(text)
	estimated := textLen/(c.chunkSize-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < textLen {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		candidate := text[start:end]
		if len(strings.TrimSpace(candidate)) > MinChunkLength {
			chunks = append(chunks, candidate)
		}

		start = end - c.overlap

		// Stop once the remaining tail is smaller than one overlap window.
		if start+c.overlap >= textLen {
			break
		}
	}

	return chunks, nil
}
