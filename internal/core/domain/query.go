package domain

// Coverage classifies how well retrieved evidence backs a generated answer.
type Coverage string

const (
	// CoverageFullySupported means the answer is completely backed by sources.
	CoverageFullySupported Coverage = "fully_supported"
	// CoveragePartiallySupported means only parts of the answer are in sources.
	CoveragePartiallySupported Coverage = "partially_supported"
	// CoverageNotFound means the sources contain no relevant information.
	CoverageNotFound Coverage = "not_found"
)

// IsValid reports whether the coverage label is one of the known values.
func (c Coverage) IsValid() bool {
	switch c {
	case CoverageFullySupported, CoveragePartiallySupported, CoverageNotFound:
		return true
	}
	return false
}

// RetrievedChunk is a chunk selected for a query, annotated with its
// owning document's display name for citation. Transient, never persisted.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// DocumentName is the display name of the owning document.
	DocumentName string

	// Score is the keyword relevance score (average occurrences per
	// meaningful query term). Always > 0 for a retrieved chunk.
	Score float64
}

// excerptLength bounds the source excerpt shown alongside an answer.
const excerptLength = 300

// Excerpt returns the leading portion of the chunk content for display.
func (r *RetrievedChunk) Excerpt() string {
	if len(r.Chunk.Content) <= excerptLength {
		return r.Chunk.Content
	}
	return r.Chunk.Content[:excerptLength] + "..."
}

// Similarity maps the raw relevance score to a 0-100 display percentage.
func (r *RetrievedChunk) Similarity() int {
	pct := int(r.Score*25 + 0.5)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Source describes a cited chunk in a query response.
type Source struct {
	// DocumentName is the display name of the cited document.
	DocumentName string `json:"documentName"`

	// Excerpt is the leading portion of the cited chunk.
	Excerpt string `json:"excerpt"`

	// Similarity is the normalised relevance score (0-100).
	Similarity int `json:"similarity"`

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int `json:"chunkIndex"`
}

// Answer is the result of a knowledge base query.
//
// Sources always lists the chunks actually retrieved, independent of the
// model's self-reported coverage. A not_found coverage with non-empty
// sources can only mean the model judged the evidence irrelevant, not
// that retrieval was skipped.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Coverage is the evidence classification.
	Coverage Coverage `json:"coverage"`

	// Sources cites the retrieved chunks used as grounding context.
	Sources []Source `json:"sources"`

	// ChunksUsed is the number of chunks passed to the model.
	ChunksUsed int `json:"chunksUsed"`
}
