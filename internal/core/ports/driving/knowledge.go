package driving

import (
	"context"
	"time"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

// IngestService runs documents through the processing pipeline:
// extraction, chunking, optional embedding, chunk replacement.
type IngestService interface {
	// Ingest creates a document for the user and processes the raw bytes.
	// The returned document carries its final processing status.
	Ingest(ctx context.Context, userID, filename string, docType domain.DocumentType, raw []byte) (*domain.Document, error)

	// Reprocess re-runs extraction and chunking for an existing document,
	// replacing its chunk set.
	Reprocess(ctx context.Context, documentID string, raw []byte) (*domain.Document, error)
}

// DocumentService manages a user's knowledge documents.
type DocumentService interface {
	// List returns all documents owned by the user, newest first.
	List(ctx context.Context, userID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetDetails returns display metadata including the chunk count.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// SetActive flips whether the document participates in retrieval.
	SetActive(ctx context.Context, documentID string, active bool) error

	// SetType changes the document's UI grouping tag.
	SetType(ctx context.Context, documentID string, docType domain.DocumentType) error

	// Delete removes the document and all its chunks.
	Delete(ctx context.Context, documentID string) error
}

// QueryService answers natural-language questions from a user's
// knowledge base.
type QueryService interface {
	// Retrieve returns the top-K chunks relevant to the question, drawn
	// only from the user's active, completed documents.
	Retrieve(ctx context.Context, userID, question string, limit int) ([]domain.RetrievedChunk, error)

	// Ask retrieves evidence and generates a grounded answer with a
	// coverage classification and cited sources.
	Ask(ctx context.Context, userID, question string) (*domain.Answer, error)
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Name is the display name.
	Name string

	// DocumentType is the UI grouping tag.
	DocumentType domain.DocumentType

	// FileSize is the raw upload size in bytes.
	FileSize int64

	// IsActive reports whether the document participates in retrieval.
	IsActive bool

	// ProcessingStatus is the current lifecycle state.
	ProcessingStatus domain.ProcessingStatus

	// ChunkCount is the number of persisted chunks.
	ChunkCount int

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}
