package driven

import (
	"context"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

// DocumentStore persists knowledge documents and their chunks.
// Backed by SQLite for metadata storage.
//
// A document exclusively owns its chunks: deleting the document removes
// them, and ReplaceChunks swaps the whole set in one transaction so a
// concurrent reader never observes a partially-replaced chunk set.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents owned by a user, newest first.
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)

	// ListSearchable returns the user's active documents whose processing
	// has completed. This is the retrieval scope for queries.
	ListSearchable(ctx context.Context, userID string) ([]domain.Document, error)

	// SetActive flips the is_active flag on a document.
	SetActive(ctx context.Context, id string, active bool) error

	// SetDocumentType changes the UI grouping tag on a document.
	SetDocumentType(ctx context.Context, id string, docType domain.DocumentType) error

	// SetStatus moves a document through its processing lifecycle.
	SetStatus(ctx context.Context, id string, status domain.ProcessingStatus) error

	// DeleteDocument removes a document and all its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ReplaceChunks deletes a document's existing chunks and inserts the
	// given batch atomically.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunksByDocuments retrieves all chunks belonging to any of the
	// given documents. The candidate pool for query scoring.
	GetChunksByDocuments(ctx context.Context, documentIDs []string) ([]domain.Chunk, error)
}
