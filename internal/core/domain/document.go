package domain

import "time"

// DocumentType tags a document for UI grouping.
// It carries no weight in retrieval.
type DocumentType string

const (
	// DocumentTypeResearch marks user research material.
	DocumentTypeResearch DocumentType = "research"
	// DocumentTypeBrand marks brand guideline documents.
	DocumentTypeBrand DocumentType = "brand"
	// DocumentTypePersona marks persona and jobs-to-be-done documents.
	DocumentTypePersona DocumentType = "persona"
	// DocumentTypeOther is the catch-all type.
	DocumentTypeOther DocumentType = "other"
)

// IsValid reports whether the document type is one of the known values.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeResearch, DocumentTypeBrand, DocumentTypePersona, DocumentTypeOther:
		return true
	}
	return false
}

// ProcessingStatus tracks a document through the ingestion lifecycle.
type ProcessingStatus string

const (
	// StatusPending means the document is uploaded but not yet processed.
	StatusPending ProcessingStatus = "pending"
	// StatusProcessing means extraction and chunking are in progress.
	StatusProcessing ProcessingStatus = "processing"
	// StatusCompleted means all chunks are persisted and searchable.
	StatusCompleted ProcessingStatus = "completed"
	// StatusFailed means extraction or chunking errored.
	StatusFailed ProcessingStatus = "failed"
)

// IsValid reports whether the status is one of the known values.
func (s ProcessingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document represents a user-owned knowledge upload.
// Only active, completed documents participate in retrieval.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// UserID identifies the owning user. All retrieval is scoped by owner.
	UserID string

	// Name is the display name, used for source citations.
	Name string

	// FileType is the original MIME type (e.g., "application/pdf").
	FileType string

	// DocumentType groups documents in the UI (research, brand, ...).
	DocumentType DocumentType

	// FileSize is the raw upload size in bytes.
	FileSize int64

	// IsActive controls whether the document is searchable.
	// Inactive documents are excluded from retrieval without deletion.
	IsActive bool

	// ProcessingStatus is the current lifecycle state.
	ProcessingStatus ProcessingStatus

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// Searchable reports whether the document may contribute chunks to a query.
func (d *Document) Searchable() bool {
	return d.IsActive && d.ProcessingStatus == StatusCompleted
}

// Chunk is an immutable slice of a document's extracted text.
// Chunks are created in a single batch per document; reprocessing
// replaces the whole set.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Index is the zero-based position within the source document.
	Index int

	// Embedding is an optional vector representation.
	// Retrieval does not depend on it; it is enrichment only.
	Embedding []float32
}
