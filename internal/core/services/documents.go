package services

import (
	"context"
	"fmt"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages a user's knowledge documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all documents owned by the user, newest first.
func (s *DocumentService) List(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, userID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetDetails returns display metadata including the chunk count.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	chunkCount := 0
	if err == nil {
		chunkCount = len(chunks)
	}

	return &driving.DocumentDetails{
		ID:               doc.ID,
		Name:             doc.Name,
		DocumentType:     doc.DocumentType,
		FileSize:         doc.FileSize,
		IsActive:         doc.IsActive,
		ProcessingStatus: doc.ProcessingStatus,
		ChunkCount:       chunkCount,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

// SetActive flips whether the document participates in retrieval.
// Deactivation excludes the document from queries without deleting it.
func (s *DocumentService) SetActive(ctx context.Context, documentID string, active bool) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.docStore.SetActive(ctx, documentID, active)
}

// SetType changes the document's UI grouping tag.
func (s *DocumentService) SetType(ctx context.Context, documentID string, docType domain.DocumentType) error {
	if !docType.IsValid() {
		return fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidArgument, docType)
	}
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.docStore.SetDocumentType(ctx, documentID, docType)
}

// Delete removes the document and all its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}
