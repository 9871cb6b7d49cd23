package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents owned by a user, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, userID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.UserID == userID {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ListSearchable returns the user's active, completed documents.
func (s *DocumentStore) ListSearchable(ctx context.Context, userID string) ([]domain.Document, error) {
	docs, err := s.ListDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	var result []domain.Document
	for _, doc := range docs {
		if doc.Searchable() {
			result = append(result, doc)
		}
	}
	return result, nil
}

// SetActive flips the is_active flag on a document.
func (s *DocumentStore) SetActive(_ context.Context, id string, active bool) error {
	return s.update(id, func(doc *domain.Document) {
		doc.IsActive = active
	})
}

// SetDocumentType changes the grouping tag on a document.
func (s *DocumentStore) SetDocumentType(_ context.Context, id string, docType domain.DocumentType) error {
	return s.update(id, func(doc *domain.Document) {
		doc.DocumentType = docType
	})
}

// SetStatus moves a document through its processing lifecycle.
func (s *DocumentStore) SetStatus(_ context.Context, id string, status domain.ProcessingStatus) error {
	return s.update(id, func(doc *domain.Document) {
		doc.ProcessingStatus = status
	})
}

func (s *DocumentStore) update(id string, fn func(*domain.Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&doc)
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// ReplaceChunks swaps a document's chunk set.
func (s *DocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	sort.Slice(copied, func(i, j int) bool {
		return copied[i].Index < copied[j].Index
	})
	s.chunks[documentID] = copied
	return nil
}

// GetChunks retrieves all chunks for a document, ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Chunk, len(chunks))
	copy(result, chunks)
	return result, nil
}

// GetChunksByDocuments retrieves all chunks belonging to any of the
// given documents.
func (s *DocumentStore) GetChunksByDocuments(_ context.Context, documentIDs []string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, id := range documentIDs {
		result = append(result, s.chunks[id]...)
	}
	return result, nil
}
