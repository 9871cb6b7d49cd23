package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pagelens/kb-cli/internal/chunker"
	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/core/ports/driving"
	"github.com/pagelens/kb-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// minExtractedLength is the shortest extracted text worth chunking.
// Anything shorter means extraction effectively failed.
const minExtractedLength = 10

// IngestService runs uploads through the processing pipeline:
// extract text, chunk it, embed best-effort, replace the chunk set.
type IngestService struct {
	docStore   driven.DocumentStore
	extractors driven.ExtractorRegistry
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
}

// NewIngestService creates an ingest service.
// The embedder is optional (can be nil); chunks are then stored without
// embeddings and retrieval runs on keyword overlap alone.
func NewIngestService(
	docStore driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	chunk *chunker.Chunker,
	embedder driven.EmbeddingService,
) *IngestService {
	if chunk == nil {
		chunk = chunker.New()
	}
	return &IngestService{
		docStore:   docStore,
		extractors: extractors,
		chunker:    chunk,
		embedder:   embedder,
	}
}

// Ingest creates a document record for the user and processes the raw
// bytes. The document is created pending, moved to processing while
// extraction and chunking run, and ends completed or failed.
func (s *IngestService) Ingest(
	ctx context.Context, userID, filename string, docType domain.DocumentType, raw []byte,
) (*domain.Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidArgument)
	}
	if !docType.IsValid() {
		docType = domain.DocumentTypeOther
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:               uuid.New().String(),
		UserID:           userID,
		Name:             filepath.Base(filename),
		FileType:         fileTypeForName(filename),
		DocumentType:     docType,
		FileSize:         int64(len(raw)),
		IsActive:         true,
		ProcessingStatus: domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if err := s.process(ctx, doc, filename, raw); err != nil {
		return doc, err
	}
	return doc, nil
}

// Reprocess re-runs extraction and chunking for an existing document.
// The old chunk set is replaced wholesale; chunk records are never
// updated incrementally.
func (s *IngestService) Reprocess(
	ctx context.Context, documentID string, raw []byte,
) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	if err := s.process(ctx, doc, doc.Name, raw); err != nil {
		return doc, err
	}
	return doc, nil
}

// process moves the document through processing and either completes it
// with a fresh chunk set or marks it failed. Chunking never partially
// succeeds: the chunk set is only touched once the whole batch is ready.
func (s *IngestService) process(ctx context.Context, doc *domain.Document, filename string, raw []byte) error {
	logger.Section("Document Processing")
	logger.Info("Processing %s (%s)", doc.Name, doc.ID)

	if err := s.setStatus(ctx, doc, domain.StatusProcessing); err != nil {
		return err
	}

	text, err := s.extractors.Extract(ctx, filename, raw)
	if err != nil {
		s.fail(ctx, doc)
		return fmt.Errorf("extract text: %w", err)
	}
	if len(strings.TrimSpace(text)) < minExtractedLength {
		s.fail(ctx, doc)
		return fmt.Errorf("extract text: %w", domain.ErrEmptyDocument)
	}
	logger.Debug("Extracted %d characters", len(text))

	pieces, err := s.chunker.Split(text)
	if err != nil {
		s.fail(ctx, doc)
		return fmt.Errorf("chunk text: %w", err)
	}
	logger.Info("Created %d chunks", len(pieces))

	chunks := make([]domain.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    content,
			Index:      i,
		}
	}

	s.embedChunks(ctx, chunks)

	if err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		s.fail(ctx, doc)
		return fmt.Errorf("replace chunks: %w", err)
	}

	return s.setStatus(ctx, doc, domain.StatusCompleted)
}

// embedChunks attaches embeddings when an embedder is configured.
// Embedding failures are logged and skipped; retrieval does not depend
// on embeddings, so they must never fail an ingest.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) {
	if s.embedder == nil || len(chunks) == 0 {
		return
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding failed, storing chunks without embeddings: %v", err)
		return
	}
	if len(embeddings) != len(chunks) {
		logger.Warn("Embedding count mismatch (%d != %d), skipping", len(embeddings), len(chunks))
		return
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	logger.Debug("Embedded %d chunks with %s", len(chunks), s.embedder.ModelName())
}

// setStatus persists a lifecycle transition.
func (s *IngestService) setStatus(ctx context.Context, doc *domain.Document, status domain.ProcessingStatus) error {
	if err := s.docStore.SetStatus(ctx, doc.ID, status); err != nil {
		return fmt.Errorf("set status %s: %w", status, err)
	}
	doc.ProcessingStatus = status
	return nil
}

// fail marks the document failed, keeping the original error as the
// caller's return value.
func (s *IngestService) fail(ctx context.Context, doc *domain.Document) {
	if err := s.setStatus(ctx, doc, domain.StatusFailed); err != nil {
		logger.Warn("Could not mark document %s failed: %v", doc.ID, err)
	}
}

// fileTypeForName maps a filename extension to its MIME type.
func fileTypeForName(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
