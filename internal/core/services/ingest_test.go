package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/kb-cli/internal/adapters/driven/storage/memory"
	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/extractors"
)

// failingExtractors always errors, simulating an unreadable upload.
type failingExtractors struct{}

func (failingExtractors) Extract(_ context.Context, _ string, _ []byte) (string, error) {
	return "", errors.New("corrupt file")
}

// mockEmbedder returns fixed-size vectors or a configured error.
type mockEmbedder struct {
	calls int
	err   error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{0.1, 0.2, 0.3}
	}
	return vecs, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// TestIngestService_Ingest_Completes tests the full pipeline: document
// created, text chunked, status completed.
func TestIngestService_Ingest_Completes(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewIngestService(store, extractors.Defaults(), nil, nil)
	ctx := context.Background()

	content := strings.Repeat("Participants preferred the simplified checkout. ", 50)
	doc, err := svc.Ingest(ctx, "user-1", "study.txt", domain.DocumentTypeResearch, []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "study.txt", doc.Name)
	assert.Equal(t, "text/plain", doc.FileType)
	assert.Equal(t, domain.DocumentTypeResearch, doc.DocumentType)
	assert.Equal(t, domain.StatusCompleted, doc.ProcessingStatus)
	assert.True(t, doc.IsActive)

	chunks, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
	for i := range chunks {
		assert.Equal(t, i, chunks[i].Index)
		assert.Equal(t, doc.ID, chunks[i].DocumentID)
		assert.NotEmpty(t, chunks[i].ID)
	}
}

// TestIngestService_Ingest_ValidatesArguments tests blank user and
// filename rejection.
func TestIngestService_Ingest_ValidatesArguments(t *testing.T) {
	svc := NewIngestService(memory.NewDocumentStore(), extractors.Defaults(), nil, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "", "file.txt", domain.DocumentTypeOther, []byte("content"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Ingest(ctx, "user-1", "  ", domain.DocumentTypeOther, []byte("content"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

// TestIngestService_Ingest_UnknownTypeDefaultsToOther tests document
// type fallback.
func TestIngestService_Ingest_UnknownTypeDefaultsToOther(t *testing.T) {
	svc := NewIngestService(memory.NewDocumentStore(), extractors.Defaults(), nil, nil)

	content := strings.Repeat("Notes about competitor pricing pages. ", 30)
	doc, err := svc.Ingest(context.Background(), "user-1", "notes.txt",
		domain.DocumentType("poetry"), []byte(content))
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeOther, doc.DocumentType)
}

// TestIngestService_Ingest_ExtractionFailureMarksFailed tests the
// failure lifecycle.
func TestIngestService_Ingest_ExtractionFailureMarksFailed(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewIngestService(store, failingExtractors{}, nil, nil)
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, "user-1", "broken.txt", domain.DocumentTypeOther, []byte("x"))
	require.Error(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, domain.StatusFailed, doc.ProcessingStatus)

	saved, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, saved.ProcessingStatus)
	assert.False(t, saved.Searchable())
}

// TestIngestService_Ingest_TooShortFails tests the minimum extracted
// length gate.
func TestIngestService_Ingest_TooShortFails(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewIngestService(store, extractors.Defaults(), nil, nil)

	doc, err := svc.Ingest(context.Background(), "user-1", "tiny.txt",
		domain.DocumentTypeOther, []byte("hi there"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
	assert.Equal(t, domain.StatusFailed, doc.ProcessingStatus)
}

// TestIngestService_Ingest_EmbedsBestEffort tests that embeddings are
// attached when the embedder works and skipped when it fails.
func TestIngestService_Ingest_EmbedsBestEffort(t *testing.T) {
	store := memory.NewDocumentStore()
	embedder := &mockEmbedder{}
	svc := NewIngestService(store, extractors.Defaults(), nil, embedder)
	ctx := context.Background()

	content := strings.Repeat("Brand voice should stay informal and direct. ", 40)
	doc, err := svc.Ingest(ctx, "user-1", "brand.txt", domain.DocumentTypeBrand, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)

	chunks, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	for i := range chunks {
		assert.Len(t, chunks[i].Embedding, 3)
	}

	// Embedding failure must not fail the ingest
	embedder.err = errors.New("quota exceeded")
	doc, err = svc.Ingest(ctx, "user-1", "brand2.txt", domain.DocumentTypeBrand, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.ProcessingStatus)

	chunks, err = store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	for i := range chunks {
		assert.Nil(t, chunks[i].Embedding)
	}
}

// TestIngestService_Reprocess_ReplacesChunks tests wholesale chunk
// replacement.
func TestIngestService_Reprocess_ReplacesChunks(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewIngestService(store, extractors.Defaults(), nil, nil)
	ctx := context.Background()

	first := strings.Repeat("Original upload content for the report. ", 40)
	doc, err := svc.Ingest(ctx, "user-1", "report.txt", domain.DocumentTypeOther, []byte(first))
	require.NoError(t, err)

	before, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, before)

	second := strings.Repeat("Revised upload with different wording entirely. ", 40)
	reprocessed, err := svc.Reprocess(ctx, doc.ID, []byte(second))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, reprocessed.ProcessingStatus)

	after, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, after)
	assert.NotEqual(t, before[0].ID, after[0].ID)
	assert.Contains(t, after[0].Content, "Revised upload")
}

// TestIngestService_Reprocess_UnknownDocument tests the not-found path.
func TestIngestService_Reprocess_UnknownDocument(t *testing.T) {
	svc := NewIngestService(memory.NewDocumentStore(), extractors.Defaults(), nil, nil)

	_, err := svc.Reprocess(context.Background(), "missing", []byte("content"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// TestFileTypeForName tests the extension to MIME mapping.
func TestFileTypeForName(t *testing.T) {
	assert.Equal(t, "application/pdf", fileTypeForName("report.PDF"))
	assert.Equal(t, "text/plain", fileTypeForName("notes.txt"))
	assert.Equal(t, "text/markdown", fileTypeForName("readme.md"))
	assert.Equal(t, "application/msword", fileTypeForName("old.doc"))
	assert.Equal(t, "application/octet-stream", fileTypeForName("data.bin"))
}
