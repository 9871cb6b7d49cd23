package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/kb-cli/internal/adapters/driven/storage/memory"
	"github.com/pagelens/kb-cli/internal/core/domain"
)

// seedDocument saves a document with the given chunk contents.
func seedDocument(t *testing.T, store *memory.DocumentStore, docID, userID, name string, active bool, status domain.ProcessingStatus, contents ...string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID:               docID,
		UserID:           userID,
		Name:             name,
		FileType:         "text/plain",
		DocumentType:     domain.DocumentTypeOther,
		IsActive:         active,
		ProcessingStatus: status,
	}))

	chunks := make([]domain.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = domain.Chunk{
			ID:         docID + "-chunk-" + string(rune('a'+i)),
			DocumentID: docID,
			Content:    content,
			Index:      i,
		}
	}
	require.NoError(t, store.ReplaceChunks(ctx, docID, chunks))
}

// TestRetriever_ValidatesInput tests blank user and question rejection.
func TestRetriever_ValidatesInput(t *testing.T) {
	r := NewRetriever(memory.NewDocumentStore(), RetrieverConfig{})
	ctx := context.Background()

	_, err := r.Retrieve(ctx, "", "a question", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = r.Retrieve(ctx, "user-1", "   ", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

// TestRetriever_EmptyScope tests that a user with no searchable
// documents gets an empty result, not an error.
func TestRetriever_EmptyScope(t *testing.T) {
	store := memory.NewDocumentStore()
	r := NewRetriever(store, RetrieverConfig{})

	results, err := r.Retrieve(context.Background(), "user-1", "anything relevant", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

// TestRetriever_ScopeExcludesInactiveAndIncomplete tests the retrieval
// scope: only active, completed documents contribute chunks.
func TestRetriever_ScopeExcludesInactiveAndIncomplete(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-ok", "user-1", "ok.txt", true, domain.StatusCompleted,
		"users want faster onboarding")
	seedDocument(t, store, "doc-inactive", "user-1", "off.txt", false, domain.StatusCompleted,
		"users want faster onboarding")
	seedDocument(t, store, "doc-pending", "user-1", "pending.txt", true, domain.StatusPending,
		"users want faster onboarding")
	seedDocument(t, store, "doc-failed", "user-1", "failed.txt", true, domain.StatusFailed,
		"users want faster onboarding")

	r := NewRetriever(store, RetrieverConfig{})
	results, err := r.Retrieve(context.Background(), "user-1", "faster onboarding", 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "doc-ok", results[0].Chunk.DocumentID)
	assert.Equal(t, "ok.txt", results[0].DocumentName)
}

// TestRetriever_ScopeExcludesOtherUsers tests owner isolation.
func TestRetriever_ScopeExcludesOtherUsers(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-mine", "user-1", "mine.txt", true, domain.StatusCompleted,
		"checkout friction on mobile")
	seedDocument(t, store, "doc-theirs", "user-2", "theirs.txt", true, domain.StatusCompleted,
		"checkout friction on mobile")

	r := NewRetriever(store, RetrieverConfig{})
	results, err := r.Retrieve(context.Background(), "user-1", "checkout friction", 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "doc-mine", results[0].Chunk.DocumentID)
}

// TestRetriever_DropsZeroScores tests that chunks sharing no query term
// never appear, regardless of the limit.
func TestRetriever_DropsZeroScores(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-1", "user-1", "doc.txt", true, domain.StatusCompleted,
		"pricing tiers and discounts",
		"completely unrelated text about gardening")

	r := NewRetriever(store, RetrieverConfig{})
	results, err := r.Retrieve(context.Background(), "user-1", "pricing discounts", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Chunk.Index)
}

// TestRetriever_RanksByScoreDescending tests the primary sort order.
func TestRetriever_RanksByScoreDescending(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-1", "user-1", "doc.txt", true, domain.StatusCompleted,
		"budget mentioned once",
		"budget budget budget",
		"budget budget")

	r := NewRetriever(store, RetrieverConfig{})
	results, err := r.Retrieve(context.Background(), "user-1", "budget", 0)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Chunk.Index)
	assert.Equal(t, 2, results[1].Chunk.Index)
	assert.Equal(t, 0, results[2].Chunk.Index)
	assert.True(t, results[0].Score > results[1].Score)
	assert.True(t, results[1].Score > results[2].Score)
}

// TestRetriever_TieBreakIsDeterministic tests that equal scores order by
// document ID then chunk index.
func TestRetriever_TieBreakIsDeterministic(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-b", "user-1", "b.txt", true, domain.StatusCompleted,
		"roadmap planning", "roadmap planning")
	seedDocument(t, store, "doc-a", "user-1", "a.txt", true, domain.StatusCompleted,
		"roadmap planning")

	r := NewRetriever(store, RetrieverConfig{})

	for i := 0; i < 5; i++ {
		results, err := r.Retrieve(context.Background(), "user-1", "roadmap planning", 0)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "doc-a", results[0].Chunk.DocumentID)
		assert.Equal(t, "doc-b", results[1].Chunk.DocumentID)
		assert.Equal(t, 0, results[1].Chunk.Index)
		assert.Equal(t, "doc-b", results[2].Chunk.DocumentID)
		assert.Equal(t, 1, results[2].Chunk.Index)
	}
}

// TestRetriever_LimitTruncates tests top-K truncation and the default
// limit.
func TestRetriever_LimitTruncates(t *testing.T) {
	store := memory.NewDocumentStore()
	contents := make([]string, 8)
	for i := range contents {
		contents[i] = "retention analysis notes"
	}
	seedDocument(t, store, "doc-1", "user-1", "doc.txt", true, domain.StatusCompleted, contents...)

	r := NewRetriever(store, RetrieverConfig{})

	results, err := r.Retrieve(context.Background(), "user-1", "retention", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	// Zero limit falls back to the default
	results, err = r.Retrieve(context.Background(), "user-1", "retention", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultRetrievalLimit)
}

// TestRetriever_ShortTokenQuestion tests that a question made entirely
// of short tokens retrieves nothing.
func TestRetriever_ShortTokenQuestion(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "doc-1", "user-1", "doc.txt", true, domain.StatusCompleted,
		"it is an ok to do")

	r := NewRetriever(store, RetrieverConfig{})
	results, err := r.Retrieve(context.Background(), "user-1", "is it ok", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// failingStore wraps the memory store to simulate storage failures.
type failingStore struct {
	*memory.DocumentStore
	failSearchable bool
	failChunks     bool
}

func (f *failingStore) ListSearchable(ctx context.Context, userID string) ([]domain.Document, error) {
	if f.failSearchable {
		return nil, errors.New("connection refused")
	}
	return f.DocumentStore.ListSearchable(ctx, userID)
}

func (f *failingStore) GetChunksByDocuments(ctx context.Context, ids []string) ([]domain.Chunk, error) {
	if f.failChunks {
		return nil, errors.New("connection refused")
	}
	return f.DocumentStore.GetChunksByDocuments(ctx, ids)
}

// TestRetriever_StoreFailures tests that store errors surface as
// ErrDataUnavailable.
func TestRetriever_StoreFailures(t *testing.T) {
	inner := memory.NewDocumentStore()
	seedDocument(t, inner, "doc-1", "user-1", "doc.txt", true, domain.StatusCompleted,
		"some content here")

	store := &failingStore{DocumentStore: inner, failSearchable: true}
	r := NewRetriever(store, RetrieverConfig{})

	_, err := r.Retrieve(context.Background(), "user-1", "content", 0)
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable))

	store.failSearchable = false
	store.failChunks = true
	r = NewRetriever(store, RetrieverConfig{})

	_, err = r.Retrieve(context.Background(), "user-1", "content", 0)
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
}
