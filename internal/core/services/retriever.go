package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/logger"
)

// DefaultRetrievalLimit is the number of chunks returned when the caller
// does not specify a limit.
const DefaultRetrievalLimit = 5

// RetrieverConfig configures a Retriever. Passed at construction so tests
// can run in parallel with different configurations; there is no ambient
// global state.
type RetrieverConfig struct {
	// Limit is the default top-K cap (DefaultRetrievalLimit when 0).
	Limit int

	// MinScore is the exclusive lower bound for a chunk to be retained.
	// The default of 0 drops exactly the chunks sharing no query term.
	MinScore float64
}

// Retriever selects the top-K chunks relevant to a question, drawn only
// from a user's active, fully processed documents. Pure local computation
// once the document and chunk rows are fetched; no network I/O.
type Retriever struct {
	docStore driven.DocumentStore
	config   RetrieverConfig
}

// NewRetriever creates a retriever over the given document store.
func NewRetriever(docStore driven.DocumentStore, config RetrieverConfig) *Retriever {
	if config.Limit <= 0 {
		config.Limit = DefaultRetrievalLimit
	}
	return &Retriever{
		docStore: docStore,
		config:   config,
	}
}

// Retrieve scores every chunk of the user's searchable documents against
// the question and returns the top `limit` by score, each annotated with
// its owning document's display name.
//
// An empty result is valid output meaning "no evidence". Store failures
// surface as domain.ErrDataUnavailable so callers can distinguish "could
// not check" from "checked and found nothing".
func (r *Retriever) Retrieve(
	ctx context.Context, userID, question string, limit int,
) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = r.config.Limit
	}

	logger.Section("Retrieval")
	logger.Debug("Question: %q, limit: %d", question, limit)

	// Scope: only active, completed documents participate.
	docs, err := r.docStore.ListSearchable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list searchable documents: %w: %w", domain.ErrDataUnavailable, err)
	}
	if len(docs) == 0 {
		logger.Debug("No searchable documents for user, returning empty result")
		return []domain.RetrievedChunk{}, nil
	}
	logger.Debug("Searchable documents: %d", len(docs))

	docIDs := make([]string, len(docs))
	docNames := make(map[string]string, len(docs))
	for i := range docs {
		docIDs[i] = docs[i].ID
		docNames[docs[i].ID] = docs[i].Name
	}

	chunks, err := r.docStore.GetChunksByDocuments(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate chunks: %w: %w", domain.ErrDataUnavailable, err)
	}
	logger.Debug("Candidate chunks: %d", len(chunks))

	tokens := TokenizeQuestion(question)
	logger.Debug("Query tokens: %v", tokens)

	scored := make([]domain.RetrievedChunk, 0, len(chunks))
	for i := range chunks {
		score := ScoreChunk(chunks[i].Content, tokens)
		if score <= r.config.MinScore {
			continue
		}
		scored = append(scored, domain.RetrievedChunk{
			Chunk:        chunks[i],
			DocumentName: docNames[chunks[i].DocumentID],
			Score:        score,
		})
	}
	logger.Debug("Chunks above threshold: %d", len(scored))

	// Rank by score; equal scores fall back to document ID then chunk
	// index so results are stable across runs.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Chunk.DocumentID != scored[j].Chunk.DocumentID {
			return scored[i].Chunk.DocumentID < scored[j].Chunk.DocumentID
		}
		return scored[i].Chunk.Index < scored[j].Chunk.Index
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	logger.Info("Retrieved %d chunks", len(scored))

	return scored, nil
}
