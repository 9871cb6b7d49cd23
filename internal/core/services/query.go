package services

import (
	"context"
	"fmt"

	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/core/ports/driving"
	"github.com/pagelens/kb-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// notFoundAnswer is returned without a gateway call when retrieval
// produced no evidence.
const notFoundAnswer = "The Knowledge Base does not contain information to answer this question."

// QueryService answers questions from a user's knowledge base. It pairs
// the local keyword retriever with an external answer gateway.
type QueryService struct {
	retriever *Retriever
	answerer  driven.AnswerService
}

// NewQueryService creates a query service.
// The answerer is optional (can be nil); Retrieve works without it, and
// Ask fails with ErrGatewayUnavailable only when evidence was found.
func NewQueryService(retriever *Retriever, answerer driven.AnswerService) *QueryService {
	return &QueryService{
		retriever: retriever,
		answerer:  answerer,
	}
}

// Retrieve returns the top-K chunks relevant to the question.
func (s *QueryService) Retrieve(
	ctx context.Context, userID, question string, limit int,
) ([]domain.RetrievedChunk, error) {
	return s.retriever.Retrieve(ctx, userID, question, limit)
}

// Ask retrieves evidence and generates a grounded answer.
//
// When retrieval returns nothing, coverage is not_found and the gateway
// is never invoked: with no evidence there is nothing for the model to
// ground an answer in, and skipping the call also guarantees no
// hallucinated fully_supported label. When retrieval returns chunks, the
// coverage is whatever the model reports, but Sources always lists the
// chunks actually retrieved.
func (s *QueryService) Ask(ctx context.Context, userID, question string) (*domain.Answer, error) {
	retrieved, err := s.retriever.Retrieve(ctx, userID, question, 0)
	if err != nil {
		return nil, err
	}

	if len(retrieved) == 0 {
		logger.Info("No evidence retrieved, answering not_found without gateway call")
		return &domain.Answer{
			Text:       notFoundAnswer,
			Coverage:   domain.CoverageNotFound,
			Sources:    []domain.Source{},
			ChunksUsed: 0,
		}, nil
	}

	if s.answerer == nil {
		return nil, domain.ErrGatewayUnavailable
	}

	logger.Section("Answer Generation")
	logger.Debug("Generating answer from %d chunks via %s", len(retrieved), s.answerer.ModelName())

	parsed, err := s.answerer.GenerateAnswer(ctx, question, retrieved)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	coverage := parsed.Coverage
	if !coverage.IsValid() {
		coverage = domain.CoveragePartiallySupported
	}
	logger.Info("Coverage: %s", coverage)

	return &domain.Answer{
		Text:       parsed.Answer,
		Coverage:   coverage,
		Sources:    buildSources(retrieved),
		ChunksUsed: len(retrieved),
	}, nil
}

// buildSources converts retrieved chunks to citation entries.
func buildSources(retrieved []domain.RetrievedChunk) []domain.Source {
	sources := make([]domain.Source, len(retrieved))
	for i := range retrieved {
		sources[i] = domain.Source{
			DocumentName: retrieved[i].DocumentName,
			Excerpt:      retrieved[i].Excerpt(),
			Similarity:   retrieved[i].Similarity(),
			ChunkIndex:   retrieved[i].Chunk.Index,
		}
	}
	return sources
}
