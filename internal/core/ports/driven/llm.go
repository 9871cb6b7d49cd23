package driven

import (
	"context"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

// AnswerService generates grounded answers from retrieved chunks.
// This is an optional service - when nil, queries that retrieve evidence
// fail with ErrGatewayUnavailable instead of producing ungrounded text.
//
// Implementations may include:
//   - OpenAI-compatible gateways (OpenAI, Azure, hosted LLM routers)
//   - Ollama (local models)
type AnswerService interface {
	// GenerateAnswer produces an answer to the question using only the
	// supplied chunks as evidence. The returned coverage is the model's
	// own classification of how well the evidence backs the answer.
	GenerateAnswer(ctx context.Context, question string, chunks []domain.RetrievedChunk) (*ParsedAnswer, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ParsedAnswer is the strictly-decoded result of an answer generation call.
// Both fields are validated against the response schema before this value
// is constructed; free-text responses never leak through untyped.
type ParsedAnswer struct {
	// Answer is the generated answer text.
	Answer string

	// Coverage is the model's self-reported evidence classification.
	Coverage domain.Coverage
}
