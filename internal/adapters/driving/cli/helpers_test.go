package cli

import (
	"context"

	"github.com/pagelens/kb-cli/internal/adapters/driven/storage/memory"
	"github.com/pagelens/kb-cli/internal/core/domain"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/core/services"
	"github.com/pagelens/kb-cli/internal/extractors"
)

// stubAnswerer is a canned AnswerService for command tests.
type stubAnswerer struct {
	answer   string
	coverage domain.Coverage
}

func (s *stubAnswerer) GenerateAnswer(
	_ context.Context, _ string, _ []domain.RetrievedChunk,
) (*driven.ParsedAnswer, error) {
	return &driven.ParsedAnswer{Answer: s.answer, Coverage: s.coverage}, nil
}

func (s *stubAnswerer) ModelName() string            { return "stub-model" }
func (s *stubAnswerer) Ping(_ context.Context) error { return nil }
func (s *stubAnswerer) Close() error                 { return nil }

// setupTestServices wires the commands to an in-memory store seeded
// with one searchable document. Returns a cleanup that restores the
// previous services.
func setupTestServices() func() {
	oldIngest := ingestService
	oldDocuments := documentService
	oldQuery := queryService

	docStore := memory.NewDocumentStore()
	ctx := context.Background()

	_ = docStore.SaveDocument(ctx, &domain.Document{
		ID:               "doc-1",
		UserID:           "local",
		Name:             "onboarding-research.txt",
		FileType:         "text/plain",
		DocumentType:     domain.DocumentTypeResearch,
		IsActive:         true,
		ProcessingStatus: domain.StatusCompleted,
	})
	_ = docStore.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		{
			ID:         "chunk-1",
			DocumentID: "doc-1",
			Content:    "Users abandon onboarding when forms ask for payment details upfront.",
			Index:      0,
		},
	})

	retriever := services.NewRetriever(docStore, services.RetrieverConfig{})
	ingestService = services.NewIngestService(docStore, extractors.Defaults(), nil, nil)
	documentService = services.NewDocumentService(docStore)
	queryService = services.NewQueryService(retriever, &stubAnswerer{
		answer:   "Payment fields cause onboarding drop-off.",
		coverage: domain.CoverageFullySupported,
	})

	return func() {
		ingestService = oldIngest
		documentService = oldDocuments
		queryService = oldQuery
	}
}
