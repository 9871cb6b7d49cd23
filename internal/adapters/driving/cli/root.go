// Package cli implements the kb command line interface.
// Commands talk to the core services through the driving ports; all
// wiring of stores and gateways happens here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelens/kb-cli/internal/adapters/driven/config/file"
	"github.com/pagelens/kb-cli/internal/adapters/driven/embedding/openai"
	"github.com/pagelens/kb-cli/internal/adapters/driven/llm/gateway"
	"github.com/pagelens/kb-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pagelens/kb-cli/internal/core/ports/driven"
	"github.com/pagelens/kb-cli/internal/core/ports/driving"
	"github.com/pagelens/kb-cli/internal/core/services"
	"github.com/pagelens/kb-cli/internal/extractors"
	"github.com/pagelens/kb-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by commands. Wired in initServices; tests inject mocks.
var (
	configStore     driven.ConfigStore
	ingestService   driving.IngestService
	documentService driving.DocumentService
	queryService    driving.QueryService

	store *sqlite.Store
)

// Persistent flags.
var (
	verbose  bool
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kb",
	Short: "PageLens knowledge base",
	Long: `kb manages a local knowledge base of research, brand, and persona
documents, and answers questions grounded in their content.

Documents are chunked and stored locally; answers cite the retrieved
chunks and report how well the sources support them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user the knowledge base belongs to")
}

// Execute wires the services and runs the root command.
// Wiring failures don't abort: commands that need a missing service
// report it themselves, so version and help keep working.
func Execute() error {
	if err := initServices(); err != nil {
		logger.Warn("Service setup failed: %v", err)
	}
	defer closeServices()
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// initServices builds the service graph behind the driving ports.
func initServices() error {
	var err error
	configStore, err = file.NewConfigStore(os.Getenv("PAGELENS_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	store, err = sqlite.NewStore(os.Getenv("PAGELENS_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	logger.Debug("Store opened at %s", store.Path())

	promptStore, err := file.NewPromptStore(os.Getenv("PAGELENS_PROMPT_DIR"))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	answerer := buildAnswerer(promptStore)
	embedder := buildEmbedder()

	retriever := services.NewRetriever(store, services.RetrieverConfig{
		Limit: configStore.GetInt("retrieval.limit"),
	})

	ingestService = services.NewIngestService(store, extractors.Defaults(), nil, embedder)
	documentService = services.NewDocumentService(store)
	queryService = services.NewQueryService(retriever, answerer)

	return nil
}

// buildAnswerer creates the answer gateway when an API key is
// configured. Without one, questions still retrieve chunks but cannot
// generate answers.
func buildAnswerer(promptStore driven.PromptStore) driven.AnswerService {
	apiKey := os.Getenv("PAGELENS_GATEWAY_API_KEY")
	if apiKey == "" {
		apiKey = configStore.GetString("gateway.api_key")
	}
	if apiKey == "" {
		logger.Debug("No gateway API key configured, answer generation disabled")
		return nil
	}

	answerer, err := gateway.NewAnswerService(gateway.Config{
		APIKey:            apiKey,
		BaseURL:           configStore.GetString("gateway.base_url"),
		Model:             configStore.GetString("gateway.model"),
		RequestsPerMinute: configStore.GetInt("gateway.requests_per_minute"),
	})
	if err != nil {
		logger.Warn("Gateway unavailable: %v", err)
		return nil
	}
	answerer.SetPromptStore(promptStore)
	return answerer
}

// buildEmbedder creates the embedding service when an API key is
// configured. Embeddings are enrichment only; ingestion works without.
func buildEmbedder() driven.EmbeddingService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = configStore.GetString("embedding.api_key")
	}
	if apiKey == "" {
		return nil
	}

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:  apiKey,
		BaseURL: configStore.GetString("embedding.base_url"),
		Model:   configStore.GetString("embedding.model"),
	})
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
		return nil
	}
	return embedder
}

// closeServices releases resources acquired during wiring.
func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
		store = nil
	}
}

// resolveUserID returns the acting user: the --user flag, the configured
// default, or "local" for single-user setups.
func resolveUserID() string {
	if userFlag != "" {
		return userFlag
	}
	if configStore != nil {
		if id := configStore.GetString("user.id"); id != "" {
			return id
		}
	}
	return "local"
}
