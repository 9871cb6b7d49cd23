package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

var (
	queryJSON     bool
	retrieveLimit int
	retrieveJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Retrieves the most relevant chunks from your active documents and
generates an answer grounded in them. The answer reports coverage:
fully_supported, partially_supported, or not_found.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [question]",
	Short: "Show the chunks a question would retrieve",
	Long: `Runs keyword retrieval only, without answer generation. Useful for
inspecting what evidence a query command would be grounded in.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of chunks")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(retrieveCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := args[0]
	ctx := context.Background()

	answer, err := queryService.Ask(ctx, resolveUserID(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Coverage: %s\n", answer.Coverage)

	if len(answer.Sources) > 0 {
		cmd.Println("Sources:")
		for i := range answer.Sources {
			cmd.Printf("  [%d] %s (chunk %d, %d%%)\n",
				i+1,
				answer.Sources[i].DocumentName,
				answer.Sources[i].ChunkIndex,
				answer.Sources[i].Similarity)
		}
	}

	return nil
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := args[0]
	ctx := context.Background()

	chunks, err := queryService.Retrieve(ctx, resolveUserID(), question, retrieveLimit)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputChunksJSON(cmd, chunks)
	}

	return outputChunksTable(cmd, chunks)
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChunksTable(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	if len(chunks) == 0 {
		cmd.Println("No relevant chunks found.")
		return nil
	}

	cmd.Println("Retrieved chunks:")
	cmd.Println()
	for i := range chunks {
		cmd.Printf("  [%d] %s (chunk %d, score %.2f)\n",
			i+1, chunks[i].DocumentName, chunks[i].Chunk.Index, chunks[i].Score)
		cmd.Printf("      %s\n", chunks[i].Excerpt())
		cmd.Println()
	}

	return nil
}
