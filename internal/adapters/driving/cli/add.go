package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

// addType is a flag for the add command.
var addType string

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a document to the knowledge base",
	Long: `Extracts text from the file, splits it into chunks, and stores them
for retrieval. Supported formats: plain text, markdown, PDF. Other
formats fall back to best-effort binary text extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "other",
		"document type (research, brand, persona, other)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	docType := domain.DocumentType(addType)
	if !docType.IsValid() {
		return fmt.Errorf("unknown document type %q (want research, brand, persona, or other)", addType)
	}

	ctx := context.Background()
	doc, err := ingestService.Ingest(ctx, resolveUserID(), path, docType, raw)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Added %s\n", doc.Name)
	cmd.Printf("  ID:     %s\n", doc.ID)
	cmd.Printf("  Type:   %s\n", doc.DocumentType)
	cmd.Printf("  Status: %s\n", doc.ProcessingStatus)
	return nil
}
