package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagelens/kb-cli/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage knowledge base documents",
	Long:  `List, inspect, activate, retag, or remove documents.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsDetailsCmd = &cobra.Command{
	Use:   "details [doc-id]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDetails,
}

var docsActivateCmd = &cobra.Command{
	Use:   "activate [doc-id]",
	Short: "Include a document in retrieval",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsActivate,
}

var docsDeactivateCmd = &cobra.Command{
	Use:   "deactivate [doc-id]",
	Short: "Exclude a document from retrieval without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDeactivate,
}

var docsSetTypeCmd = &cobra.Command{
	Use:   "set-type [doc-id] [type]",
	Short: "Change a document's type tag",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocsSetType,
}

var docsRmCmd = &cobra.Command{
	Use:   "rm [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRm,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDetailsCmd)
	docsCmd.AddCommand(docsActivateCmd)
	docsCmd.AddCommand(docsDeactivateCmd)
	docsCmd.AddCommand(docsSetTypeCmd)
	docsCmd.AddCommand(docsRmCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	docs, err := documentService.List(ctx, resolveUserID())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in the knowledge base.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		active := "active"
		if !docs[i].IsActive {
			active = "inactive"
		}
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].Name)
		cmd.Printf("    Type:   %s\n", docs[i].DocumentType)
		cmd.Printf("    Status: %s (%s)\n", docs[i].ProcessingStatus, active)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsDetails(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	details, err := documentService.GetDetails(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document Details: %s\n\n", details.ID)
	cmd.Printf("  Name:        %s\n", details.Name)
	cmd.Printf("  Type:        %s\n", details.DocumentType)
	cmd.Printf("  Size:        %d bytes\n", details.FileSize)
	cmd.Printf("  Active:      %t\n", details.IsActive)
	cmd.Printf("  Status:      %s\n", details.ProcessingStatus)
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Created:     %s\n", details.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", details.UpdatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runDocsActivate(cmd *cobra.Command, args []string) error {
	return setDocActive(cmd, args[0], true)
}

func runDocsDeactivate(cmd *cobra.Command, args []string) error {
	return setDocActive(cmd, args[0], false)
}

func setDocActive(cmd *cobra.Command, docID string, active bool) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	if err := documentService.SetActive(ctx, docID, active); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	if active {
		cmd.Printf("Document %s activated.\n", docID)
	} else {
		cmd.Printf("Document %s deactivated.\n", docID)
	}
	return nil
}

func runDocsSetType(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	docType := domain.DocumentType(args[1])

	ctx := context.Background()
	if err := documentService.SetType(ctx, docID, docType); err != nil {
		return fmt.Errorf("failed to set document type: %w", err)
	}

	cmd.Printf("Document %s tagged as %s.\n", docID, docType)
	return nil
}

func runDocsRm(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if err := documentService.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}
