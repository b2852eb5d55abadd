package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/documentor/internal/chatclient"
	"github.com/custodia-labs/documentor/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a PDF",
	Long:  `Uploads a PDF and queues it for ingestion. With --wait the command blocks until ingestion finishes.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage uploaded documents",
	Long:  `List, inspect, or delete uploaded documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentStatusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Show ingestion status",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentStatus,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document, its vectors and its stored file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var (
	// uploadWait is a flag for the upload command.
	uploadWait bool
	// statusPoll is the interval between status checks while waiting.
	statusPoll = time.Second
)

func init() {
	uploadCmd.Flags().BoolVarP(&uploadWait, "wait", "w", false, "Wait until ingestion finishes")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentStatusCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(documentCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ctx := cmd.Context()
	client := newClient()

	res, err := client.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}
	cmd.Printf("Uploaded %s (key %s)\n", res.Name, res.Key)

	if !uploadWait {
		return nil
	}

	doc, err := client.WaitForDocument(ctx, res.Key)
	if err != nil {
		return fmt.Errorf("failed waiting for document: %w", err)
	}
	cmd.Printf("Document %s created, ingesting...\n", doc.ID)

	status, err := waitForTerminal(ctx, client, doc.ID)
	if err != nil {
		return err
	}
	if status == domain.UploadStatusFailed {
		return fmt.Errorf("ingestion of %s failed", doc.ID)
	}
	cmd.Printf("Document %s is ready\n", doc.ID)
	return nil
}

func waitForTerminal(ctx context.Context, client *chatclient.Client, id string) (domain.UploadStatus, error) {
	ticker := time.NewTicker(statusPoll)
	defer ticker.Stop()

	for {
		status, err := client.Status(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to get status: %w", err)
		}
		if status.IsTerminal() {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	docs, err := newClient().Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Name:    %s\n", doc.Name)
		cmd.Printf("    Status:  %s\n", doc.UploadStatus)
		if doc.FailureReason != domain.FailureNone {
			cmd.Printf("    Reason:  %s\n", doc.FailureReason)
		}
		cmd.Printf("    Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentStatus(cmd *cobra.Command, args []string) error {
	status, err := newClient().Status(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	cmd.Println(status)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := newClient().DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
