// Package cli implements the documentor command line client.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/documentor/internal/chatclient"
)

var (
	version = "dev"

	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "documentor",
	Short: "Upload PDFs and chat with them",
	Long: `documentor uploads PDFs to a documentor server, waits for them to be
indexed and opens a streaming chat grounded in their pages.

The server address and token default to DOCUMENTOR_URL and DOCUMENTOR_TOKEN.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("DOCUMENTOR_URL", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("DOCUMENTOR_TOKEN"), "bearer token")
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) error {
	version = v
	return rootCmd.ExecuteContext(ctx)
}

func newClient() *chatclient.Client {
	return chatclient.NewClient(chatclient.ClientConfig{BaseURL: serverURL, Token: token})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
