package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/documentor/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [doc-id]",
	Short: "Chat with a document",
	Long: `Opens an interactive chat with an indexed document. With --ask the
question is sent once and the answer is streamed to stdout.

Controls:
  Enter    - Send
  Ctrl+O   - Load older messages
  PgUp/Dn  - Scroll
  Esc      - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

// askQuestion is a flag for the chat command.
var askQuestion string

func init() {
	chatCmd.Flags().StringVarP(&askQuestion, "ask", "a", "", "Ask one question and print the answer")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := newClient()

	doc, err := client.Document(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if askQuestion == "" {
		return tui.Run(ctx, client, doc)
	}

	stream, err := client.SendMessage(ctx, doc.ID, askQuestion)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer func() { _ = stream.Close() }()

	out := cmd.OutOrStdout()
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_, _ = fmt.Fprintln(out)
			return fmt.Errorf("answer interrupted: %w", err)
		}
		_, _ = io.WriteString(out, delta)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}
