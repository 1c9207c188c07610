package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"plc-kb/internal/rag"
	"plc-kb/internal/service"
)

const chatHelp = `Commands:
  quit, exit     leave the chat
  clear          clear the screen
  sources        show full excerpts from the last answer
  help           show this help
  !web <query>   answer with web search context
  <any text>     ask the knowledge base`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Ask questions interactively.

Every line is answered through the same path as "kb ask", including the
answer cache. Type "help" for the chat commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.Queries)
	},
}

// runChat reads one question per line until EOF, quit or exit. Query errors
// are printed and the loop continues.
func runChat(ctx context.Context, in io.Reader, out io.Writer, queries service.QueryService) error {
	fmt.Fprintln(out, "PLC knowledge base chat. Type 'help' for commands.")

	var last *rag.QueryResult
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req := rag.QueryRequest{Query: line}
		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			fmt.Fprintln(out, chatHelp)
			continue
		case "clear":
			fmt.Fprint(out, "\033[H\033[2J")
			continue
		case "sources":
			printExcerpts(out, last)
			continue
		}
		if q, ok := strings.CutPrefix(line, "!web "); ok {
			req = rag.QueryRequest{Query: strings.TrimSpace(q), UseWeb: true}
		}

		result, err := queries.Query(ctx, req)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		last = &result
		printResult(out, result, true)
	}
}

func printExcerpts(w io.Writer, result *rag.QueryResult) {
	if result == nil || len(result.Sources) == 0 {
		fmt.Fprintln(w, "No sources from the last answer.")
		return
	}
	for i, src := range result.Sources {
		fmt.Fprintf(w, "%d. [%s] %s, page %d (score %.3f)\n", i+1, strings.ToUpper(src.SKU), src.BookTitle, src.Page, src.Score)
		fmt.Fprintf(w, "   %s\n", src.Excerpt)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
