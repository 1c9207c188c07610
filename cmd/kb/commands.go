package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"plc-kb/internal/mcpserver"
	"plc-kb/internal/rag"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed books",
	Long: `Answer a question from the indexed books.

Examples:
  kb ask "How should a team write SMART goals?"
  kb ask "What is a guaranteed and viable curriculum?" --sources
  kb ask "Latest research on PLC implementation" --web --top-k 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useWeb, _ := cmd.Flags().GetBool("web")
		topK, _ := cmd.Flags().GetInt("top-k")
		showSources, _ := cmd.Flags().GetBool("sources")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Queries.Query(cmd.Context(), rag.QueryRequest{
			Query:  args[0],
			UseWeb: useWeb,
			TopK:   topK,
		})
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), result, showSources)
		return nil
	},
}

// --- ingest ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index processed book nodes into the vector store",
	Long: `Index processed book nodes into the vector store.

Books already indexed are skipped unless --force is given, which drops
the collection and rebuilds it from nodes.json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Pipeline.Run(cmd.Context(), force)
		printStats(cmd.OutOrStdout(), stats)
		return err
	},
}

// --- books ---

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List indexed books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		books, err := a.Books.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		printBooks(cmd.OutOrStdout(), books)
		return nil
	},
}

// --- serve-mcp ---

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Serve the knowledge base as MCP tools over stdio",
	Long: `Serve the knowledge base as MCP tools over stdio.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "plc-kb": {
        "command": "/path/to/kb",
        "args": ["serve-mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		s := mcpserver.New(mcpserver.Deps{
			Queries: a.Queries,
			Books:   a.Books,
			Version: version,
		})
		if err := server.NewStdioServer(s).Listen(cmd.Context(), os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("web", false, "force web search context")
	askCmd.Flags().Int("top-k", 0, "number of book passages to use (default SIMILARITY_TOP_K)")
	askCmd.Flags().Bool("sources", false, "print the cited sources")

	ingestCmd.Flags().Bool("force", false, "drop the collection and re-index every book")

	rootCmd.AddCommand(askCmd, ingestCmd, booksCmd, serveMCPCmd)
}
