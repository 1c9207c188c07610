// Package mcpserver exposes the book knowledge base as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"plc-kb/internal/rag"
	"plc-kb/internal/service"
	"plc-kb/internal/storage"
)

// Deps holds dependencies for the MCP server.
type Deps struct {
	Queries service.QueryService
	Books   storage.BookStore
	Version string
}

// New creates an MCP server with the query_books and list_books tools registered.
func New(deps Deps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"plc-kb",
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions("PLC book knowledge base. Answers cite the book SKU, title, and page."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("query_books",
			mcp.WithDescription("Answer a question from the indexed PLC books, citing book and page."),
			mcp.WithString("query", mcp.Description("The question to answer"), mcp.Required()),
			mcp.WithBoolean("use_web", mcp.Description("Also include web search context"), mcp.DefaultBool(false)),
			mcp.WithNumber("top_k", mcp.Description("Number of book passages to use (1-20)")),
		),
		queryBooks(deps),
	)

	s.AddTool(
		mcp.NewTool("list_books",
			mcp.WithDescription("List the books in the knowledge base."),
		),
		listBooks(deps),
	)

	return s
}

func queryBooks(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		result, err := deps.Queries.Query(ctx, rag.QueryRequest{
			Query:  query,
			UseWeb: req.GetBool("use_web", false),
			TopK:   req.GetInt("top_k", 0),
		})
		if err != nil {
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				return mcp.NewToolResultError(vErr.Field + " " + vErr.Message), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return mcp.NewToolResultText(FormatResult(result)), nil
	}
}

func listBooks(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		books, err := deps.Books.ListAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list books: %v", err)), nil
		}
		if len(books) == 0 {
			return mcp.NewToolResultText("No books have been indexed yet."), nil
		}

		var b strings.Builder
		for _, book := range books {
			fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(book.SKU), book.Title)
			if len(book.Authors) > 0 {
				fmt.Fprintf(&b, " by %s", strings.Join(book.Authors, ", "))
			}
			fmt.Fprintf(&b, " (%d chunks)\n", book.ChunkCount)
		}
		return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
	}
}

// FormatResult renders a result as plain text with a numbered source list.
func FormatResult(result rag.QueryResult) string {
	var b strings.Builder
	b.WriteString(result.Answer)

	if len(result.Sources) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, src := range result.Sources {
			fmt.Fprintf(&b, "%d. [%s] %s, page %d (score %.2f)\n",
				i+1, strings.ToUpper(src.SKU), src.BookTitle, src.Page, src.Score)
		}
	}

	var flags []string
	if result.UsedWeb {
		flags = append(flags, "used_web=true")
	}
	if result.Cached {
		flags = append(flags, "cached=true")
	}
	if len(flags) > 0 {
		b.WriteString("\n" + strings.Join(flags, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}
