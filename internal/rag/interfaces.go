package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks plc-kb/internal/rag Engine,Embedder,JSONCompleter,Synthesizer,WebSearcher,TitleSource

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"plc-kb/internal/llm"
)

// The interfaces below are declared from the pipeline's side; the llm,
// websearch and storage packages satisfy them.

// Embedder turns text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// JSONCompleter returns model output constrained to a JSON schema.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, messages []llm.Message, name string, schema *jsonschema.Schema, params llm.ChatParams) (string, error)
}

// Synthesizer writes an answer from a system instruction and a prompt.
type Synthesizer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// WebSearcher fetches web-grounded context for a query.
type WebSearcher interface {
	Configured() bool
	Search(ctx context.Context, query string) (string, error)
}

// TitleSource lists the titles of indexed books.
type TitleSource interface {
	ListTitles(ctx context.Context) ([]string, error)
}
