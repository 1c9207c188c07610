package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/llm"
)

const (
	filterMaxTokens      = 200
	defaultFilterTimeout = 10 * time.Second
	maxCatalogTitles     = 100
)

const filterInstruction = `You extract search filters from questions about a library of books on Professional Learning Communities (PLCs).
Return a JSON object with exactly these keys:
- "book_titles": list of book title fragments the user names explicitly, else []
- "authors": list of author surnames the user names explicitly, else []
- "chunk_type": one of body_text, reproducible, table, list, chapter_summary, callout, title when the user asks for that kind of content (worksheets and templates are "reproducible"), else null
- "chapter": the chapter the user refers to, such as "4" or "Chapter 2", else null
Only fill a key when the question states it. Never guess.`

// FilterExtractor derives a QueryFilter from a free-text question using a language model.
type FilterExtractor struct {
	llm      JSONCompleter
	titles   TitleSource
	model    string
	timeout  time.Duration
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewFilterExtractor creates an extractor. titles may be nil; when set, known book
// titles are listed in the instruction so the model can quote them.
// model may be empty to use the completer's default.
func NewFilterExtractor(completer JSONCompleter, titles TitleSource, model string, timeout time.Duration) *FilterExtractor {
	if timeout <= 0 {
		timeout = defaultFilterTimeout
	}
	schema := filterSchema()
	resolved, err := schema.Resolve(nil)
	if err != nil {
		// The schema is static, so this only happens if filterSchema is broken.
		panic(fmt.Sprintf("invalid filter schema: %v", err))
	}
	return &FilterExtractor{
		llm:      completer,
		titles:   titles,
		model:    model,
		timeout:  timeout,
		schema:   schema,
		resolved: resolved,
	}
}

func filterSchema() *jsonschema.Schema {
	stringList := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:        "array",
			Description: desc,
			Items:       &jsonschema.Schema{Type: "string"},
		}
	}
	types := make([]string, 0, len(ChunkTypes))
	for _, ct := range ChunkTypes {
		types = append(types, string(ct))
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"book_titles": stringList("Book title fragments named in the question."),
			"authors":     stringList("Author surnames named in the question."),
			"chunk_type": {
				Types:       []string{"string", "null"},
				Description: "One of: " + strings.Join(types, ", "),
			},
			"chapter": {
				Types:       []string{"string", "null"},
				Description: "Chapter reference named in the question.",
			},
		},
		Required:             []string{"book_titles", "authors", "chunk_type", "chapter"},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

// Extract returns the filter implied by query. It never fails: a model error,
// timeout, malformed reply or schema violation yields the empty filter.
func (e *FilterExtractor) Extract(ctx context.Context, query string) QueryFilter {
	logger := contextutil.LoggerFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	messages := []llm.Message{
		{Role: "system", Content: e.instruction(ctx)},
		{Role: "user", Content: query},
	}

	raw, err := e.llm.CompleteJSON(ctx, messages, "query_filter", e.schema, llm.ChatParams{
		Model:       e.model,
		MaxTokens:   filterMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		logger.WarnContext(ctx, "filter extraction failed, searching unfiltered", "error", err)
		return QueryFilter{}
	}

	filter, err := e.parse(raw)
	if err != nil {
		logger.WarnContext(ctx, "discarding unparseable filter", "error", err, "raw", truncate(raw, 200))
		return QueryFilter{}
	}

	logger.DebugContext(ctx, "filter extracted",
		"book_titles", filter.BookTitles,
		"authors", filter.Authors,
		"chunk_type", filter.ChunkType,
		"chapter", filter.Chapter,
	)
	return filter
}

// instruction returns the system prompt, with the known catalogue appended when available.
func (e *FilterExtractor) instruction(ctx context.Context) string {
	if e.titles == nil {
		return filterInstruction
	}
	titles, err := e.titles.ListTitles(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "book catalogue unavailable for filter prompt", "error", err)
		return filterInstruction
	}
	if len(titles) == 0 {
		return filterInstruction
	}
	if len(titles) > maxCatalogTitles {
		titles = titles[:maxCatalogTitles]
	}

	var b strings.Builder
	b.WriteString(filterInstruction)
	b.WriteString("\n\nBooks in the library (quote a distinctive fragment of the title):\n")
	for _, t := range titles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}

type rawFilter struct {
	BookTitles []string `json:"book_titles"`
	Authors    []string `json:"authors"`
	ChunkType  *string  `json:"chunk_type"`
	Chapter    *string  `json:"chapter"`
}

// parse validates raw against the filter schema and coerces it into a QueryFilter.
func (e *FilterExtractor) parse(raw string) (QueryFilter, error) {
	raw = stripCodeFence(raw)

	var instance map[string]any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return QueryFilter{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := e.resolved.Validate(instance); err != nil {
		return QueryFilter{}, fmt.Errorf("schema violation: %w", err)
	}

	var rf rawFilter
	if err := json.Unmarshal([]byte(raw), &rf); err != nil {
		return QueryFilter{}, fmt.Errorf("invalid filter: %w", err)
	}

	filter := QueryFilter{
		BookTitles: cleanList(rf.BookTitles),
		Authors:    cleanList(rf.Authors),
	}
	if rf.ChunkType != nil {
		// An unknown content type is dropped rather than failing the whole filter.
		if ct, ok := ParseChunkType(*rf.ChunkType); ok {
			filter.ChunkType = ct
		}
	}
	if rf.Chapter != nil {
		filter.Chapter = strings.TrimSpace(*rf.Chapter)
	}
	return filter, nil
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
