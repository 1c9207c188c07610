package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"plc-kb/internal/llm"
	"plc-kb/internal/rag"
	"plc-kb/internal/rag/mocks"
)

func TestFilterExtractor_Extract(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  rag.QueryFilter
	}{
		{
			name:  "reproducible request",
			reply: `{"book_titles":[],"authors":[],"chunk_type":"reproducible","chapter":null}`,
			want:  rag.QueryFilter{ChunkType: rag.ChunkReproducible},
		},
		{
			name:  "titles and authors are cleaned",
			reply: `{"book_titles":[" Learning by Doing ","learning by doing","Taking Action"],"authors":["DuFour",""],"chunk_type":null,"chapter":"Chapter 4"}`,
			want: rag.QueryFilter{
				BookTitles: []string{"Learning by Doing", "Taking Action"},
				Authors:    []string{"DuFour"},
				Chapter:    "Chapter 4",
			},
		},
		{
			name:  "synonym chunk type is coerced",
			reply: `{"book_titles":[],"authors":[],"chunk_type":"Worksheets","chapter":null}`,
			want:  rag.QueryFilter{ChunkType: rag.ChunkReproducible},
		},
		{
			name:  "unknown chunk type is dropped",
			reply: `{"book_titles":["Taking Action"],"authors":[],"chunk_type":"video","chapter":null}`,
			want:  rag.QueryFilter{BookTitles: []string{"Taking Action"}},
		},
		{
			name:  "fenced JSON is accepted",
			reply: "```json\n{\"book_titles\":[],\"authors\":[],\"chunk_type\":\"table\",\"chapter\":null}\n```",
			want:  rag.QueryFilter{ChunkType: rag.ChunkTable},
		},
		{
			name:  "malformed JSON gives empty filter",
			reply: `{"book_titles": ["Learning by`,
			want:  rag.QueryFilter{},
		},
		{
			name:  "prose gives empty filter",
			reply: "I think the user wants reproducibles.",
			want:  rag.QueryFilter{},
		},
		{
			name:  "missing key violates schema",
			reply: `{"book_titles":[],"chunk_type":"table"}`,
			want:  rag.QueryFilter{},
		},
		{
			name:  "extra key violates schema",
			reply: `{"book_titles":[],"authors":[],"chunk_type":null,"chapter":null,"year":2016}`,
			want:  rag.QueryFilter{},
		},
		{
			name:  "wrong type violates schema",
			reply: `{"book_titles":"Learning by Doing","authors":[],"chunk_type":null,"chapter":null}`,
			want:  rag.QueryFilter{},
		},
		{
			name: "model error gives empty filter",
			err:  errors.New("connection refused"),
			want: rag.QueryFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := mocks.NewMockJSONCompleter(ctrl)
			completer.EXPECT().
				CompleteJSON(gomock.Any(), gomock.Any(), "query_filter", gomock.Any(), gomock.Any()).
				Return(tt.reply, tt.err)

			extractor := rag.NewFilterExtractor(completer, nil, "gpt-4o", time.Second)
			got := extractor.Extract(context.Background(), "q")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterExtractor_RequestShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockJSONCompleter(ctrl)
	titles := mocks.NewMockTitleSource(ctrl)

	titles.EXPECT().ListTitles(gomock.Any()).Return([]string{"Learning by Doing", "Taking Action"}, nil)
	completer.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), "query_filter", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, messages []llm.Message, name string, schema *jsonschema.Schema, params llm.ChatParams) (string, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "extraction must be bounded by a timeout")

			assert.Equal(t, float32(0), params.Temperature)
			assert.Equal(t, 200, params.MaxTokens)
			assert.Equal(t, "filter-model", params.Model)

			require.Len(t, messages, 2)
			assert.Equal(t, "system", messages[0].Role)
			assert.Contains(t, messages[0].Content, "- Learning by Doing")
			assert.Equal(t, "Find reproducibles about collaborative teams", messages[1].Content)

			require.NotNil(t, schema)
			assert.ElementsMatch(t, []string{"book_titles", "authors", "chunk_type", "chapter"}, schema.Required)
			return `{"book_titles":[],"authors":[],"chunk_type":"reproducible","chapter":null}`, nil
		})

	extractor := rag.NewFilterExtractor(completer, titles, "filter-model", 0)
	got := extractor.Extract(context.Background(), "Find reproducibles about collaborative teams")
	assert.Equal(t, rag.QueryFilter{ChunkType: rag.ChunkReproducible}, got)
}

func TestFilterExtractor_CatalogueUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockJSONCompleter(ctrl)
	titles := mocks.NewMockTitleSource(ctrl)

	titles.EXPECT().ListTitles(gomock.Any()).Return(nil, errors.New("database is locked"))
	completer.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ string, _ *jsonschema.Schema, _ llm.ChatParams) (string, error) {
			assert.False(t, strings.Contains(messages[0].Content, "Books in the library"))
			return `{"book_titles":[],"authors":[],"chunk_type":null,"chapter":null}`, nil
		})

	extractor := rag.NewFilterExtractor(completer, titles, "", time.Second)
	assert.True(t, extractor.Extract(context.Background(), "q").IsEmpty())
}

func TestFilterExtractor_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockJSONCompleter(ctrl)
	completer.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ []llm.Message, _ string, _ *jsonschema.Schema, _ llm.ChatParams) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	extractor := rag.NewFilterExtractor(completer, nil, "", 20*time.Millisecond)
	assert.True(t, extractor.Extract(context.Background(), "q").IsEmpty())
}
