package rag

import "testing"

func TestParseChunkType(t *testing.T) {
	tests := []struct {
		in     string
		want   ChunkType
		wantOK bool
	}{
		{"reproducible", ChunkReproducible, true},
		{"Reproducibles", ChunkReproducible, true},
		{"worksheet", ChunkReproducible, true},
		{"Worksheets", ChunkReproducible, true},
		{"templates", ChunkReproducible, true},
		{"body_text", ChunkBodyText, true},
		{"Body Text", ChunkBodyText, true},
		{"chapter-summary", ChunkChapterSummary, true},
		{"summary", ChunkChapterSummary, true},
		{"tables", ChunkTable, true},
		{"list", ChunkList, true},
		{"  CALLOUT ", ChunkCallout, true},
		{"sidebar", ChunkCallout, true},
		{"title", ChunkTitle, true},
		{"", "", false},
		{"video", "", false},
		{"null", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseChunkType(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseChunkType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQueryFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter QueryFilter
		want   bool
	}{
		{"zero value", QueryFilter{}, true},
		{"empty slices", QueryFilter{BookTitles: []string{}, Authors: []string{}}, true},
		{"title", QueryFilter{BookTitles: []string{"Learning by Doing"}}, false},
		{"author", QueryFilter{Authors: []string{"DuFour"}}, false},
		{"chunk type", QueryFilter{ChunkType: ChunkTable}, false},
		{"chapter", QueryFilter{Chapter: "4"}, false},
	}

	for _, tt := range tests {
		if got := tt.filter.IsEmpty(); got != tt.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("short", 300); got != "short" {
		t.Errorf("excerpt(short) = %q", got)
	}

	long := ""
	for i := 0; i < 400; i++ {
		long += "é"
	}
	got := excerpt(long, 300)
	if n := len([]rune(got)); n != 300 {
		t.Errorf("excerpt length = %d runes, want 300", n)
	}
}

func TestMetaInt(t *testing.T) {
	meta := map[string]any{
		"i":   7,
		"i64": int64(12),
		"f":   float64(33),
		"s":   " 41 ",
		"bad": "x",
	}
	tests := map[string]int{"i": 7, "i64": 12, "f": 33, "s": 41, "bad": 0, "missing": 0}
	for key, want := range tests {
		if got := metaInt(meta, key); got != want {
			t.Errorf("metaInt(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestMetaStrings(t *testing.T) {
	meta := map[string]any{
		"any":    []any{"Richard DuFour", "", "Rebecca DuFour"},
		"str":    "Richard DuFour, Rebecca DuFour",
		"native": []string{"Mike Mattos"},
	}

	if got := metaStrings(meta, "any"); len(got) != 2 || got[1] != "Rebecca DuFour" {
		t.Errorf("metaStrings(any) = %v", got)
	}
	if got := metaStrings(meta, "str"); len(got) != 2 || got[0] != "Richard DuFour" {
		t.Errorf("metaStrings(str) = %v", got)
	}
	if got := metaStrings(meta, "native"); len(got) != 1 {
		t.Errorf("metaStrings(native) = %v", got)
	}
	if got := metaStrings(meta, "missing"); got != nil {
		t.Errorf("metaStrings(missing) = %v, want nil", got)
	}
}
