package indexer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"plc-kb/internal/rag"
)

var reproducibleIDPattern = regexp.MustCompile(`[Rr]eproducible\s+(\d+\.\d+|\d+[A-Za-z]?)`)

// ExtractReproducibleID returns the first reproducible number mentioned in
// text, such as "4.3" from "Reproducible 4.3: Team Norms".
func ExtractReproducibleID(text string) string {
	m := reproducibleIDPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Errors returned for nodes that cannot be indexed.
var (
	ErrMissingSKU       = errors.New("missing sku")
	ErrInvalidPage      = errors.New("page_number must be >= 1")
	ErrUnknownChunkType = errors.New("unknown chunk_type")
	ErrEmptyText        = errors.New("empty text")
)

// Normalizer cleans parser nodes before embedding.
type Normalizer struct {
	md       goldmark.Markdown
	manifest map[string]ManifestBook
}

// NewNormalizer creates a normalizer. manifest fills in titles and authors
// for nodes that omit them and may be nil.
func NewNormalizer(manifest map[string]ManifestBook) *Normalizer {
	return &Normalizer{
		md:       goldmark.New(goldmark.WithExtensions(extension.Table)),
		manifest: manifest,
	}
}

// Normalize validates n and returns its indexable form. Reproducible chunks,
// which the parser writes as markdown, are flattened to plain text.
func (z *Normalizer) Normalize(n Node) (Node, error) {
	meta := n.Metadata
	meta.SKU = strings.ToLower(strings.TrimSpace(meta.SKU))
	if meta.SKU == "" {
		return Node{}, ErrMissingSKU
	}
	if meta.PageNumber < 1 {
		return Node{}, fmt.Errorf("%w, got %d", ErrInvalidPage, meta.PageNumber)
	}

	ct, ok := rag.ParseChunkType(meta.ChunkType)
	if !ok {
		if meta.ChunkType != "" {
			return Node{}, fmt.Errorf("%w %q", ErrUnknownChunkType, meta.ChunkType)
		}
		ct = rag.ChunkBodyText
	}
	meta.ChunkType = string(ct)

	if book, ok := z.manifest[meta.SKU]; ok {
		if meta.BookTitle == "" {
			meta.BookTitle = book.Title
		}
		if len(meta.Authors) == 0 {
			meta.Authors = book.Authors
		}
	}
	meta.BookTitle = strings.TrimSpace(meta.BookTitle)
	meta.Chapter = strings.TrimSpace(meta.Chapter)
	meta.Section = strings.TrimSpace(meta.Section)

	body := n.Text
	if ct == rag.ChunkReproducible {
		if meta.ReproducibleID == "" {
			meta.ReproducibleID = ExtractReproducibleID(body)
		}
		body = z.PlainText(body)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Node{}, ErrEmptyText
	}

	return Node{ID: n.ID, Text: body, Metadata: meta}, nil
}

// PlainText renders markdown to plain text: one line per block, list items
// prefixed with "- ", table cells joined with " | ".
func (z *Normalizer) PlainText(markdown string) string {
	source := []byte(markdown)
	doc := z.md.Parser().Parse(text.NewReader(source))

	var lines []string
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		lines = appendBlock(lines, block, source)
	}
	return strings.Join(lines, "\n")
}

func appendBlock(lines []string, n ast.Node, source []byte) []string {
	switch v := n.(type) {
	case *ast.List:
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			if s := inlineText(item, source); s != "" {
				lines = append(lines, "- "+s)
			}
		}
	case *east.Table:
		for row := v.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, source))
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			if s := strings.TrimRight(string(seg.Value(source)), "\n"); s != "" {
				lines = append(lines, s)
			}
		}
	case *ast.Blockquote:
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			lines = appendBlock(lines, c, source)
		}
	case *ast.ThematicBreak:
	default:
		if s := inlineText(n, source); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// inlineText concatenates the text under n, separating soft line breaks with spaces.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
