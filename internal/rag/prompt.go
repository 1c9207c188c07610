package rag

import (
	"fmt"
	"strings"
)

const synthesisSystemPrompt = `You are a knowledgeable coach on Professional Learning Communities (PLCs) at Work.
Answer questions based ONLY on the provided book excerpts.
Always cite your sources using the format: [SKU] Book Title, page N.
If the information is not in the provided context, say so clearly.
Be specific and actionable in your responses.`

// buildPrompt formats the question and the retrieved excerpts for synthesis.
func buildPrompt(query string, sources []SourceAttribution) string {
	var b strings.Builder
	b.WriteString("--- Book excerpts ---\n\n")
	for i, s := range sources {
		fmt.Fprintf(&b, "[%d] [%s] %s, page %d", i+1, s.SKU, s.BookTitle, s.Page)
		if s.Chapter != "" {
			fmt.Fprintf(&b, " (chapter: %s)", s.Chapter)
		}
		if s.ReproducibleID != "" {
			fmt.Fprintf(&b, " (reproducible %s)", s.ReproducibleID)
		}
		b.WriteString("\n")
		text := s.Text
		if text == "" {
			text = s.Excerpt
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	b.WriteString("--- End excerpts ---\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}
