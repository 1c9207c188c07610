package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"plc-kb/internal/indexer"
	"plc-kb/internal/rag"
	"plc-kb/internal/storage"
)

func printResult(w io.Writer, result rag.QueryResult, showSources bool) {
	fmt.Fprintln(w, result.Answer)

	if showSources && len(result.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for i, src := range result.Sources {
			fmt.Fprintf(w, "  %d. [%s] %s, p. %d", i+1, strings.ToUpper(src.SKU), src.BookTitle, src.Page)
			if src.Chapter != "" {
				fmt.Fprintf(w, " (%s)", src.Chapter)
			}
			fmt.Fprintf(w, "  score=%.3f\n", src.Score)
		}
	}

	if result.UsedWeb {
		fmt.Fprintln(w, "\n(includes web search context)")
	}
	if result.Cached {
		fmt.Fprintln(w, "\n(cached)")
	}
}

func printStats(w io.Writer, stats indexer.Stats) {
	fmt.Fprintf(w, "Nodes loaded:   %d\n", stats.NodesLoaded)
	fmt.Fprintf(w, "Nodes indexed:  %d\n", stats.NodesIndexed)
	fmt.Fprintf(w, "Nodes skipped:  %d\n", stats.NodesSkipped)

	reasons := make([]string, 0, len(stats.SkipReasons))
	for reason := range stats.SkipReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "  %s: %d\n", reason, stats.SkipReasons[reason])
	}

	fmt.Fprintf(w, "Books indexed:  %d\n", len(stats.BooksIndexed))
	fmt.Fprintf(w, "Books skipped:  %d\n", len(stats.BooksSkipped))
	if stats.NodesIndexed > 0 {
		t := stats.TokenStats
		fmt.Fprintf(w, "Chunk tokens:   min=%d max=%d mean=%.1f p95=%d\n", t.Min, t.Max, t.Mean, t.P95)
	}
	if stats.IndexVersion != "" {
		fmt.Fprintf(w, "Index version:  %s\n", stats.IndexVersion)
	}
}

func printBooks(w io.Writer, books []storage.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books have been indexed yet.")
		return
	}
	for _, b := range books {
		fmt.Fprintf(w, "%-8s %s", strings.ToUpper(b.SKU), b.Title)
		if len(b.Authors) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(b.Authors, ", "))
		}
		fmt.Fprintf(w, "  %d chunks\n", b.ChunkCount)
	}
}
