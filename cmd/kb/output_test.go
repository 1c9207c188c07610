package main

import (
	"bytes"
	"strings"
	"testing"

	"plc-kb/internal/indexer"
	"plc-kb/internal/rag"
	"plc-kb/internal/storage"
)

func TestPrintResult(t *testing.T) {
	result := rag.QueryResult{
		Answer: "Teams write SMART goals together.",
		Sources: []rag.SourceAttribution{
			{SKU: "bkf746", BookTitle: "Learning by Doing", Page: 41, Chapter: "Chapter 5", Score: 0.8123},
		},
		UsedWeb: true,
	}

	var buf bytes.Buffer
	printResult(&buf, result, false)
	if got := buf.String(); strings.Contains(got, "Sources:") {
		t.Errorf("sources printed without --sources:\n%s", got)
	}

	buf.Reset()
	printResult(&buf, result, true)
	got := buf.String()
	for _, want := range []string{
		"Teams write SMART goals together.\n",
		"1. [BKF746] Learning by Doing, p. 41 (Chapter 5)  score=0.812",
		"(includes web search context)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, indexer.Stats{
		NodesLoaded:  10,
		NodesIndexed: 7,
		NodesSkipped: 3,
		SkipReasons:  map[string]int{indexer.SkipMissingSKU: 1, indexer.SkipAlreadyIndexed: 2},
		BooksIndexed: []string{"bkf746"},
		BooksSkipped: []string{"bkf217"},
		TokenStats:   indexer.ChunkTokenStats{Min: 3, Max: 120, Mean: 40.5, P95: 110},
		IndexVersion: "0123456789abcdef",
	})
	got := buf.String()

	for _, want := range []string{
		"Nodes indexed:  7\n",
		"Books skipped:  1\n",
		"min=3 max=120 mean=40.5 p95=110",
		"Index version:  0123456789abcdef",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	first := strings.Index(got, indexer.SkipAlreadyIndexed)
	second := strings.Index(got, indexer.SkipMissingSKU)
	if first < 0 || second < 0 || (indexer.SkipAlreadyIndexed < indexer.SkipMissingSKU) != (first < second) {
		t.Errorf("skip reasons not sorted:\n%s", got)
	}
}

func TestPrintBooks(t *testing.T) {
	var buf bytes.Buffer
	printBooks(&buf, nil)
	if got := buf.String(); got != "No books have been indexed yet.\n" {
		t.Errorf("empty output = %q", got)
	}

	buf.Reset()
	printBooks(&buf, []storage.Book{{SKU: "bkf746", Title: "Learning by Doing", Authors: []string{"Richard DuFour"}, ChunkCount: 412}})
	if got := buf.String(); got != "BKF746   Learning by Doing (Richard DuFour)  412 chunks\n" {
		t.Errorf("output = %q", got)
	}
}

func TestAskCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ask"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for missing question")
	}
}
