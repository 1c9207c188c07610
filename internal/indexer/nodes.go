package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodesFile is the parser output file name inside the processed directory.
const NodesFile = "nodes.json"

// LoadNodes reads the parser's node array from path.
func LoadNodes(path string) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nodes file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var nodes []Node
	if err := json.NewDecoder(f).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("failed to decode nodes file %s: %w", path, err)
	}
	return nodes, nil
}

// LoadManifest reads a book manifest in YAML or JSON (a list of books) and
// indexes it by lowercased SKU. An empty path yields an empty manifest.
func LoadManifest(path string) (map[string]ManifestBook, error) {
	books := make(map[string]ManifestBook)
	if path == "" {
		return books, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	// JSON is a subset of YAML, so one decoder handles both.
	var list []ManifestBook
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	for _, b := range list {
		sku := strings.ToLower(strings.TrimSpace(b.SKU))
		if sku == "" {
			continue
		}
		b.SKU = sku
		books[sku] = b
	}
	return books, nil
}
