package indexer

// Node is one parsed chunk as written to nodes.json by the PDF parser.
type Node struct {
	ID       string       `json:"id_"`
	Text     string       `json:"text"`
	Metadata NodeMetadata `json:"metadata"`
}

// NodeMetadata is the metadata attached to each parsed chunk.
type NodeMetadata struct {
	BookTitle      string   `json:"book_title"`
	Authors        []string `json:"authors"`
	SKU            string   `json:"sku"`
	Chapter        string   `json:"chapter"`
	Section        string   `json:"section"`
	PageNumber     int      `json:"page_number"`
	ChunkType      string   `json:"chunk_type"`
	ReproducibleID string   `json:"reproducible_id"`
}

// ManifestBook describes one book in the manifest.
type ManifestBook struct {
	SKU                 string   `yaml:"sku"`
	Title               string   `yaml:"title"`
	Authors             []string `yaml:"authors"`
	ExpectedPDFFilename string   `yaml:"expected_pdf_filename"`
}
