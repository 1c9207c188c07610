package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_indexer.go -package=mocks plc-kb/internal/indexer BatchEmbedder,CollectionManager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/rag"
	"plc-kb/internal/storage"
	"plc-kb/internal/vectorstore"
)

const (
	defaultBatchSize   = 64
	defaultConcurrency = 4
)

// Skip reasons reported in Stats.SkipReasons.
const (
	SkipAlreadyIndexed = "already_indexed"
	SkipMissingSKU     = "missing_sku"
	SkipInvalidPage    = "invalid_page"
	SkipUnknownType    = "unknown_chunk_type"
	SkipEmptyText      = "empty_text"
)

// BatchEmbedder embeds many texts in one call, preserving order.
type BatchEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CollectionManager creates and drops vector collections.
type CollectionManager interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
	DeleteCollection(ctx context.Context, collection string) error
}

// Config holds pipeline settings.
type Config struct {
	ProcessedDir string
	ManifestPath string
	Collection   string
	VectorSize   int
	EmbedModel   string
	BatchSize    int
	Concurrency  int
}

// Pipeline loads parsed book nodes and indexes them into Qdrant and the SQLite catalogue.
type Pipeline struct {
	embedder    BatchEmbedder
	store       vectorstore.VectorStore
	collections CollectionManager
	books       storage.BookStore
	runs        storage.IngestRunStore
	cfg         Config
	now         func() time.Time
}

// NewPipeline creates a new indexing pipeline. runs may be nil, in which case
// run outcomes are only logged.
func NewPipeline(
	embedder BatchEmbedder,
	store vectorstore.VectorStore,
	collections CollectionManager,
	books storage.BookStore,
	runs storage.IngestRunStore,
	cfg Config,
) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Pipeline{
		embedder:    embedder,
		store:       store,
		collections: collections,
		books:       books,
		runs:        runs,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Run indexes every book in the processed directory. Books already in the
// catalogue are skipped unless force is set, which rebuilds the collection
// and catalogue from scratch.
func (p *Pipeline) Run(ctx context.Context, force bool) (Stats, error) {
	var runID int64
	if p.runs != nil {
		id, err := p.runs.Start(ctx, force)
		if err != nil {
			return newStats(), fmt.Errorf("failed to record ingest run: %w", err)
		}
		runID = id
		ctx = contextutil.WithAttrs(ctx, "run_id", runID)
	}
	logger := contextutil.LoggerFromContext(ctx)

	start := p.now()
	stats, err := p.run(ctx, force)

	if p.runs != nil {
		if ferr := p.runs.Finish(context.WithoutCancel(ctx), runID, stats.NodesIndexed, stats.NodesSkipped, err); ferr != nil {
			logger.WarnContext(ctx, "failed to record ingest outcome", "error", ferr)
		}
	}

	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "error", err, "nodes_indexed", stats.NodesIndexed)
		return stats, err
	}
	logger.InfoContext(ctx, "ingestion completed",
		"nodes_loaded", stats.NodesLoaded,
		"nodes_indexed", stats.NodesIndexed,
		"nodes_skipped", stats.NodesSkipped,
		"books_indexed", len(stats.BooksIndexed),
		"duration", p.now().Sub(start))
	return stats, nil
}

func (p *Pipeline) run(ctx context.Context, force bool) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	stats := newStats()
	stats.IndexVersion = IndexVersion(p.cfg.EmbedModel, p.cfg.VectorSize)

	nodes, err := LoadNodes(filepath.Join(p.cfg.ProcessedDir, NodesFile))
	if err != nil {
		return stats, err
	}
	manifest, err := LoadManifest(p.cfg.ManifestPath)
	if err != nil {
		return stats, err
	}
	stats.NodesLoaded = len(nodes)
	logger.InfoContext(ctx, "starting ingestion", "nodes", len(nodes), "force", force)

	if force {
		if err := p.collections.DeleteCollection(ctx, p.cfg.Collection); err != nil {
			return stats, fmt.Errorf("failed to drop collection: %w", err)
		}
		if err := p.books.DeleteAll(ctx); err != nil {
			return stats, fmt.Errorf("failed to clear catalogue: %w", err)
		}
	}
	if err := p.collections.EnsureCollection(ctx, p.cfg.Collection, p.cfg.VectorSize); err != nil {
		return stats, fmt.Errorf("failed to prepare collection: %w", err)
	}

	indexed := map[string]bool{}
	if !force {
		indexed, err = p.books.ListIndexedSKUs(ctx)
		if err != nil {
			return stats, fmt.Errorf("failed to list indexed books: %w", err)
		}
	}

	normalizer := NewNormalizer(manifest)
	var order []string
	bySKU := make(map[string][]Node)
	skippedBooks := make(map[string]bool)
	for i, raw := range nodes {
		n, err := normalizer.Normalize(raw)
		if err != nil {
			stats.skip(skipReason(err))
			logger.DebugContext(ctx, "skipping invalid node", "index", i, "id", raw.ID, "error", err)
			continue
		}
		sku := n.Metadata.SKU
		if indexed[sku] {
			stats.skip(SkipAlreadyIndexed)
			if !skippedBooks[sku] {
				skippedBooks[sku] = true
				stats.BooksSkipped = append(stats.BooksSkipped, sku)
			}
			continue
		}
		if n.ID == "" {
			n.ID = sku + ":" + strconv.Itoa(n.Metadata.PageNumber) + ":" + strconv.Itoa(i)
		}
		if _, ok := bySKU[sku]; !ok {
			order = append(order, sku)
		}
		bySKU[sku] = append(bySKU[sku], n)
	}

	tokenCounts := make([]int, 0, len(nodes))
	for _, sku := range order {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		bookNodes := bySKU[sku]
		count, err := p.indexBook(ctx, bookNodes)
		stats.NodesIndexed += count
		if err != nil {
			return stats, fmt.Errorf("failed to index book %s: %w", sku, err)
		}

		if err := p.books.Upsert(ctx, bookRecord(sku, bookNodes, p.now())); err != nil {
			return stats, fmt.Errorf("failed to record book %s: %w", sku, err)
		}
		stats.BooksIndexed = append(stats.BooksIndexed, sku)
		for _, n := range bookNodes {
			tokenCounts = append(tokenCounts, estimateTokens(n.Text))
		}
		logger.InfoContext(ctx, "indexed book", "sku", sku, "chunks", len(bookNodes))
	}
	stats.TokenStats = computeTokenStats(tokenCounts)

	return stats, nil
}

// indexBook embeds and upserts nodes in batches, running up to
// cfg.Concurrency batches at once. It returns the number of nodes left in the
// store. When a batch fails, points already written for the book are deleted
// so the book can be indexed again from scratch.
func (p *Pipeline) indexBook(ctx context.Context, nodes []Node) (int, error) {
	var (
		mu      sync.Mutex
		written []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for start := 0; start < len(nodes); start += p.cfg.BatchSize {
		batch := nodes[start:min(start+p.cfg.BatchSize, len(nodes))]
		g.Go(func() error {
			if err := p.indexBatch(gctx, batch); err != nil {
				return err
			}
			mu.Lock()
			for _, n := range batch {
				written = append(written, PointID(n.ID))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return p.rollback(ctx, written), err
	}
	return len(written), nil
}

// rollback deletes the given points and returns how many remain in the store.
func (p *Pipeline) rollback(ctx context.Context, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	logger := contextutil.LoggerFromContext(ctx)
	if err := p.store.Delete(context.WithoutCancel(ctx), p.cfg.Collection, ids); err != nil {
		logger.WarnContext(ctx, "failed to remove points of a partially indexed book", "points", len(ids), "error", err)
		return len(ids)
	}
	logger.InfoContext(ctx, "removed points of a partially indexed book", "points", len(ids))
	return 0
}

func (p *Pipeline) indexBatch(ctx context.Context, batch []Node) error {
	texts := make([]string, len(batch))
	for i, n := range batch {
		texts[i] = n.Text
	}

	vecs, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vecs) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vecs))
	}

	points := make([]vectorstore.Point, len(batch))
	for i, n := range batch {
		points[i] = vectorstore.Point{
			ID:   PointID(n.ID),
			Vec:  vecs[i],
			Meta: payload(n),
		}
	}
	if err := p.store.Upsert(ctx, p.cfg.Collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// PointID derives a stable Qdrant point id from a node id.
func PointID(nodeID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(nodeID)).String()
}

func payload(n Node) map[string]any {
	authors := make([]any, len(n.Metadata.Authors))
	for i, a := range n.Metadata.Authors {
		authors[i] = a
	}

	meta := map[string]any{
		rag.FieldText:      n.Text,
		rag.FieldSKU:       n.Metadata.SKU,
		rag.FieldBookTitle: n.Metadata.BookTitle,
		rag.FieldAuthors:   authors,
		rag.FieldPage:      n.Metadata.PageNumber,
		rag.FieldChunkType: n.Metadata.ChunkType,
	}
	if n.Metadata.Chapter != "" {
		meta[rag.FieldChapter] = n.Metadata.Chapter
	}
	if n.Metadata.Section != "" {
		meta[rag.FieldSection] = n.Metadata.Section
	}
	if n.Metadata.ReproducibleID != "" {
		meta[rag.FieldReproducibleID] = n.Metadata.ReproducibleID
	}
	return meta
}

func bookRecord(sku string, nodes []Node, indexedAt time.Time) storage.Book {
	book := storage.Book{SKU: sku, ChunkCount: len(nodes), IndexedAt: indexedAt}
	for _, n := range nodes {
		if book.Title == "" {
			book.Title = n.Metadata.BookTitle
		}
		if len(book.Authors) == 0 {
			book.Authors = n.Metadata.Authors
		}
	}
	return book
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingSKU):
		return SkipMissingSKU
	case errors.Is(err, ErrInvalidPage):
		return SkipInvalidPage
	case errors.Is(err, ErrUnknownChunkType):
		return SkipUnknownType
	default:
		return SkipEmptyText
	}
}
