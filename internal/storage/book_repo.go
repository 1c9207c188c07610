package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_book_store.go -package=mocks plc-kb/internal/storage BookStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// BookStore defines the interface for book catalogue operations.
type BookStore interface {
	// Upsert inserts a book or replaces the existing row with the same SKU.
	Upsert(ctx context.Context, book Book) error
	// GetBySKU gets a book by SKU. Returns ErrNotFound if not found.
	GetBySKU(ctx context.Context, sku string) (*Book, error)
	// ListAll returns all books ordered by title.
	ListAll(ctx context.Context) ([]Book, error)
	// ListIndexedSKUs returns the set of SKUs already indexed.
	ListIndexedSKUs(ctx context.Context) (map[string]bool, error)
	// ListTitles returns all book titles ordered alphabetically.
	ListTitles(ctx context.Context) ([]string, error)
	// DeleteAll removes every book, used before a forced rebuild.
	DeleteAll(ctx context.Context) error
}

// BookRepo provides methods for book operations.
// It implements the BookStore interface.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo creates a new BookRepo.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

// Upsert inserts a book or replaces the existing row with the same SKU.
func (r *BookRepo) Upsert(ctx context.Context, book Book) error {
	authors := book.Authors
	if authors == nil {
		authors = []string{}
	}
	rawAuthors, err := json.Marshal(authors)
	if err != nil {
		return fmt.Errorf("failed to encode authors: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO books (sku, title, authors, chunk_count, indexed_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			chunk_count = excluded.chunk_count,
			indexed_at = excluded.indexed_at`,
		book.SKU, book.Title, string(rawAuthors), book.ChunkCount, formatTime(book.IndexedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert book: %w", err)
	}
	return nil
}

// GetBySKU gets a book by SKU. Returns ErrNotFound if not found.
func (r *BookRepo) GetBySKU(ctx context.Context, sku string) (*Book, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT sku, title, authors, chunk_count, indexed_at FROM books WHERE sku = ?",
		sku,
	)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return book, nil
}

// ListAll returns all books ordered by title.
func (r *BookRepo) ListAll(ctx context.Context) ([]Book, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT sku, title, authors, chunk_count, indexed_at FROM books ORDER BY title, sku",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	books := []Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

// ListIndexedSKUs returns the set of SKUs already indexed.
func (r *BookRepo) ListIndexedSKUs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT sku FROM books")
	if err != nil {
		return nil, fmt.Errorf("failed to query SKUs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	skus := make(map[string]bool)
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("failed to scan SKU: %w", err)
		}
		skus[sku] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return skus, nil
}

// ListTitles returns all book titles ordered alphabetically.
func (r *BookRepo) ListTitles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT title FROM books WHERE title != '' ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return titles, nil
}

// DeleteAll removes every book.
func (r *BookRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return fmt.Errorf("failed to delete books: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var (
		book       Book
		rawAuthors string
		indexedAt  string
	)
	if err := row.Scan(&book.SKU, &book.Title, &rawAuthors, &book.ChunkCount, &indexedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rawAuthors), &book.Authors); err != nil {
		return nil, fmt.Errorf("failed to decode authors: %w", err)
	}
	t, err := parseTime(indexedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse indexed_at: %w", err)
	}
	book.IndexedAt = t
	return &book, nil
}
