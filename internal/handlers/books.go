package handlers

import (
	"net/http"

	"plc-kb/internal/contextutil"
	"plc-kb/internal/storage"
)

// BooksHandler lists the indexed book catalogue.
type BooksHandler struct {
	books storage.BookStore
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(books storage.BookStore) *BooksHandler {
	return &BooksHandler{books: books}
}

// BooksResponse is the catalogue listing.
type BooksResponse struct {
	Books []storage.Book `json:"books"`
	Count int            `json:"count"`
}

func (h *BooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := h.books.ListAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list books", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list books")
		return
	}
	if books == nil {
		books = []storage.Book{}
	}

	writeJSON(ctx, w, http.StatusOK, BooksResponse{Books: books, Count: len(books)})
}
