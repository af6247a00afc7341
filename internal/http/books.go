package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
	"github.com/openshelf/openshelf/pkg/slogx"
)

// BooksHandler handles the book catalog CRUD.
type BooksHandler struct {
	CatalogService *service.CatalogService
}

// BookRequest is the create/update body for a book.
type BookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	CoverURL    string `json:"coverUrl"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

func (req BookRequest) toDomain() domain.Book {
	return domain.Book{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		Available:   req.Available,
	}
}

// HandleList handles GET /api/books
//
//	@Summary	List books
//	@Tags		Books
//	@Produce	json
//	@Success	200	{array}		domain.Book
//	@Failure	500	{object}	map[string]string
//	@Router		/api/books [get].
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.CatalogService.ListBooks(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list books", "err", err)
		httpx.InternalError(w, "failed to list books", err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

// HandleGet handles GET /api/books/{id}
//
//	@Summary	Get a book
//	@Tags		Books
//	@Produce	json
//	@Param		id	path		string	true	"Book id"
//	@Success	200	{object}	domain.Book
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/books/{id} [get].
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.CatalogService.GetBook(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "book not found")
	case err != nil:
		httpx.InternalError(w, "failed to load book", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, book)
	}
}

// HandleCreate handles POST /api/books
//
//	@Summary	Add a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		BookRequest	true	"Book details"
//	@Success	201		{object}	domain.Book
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/books [post].
func (h *BooksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	book, err := h.CatalogService.CreateBook(r.Context(), req.toDomain())
	switch {
	case errors.Is(err, service.ErrMissingTitle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slogx.FromContext(r.Context()).Error("failed to create book", "err", err)
		httpx.InternalError(w, "failed to create book", err)
	default:
		httpx.WriteJSON(w, http.StatusCreated, book)
	}
}

// HandleUpdate handles PUT /api/books/{id}
//
//	@Summary	Update a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"Book id"
//	@Param		request	body		BookRequest	true	"Book details"
//	@Success	200		{object}	domain.Book
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/api/books/{id} [put].
func (h *BooksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	book := req.toDomain()
	book.ID = r.PathValue("id")

	updated, err := h.CatalogService.UpdateBook(r.Context(), book)
	switch {
	case errors.Is(err, service.ErrMissingTitle):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "book not found")
	case err != nil:
		httpx.InternalError(w, "failed to update book", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, updated)
	}
}

// HandleDelete handles DELETE /api/books/{id}
//
//	@Summary	Delete a book
//	@Tags		Books
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Book id"
//	@Success	200	{object}	map[string]bool	"ok"
//	@Failure	401	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/books/{id} [delete].
func (h *BooksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.CatalogService.DeleteBook(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "book not found")
	case err != nil:
		httpx.InternalError(w, "failed to delete book", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
