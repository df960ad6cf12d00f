package book

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	l       *zap.Logger
}

func NewHTTPHandler(service *Service, l *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, l: l}
}

// RegisterRoutes mounts the book endpoints on mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("GET /api/books/{id}", h.Get)
	mux.HandleFunc("POST /api/books", h.Create)
	mux.HandleFunc("PUT /api/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
}

// List handles GET /api/books
// @Summary List books
// @Description List all books, newest first, optionally filtered
// @Tags books
// @Produce json
// @Param author query string false "Author contains"
// @Param genre query string false "Genre contains"
// @Param year query int false "Exact published year"
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f := Filter{
		Author: query.Get("author"),
		Genre:  query.Get("genre"),
	}

	// an unparsable year is ignored rather than rejected
	if yearStr := query.Get("year"); yearStr != "" {
		if val, err := strconv.Atoi(yearStr); err == nil {
			f.Year = &val
		}
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, books)
}

// Get handles GET /api/books/{id}
// @Summary Get a book
// @Description Retrieve a single book by its ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, ErrNotFound)
		return
	}

	book, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, book)
}

// Create handles POST /api/books
// @Summary Create a book
// @Description Create a book; title and author are required
// @Tags books
// @Accept json
// @Produce json
// @Param request body CreateInput true "New book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := decodeBody(r, &in); err != nil {
		h.writeBadBody(w, r, err)
		return
	}

	book, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, book)
}

// Update handles PUT /api/books/{id}
// @Summary Update a book
// @Description Update the given fields of a book; null clears published_year or genre
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, ErrNotFound)
		return
	}

	var in UpdateInput
	if err := decodeBody(r, &in); err != nil {
		h.writeBadBody(w, r, err)
		return
	}

	book, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, book)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, ErrNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// pathID reports false for ids that cannot name a stored book.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body into v. A missing body decodes as an empty
// object, so the service decides what is required.
func decodeBody(r *http.Request, v any) error {
	if err := httpx.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *HTTPHandler) writeBadBody(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, httpx.CodePayloadTooLarge, "Request body too large", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid JSON body", nil)
}

// writeError is the single place mapping service errors to responses.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		var details []httpx.ErrorDetail
		for _, d := range vErr.Details {
			details = append(details, httpx.ErrorDetail{Field: d.Field, Message: d.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, vErr.Message, details)

	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)

	default:
		h.l.Error("Request failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
	}
}
