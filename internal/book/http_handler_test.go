package book

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bookshelf/internal/httpx"
	"bookshelf/internal/testutil"
)

func newTestServer(t *testing.T, repo Repository) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	NewHTTPHandler(NewService(repo), zaptest.NewLogger(t)).RegisterRoutes(mux)
	return mux
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	if body == "" {
		return testutil.Do(h, testutil.NewRequest(method, target, nil))
	}
	return testutil.Do(h, testutil.NewRequest(method, target, body))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()

	var resp httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), Filter{}).Return([]Book{testBook}, nil)

		w := serve(h, http.MethodGet, "/api/books", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var books []Book
		require.NoError(t, json.NewDecoder(w.Body).Decode(&books))
		assert.Equal(t, []Book{testBook}, books)
	})

	t.Run("filters", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), Filter{Author: "Jane", Genre: "sci", Year: ptr(1999)}).Return(nil, nil)

		w := serve(h, http.MethodGet, "/api/books?author=Jane&genre=sci&year=1999", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("bad year is ignored", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), Filter{}).Return(nil, nil)

		w := serve(h, http.MethodGet, "/api/books?year=nineteen", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, storageError("list books", errBroken))

		w := serve(h, http.MethodGet, "/api/books", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, httpx.CodeInternal, resp.Code)
		assert.NotContains(t, resp.Error, errBroken.Error())
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)

		w := serve(h, http.MethodGet, "/api/books/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9999)).Return(Book{}, ErrNotFound)

		w := serve(h, http.MethodGet, "/api/books/9999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Book not found", resp.Error)
		assert.Equal(t, httpx.CodeNotFound, resp.Code)
	})

	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		t.Run("invalid id "+id, func(t *testing.T) {
			w := serve(h, http.MethodGet, "/api/books/"+id, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("success", func(t *testing.T) {
		in := CreateInput{Title: testBook.Title, Author: testBook.Author}
		mockRepo.EXPECT().Create(gomock.Any(), in).Return(int64(1), nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)

		w := serve(h, http.MethodPost, "/api/books", `{"title":"Test Book Title","author":"Test Author"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing author", func(t *testing.T) {
		w := serve(h, http.MethodPost, "/api/books", `{"title":"Only title"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Title and author are required", resp.Error)
		assert.Equal(t, httpx.CodeValidation, resp.Code)
		assert.Equal(t, []httpx.ErrorDetail{{Field: "author", Message: "author is required"}}, resp.Details)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(h, http.MethodPost, "/api/books", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("success", func(t *testing.T) {
		updated := testBook
		updated.Genre = nil
		gomock.InOrder(
			mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil),
			mockRepo.EXPECT().Update(gomock.Any(), int64(1), UpdateInput{Genre: Null[string]()}).Return(nil),
			mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(updated, nil),
		)

		w := serve(h, http.MethodPut, "/api/books/1", `{"genre":null}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)

		w := serve(h, http.MethodPut, "/api/books/1", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No fields to update", decodeError(t, w).Error)
	})

	t.Run("not found wins over empty body", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9999)).Return(Book{}, ErrNotFound)

		w := serve(h, http.MethodPut, "/api/books/9999", `{}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(h, http.MethodPut, "/api/books/1", `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		w := serve(h, http.MethodDelete, "/api/books/1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Book{}, ErrNotFound)

		w := serve(h, http.MethodDelete, "/api/books/1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_SQLite(t *testing.T) {
	h := newTestServer(t, newTestRepo(t))

	w := serve(h, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","published_year":1965}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created Book
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Positive(t, created.ID)
	assert.Equal(t, ptr(1965), created.PublishedYear)
	assert.Nil(t, created.Genre)
	assert.False(t, created.CreatedAt.IsZero())

	w = serve(h, http.MethodGet, "/api/books/"+itoa(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"genre":null`)

	w = serve(h, http.MethodPut, "/api/books/"+itoa(created.ID), `{"genre":"Science Fiction","published_year":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated Book
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, ptr("Science Fiction"), updated.Genre)
	assert.Nil(t, updated.PublishedYear)
	assert.Equal(t, "Dune", updated.Title)

	w = serve(h, http.MethodGet, "/api/books?genre=fiction", "")
	require.Equal(t, http.StatusOK, w.Code)
	var books []Book
	require.NoError(t, json.NewDecoder(w.Body).Decode(&books))
	require.Len(t, books, 1)

	w = serve(h, http.MethodDelete, "/api/books/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h, http.MethodDelete, "/api/books/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_MissingBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	h := newTestServer(t, mockRepo)

	t.Run("update unknown id", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9999)).Return(Book{}, ErrNotFound)

		w := serve(h, http.MethodPut, "/api/books/9999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, httpx.CodeNotFound, decodeError(t, w).Code)
	})

	t.Run("update existing id", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)

		w := serve(h, http.MethodPut, "/api/books/1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No fields to update", decodeError(t, w).Error)
	})

	t.Run("create", func(t *testing.T) {
		w := serve(h, http.MethodPost, "/api/books", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and author are required", decodeError(t, w).Error)
	})
}

func TestHTTPHandler_TrailingData(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestServer(t, NewMockRepository(ctrl))

	w := serve(h, http.MethodPost, "/api/books", `{"title":"a","author":"b"} xyz`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", decodeError(t, w).Error)

	w = serve(h, http.MethodPut, "/api/books/1", `{"genre":"x"}{"genre":"y"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", decodeError(t, w).Error)
}
