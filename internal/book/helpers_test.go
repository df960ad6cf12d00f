package book

import (
	"strconv"
	"testing"
	"time"

	"bookshelf/internal/platform/database"
	"bookshelf/internal/testutil"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	return testutil.OpenSQLite(t)
}

func newTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	return NewSQLRepository(newTestDB(t), 5*time.Second)
}

func ptr[T any](v T) *T {
	return &v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
