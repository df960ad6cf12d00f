package book

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"bookshelf/internal/platform/database"
	"bookshelf/internal/platform/database/sqlb"
)

const table = "books"

var columns = []string{"id", "title", "author", "published_year", "genre", "created_at", "updated_at"}

// SQLRepository stores books in the relational store.
type SQLRepository struct {
	db      *database.DB
	timeout time.Duration
}

// NewSQLRepository returns a repository over db. A positive timeout bounds
// every statement.
func NewSQLRepository(db *database.DB, timeout time.Duration) *SQLRepository {
	return &SQLRepository{db: db, timeout: timeout}
}

func (r *SQLRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (Book, error) {
	var (
		b     Book
		year  sql.NullInt64
		genre sql.NullString
	)

	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &year, &genre,
		database.Timestamp(&b.CreatedAt), database.Timestamp(&b.UpdatedAt),
	)
	if err != nil {
		return Book{}, err
	}

	if year.Valid {
		y := int(year.Int64)
		b.PublishedYear = &y
	}
	if genre.Valid {
		b.Genre = &genre.String
	}
	return b, nil
}

func (r *SQLRepository) List(ctx context.Context, f Filter) ([]Book, error) {
	q := sqlb.Builder(r.db.Dialect()).Select(columns...).From(table)

	if f.Author != "" {
		q = q.Where(`author LIKE ? ESCAPE '\'`, sqlb.Contains(f.Author))
	}
	if f.Genre != "" {
		q = q.Where(`genre LIKE ? ESCAPE '\'`, sqlb.Contains(f.Genre))
	}
	if f.Year != nil {
		q = q.Where(sq.Eq{"published_year": *f.Year})
	}

	// id breaks ties between rows created within the same clock tick
	query, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, storageError("list books", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("list books", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, storageError("list books", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list books", err)
	}
	return out, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (Book, error) {
	query, args, err := sqlb.Builder(r.db.Dialect()).
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Book{}, storageError("get book", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, storageError("get book", err)
	}
	return b, nil
}

func (r *SQLRepository) Create(ctx context.Context, in CreateInput) (int64, error) {
	query, args, err := sqlb.Builder(r.db.Dialect()).
		Insert(table).
		Columns("title", "author", "published_year", "genre").
		Values(in.Title, in.Author, nullable(in.PublishedYear), nullable(in.Genre)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, storageError("create book", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, storageError("create book", err)
	}
	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, in UpdateInput) error {
	if in.IsEmpty() {
		return &ValidationError{Message: "No fields to update"}
	}

	u := sqlb.Builder(r.db.Dialect()).Update(table)

	if in.Title.Set {
		u = u.Set("title", in.Title.Arg())
	}
	if in.Author.Set {
		u = u.Set("author", in.Author.Arg())
	}
	if in.PublishedYear.Set {
		u = u.Set("published_year", in.PublishedYear.Arg())
	}
	if in.Genre.Set {
		u = u.Set("genre", in.Genre.Arg())
	}

	query, args, err := u.
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storageError("update book", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("update book", err)
	}
	return checkAffected("update book", res)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sqlb.Builder(r.db.Dialect()).
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storageError("delete book", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("delete book", err)
	}
	return checkAffected("delete book", res)
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError(op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// check interfaces
var (
	_ Repository = (*SQLRepository)(nil)
)
