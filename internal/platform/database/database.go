// Package database owns the relational store behind the books API.
//
// Open returns a ready handle with the schema migrated; callers inject it
// where needed and close it when done.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	zapadapter "github.com/jackc/pgx-zap"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register database/sql driver

	"bookshelf/internal/platform/database/sqlb"
)

// Driver names a supported storage engine.
type Driver string

const (
	// SQLite is the embedded, file-backed engine.
	SQLite Driver = "sqlite"

	// Postgres is PostgreSQL accessed through pgx.
	Postgres Driver = "postgres"
)

// ErrUnsupportedDriver is returned by Open for an unknown Driver.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// sqlitePragmas are applied to every SQLite connection.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"foreign_keys(1)",
}

// Config configures Open.
type Config struct {
	Driver Driver

	// DSN is a file path (or "file:" URI, or ":memory:") for SQLite
	// and a connection URL for Postgres.
	DSN string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// SkipMigrations leaves the schema untouched, for the migrate tool.
	SkipMigrations bool

	Logger *zap.Logger
}

// DB is an open store.
type DB struct {
	*sql.DB

	driver Driver
	pool   *pgxpool.Pool
	l      *zap.Logger
}

// Open connects to the store described by cfg, verifies the connection and,
// unless cfg.SkipMigrations is set, applies pending schema migrations.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	l := cfg.Logger

	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case SQLite:
		db, err = openSQLite(cfg)
	case Postgres:
		db, err = openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.l = l.Named("database")

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot ping database: %w", err)
	}

	if !cfg.SkipMigrations {
		m, err := db.Migrator()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err = m.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	db.l.Debug("Database ready", zap.String("driver", string(db.driver)))

	return db, nil
}

func openSQLite(cfg Config) (*DB, error) {
	dsn, memory, err := sqliteDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}

	// every connection to ":memory:" is a separate database
	if memory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetConnMaxLifetime(0)
	}

	return &DB{DB: sqlDB, driver: SQLite}, nil
}

// sqliteDSN turns a path into a "file:" URI carrying the connection pragmas.
// It creates the parent directory of file-backed databases.
func sqliteDSN(dsn string) (string, bool, error) {
	if dsn == "" {
		return "", false, errors.New("sqlite: empty DSN")
	}

	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")

	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if dsn == ":memory:" {
		path = ":memory:"
	}

	if !memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", false, fmt.Errorf("cannot create database directory: %w", err)
			}
		}
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", false, fmt.Errorf("sqlite: invalid DSN query: %w", err)
	}
	if _, ok := values["_pragma"]; !ok {
		values["_pragma"] = sqlitePragmas
	}

	return "file:" + path + "?" + values.Encode(), memory, nil
}

func openPostgres(ctx context.Context, cfg Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("cannot parse postgres dsn: %w", err)
	}

	// pgx reports slow or failing statements through the process logger
	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zapadapter.NewLogger(cfg.Logger.Named("pgx")),
		LogLevel: tracelog.LogLevelWarn,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}

	return &DB{DB: stdlib.OpenDBFromPool(pool), driver: Postgres, pool: pool}, nil
}

// Driver returns the engine behind db.
func (db *DB) Driver() Driver {
	return db.driver
}

// Dialect returns the placeholder style of the engine behind db.
func (db *DB) Dialect() sqlb.Dialect {
	if db.driver == Postgres {
		return sqlb.Dollar
	}
	return sqlb.Question
}

// Close closes the handle and, for Postgres, the underlying pool.
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

// RedactDSN masks credentials in connection URLs for logging.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
