package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations of the current driver.
type Migrator struct {
	p *goose.Provider
	l *zap.Logger
}

// MigrationStatus describes one known migration.
type MigrationStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator returns a Migrator bound to db.
func (db *DB) Migrator() (*Migrator, error) {
	var dialect goose.Dialect
	switch db.driver {
	case SQLite:
		dialect = goose.DialectSQLite3
	case Postgres:
		dialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, db.driver)
	}

	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", string(db.driver)))
	if err != nil {
		return nil, fmt.Errorf("cannot load migrations: %w", err)
	}

	p, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("cannot create migration provider: %w", err)
	}

	l := db.l
	if l == nil {
		l = zap.NewNop()
	}

	return &Migrator{p: p, l: l.Named("migrate")}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	res, err := m.p.Up(ctx)
	for _, r := range res {
		m.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("cannot apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	r, err := m.p.Down(ctx)
	if r != nil {
		m.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("cannot roll back migration: %w", err)
	}
	return nil
}

// Status lists all known migrations and whether they are applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot read migration status: %w", err)
	}

	res := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		res = append(res, MigrationStatus{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return res, nil
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot read schema version: %w", err)
	}
	return v, nil
}

func (m *Migrator) logResult(r *goose.MigrationResult) {
	fields := []zap.Field{
		zap.Int64("version", r.Source.Version),
		zap.String("source", r.Source.Path),
		zap.String("direction", r.Direction),
		zap.Duration("duration", r.Duration),
	}

	if r.Error != nil {
		m.l.Error("Migration failed", append(fields, zap.Error(r.Error))...)
		return
	}
	m.l.Info("Migration applied", fields...)
}
