package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/config"
	"bookshelf/internal/platform/database"
	"bookshelf/internal/platform/logging"
)

func main() {
	c, cmd, err := parseCLI(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(c.Log.Level, c.Log.Format)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, c.DB, logger, os.Stdout); err != nil {
		logger.Fatal("Migration command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func run(ctx context.Context, cmd string, cfg config.Database, logger *zap.Logger, out io.Writer) error {
	db, err := database.Open(ctx, database.Config{
		Driver:         database.Driver(cfg.Driver),
		DSN:            cfg.DSN,
		SkipMigrations: true,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := db.Migrator()
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		if err := m.Up(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Migrations applied successfully")

	case "down":
		if err := m.Down(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Migrations rolled back successfully")

	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, s := range statuses {
			state, appliedAt := "pending", "-"
			if s.Applied {
				state, appliedAt = "applied", s.AppliedAt.UTC().Format(time.RFC3339)
			}
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Source)
		}
		return tw.Flush()

	case "version":
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, v)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}
