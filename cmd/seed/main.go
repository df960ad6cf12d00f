package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/database"
	"bookshelf/internal/platform/logging"
)

type cli struct {
	DB  config.Database `embed:"" prefix:"db-"`
	Log config.Log      `embed:"" prefix:"log-"`

	Count int    `default:"100" help:"Number of books to create." short:"n"`
	Seed  uint64 `default:"1"   help:"Random seed; the same seed produces the same books."`
}

var (
	genres  = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	authors = []string{"Jane Austen", "Mark Twain", "Ursula K. Le Guin", "Toni Morrison", "Haruki Murakami", "Chinua Achebe", "Italo Calvino", "Octavia Butler"}
	words   = []string{"Adventure", "Journey", "Mystery", "Discovery", "Legacy", "Chronicle", "Tale", "Saga", "Quest", "Epic"}
)

func main() {
	config.LoadEnvFiles()

	var c cli
	if _, err := config.Parse(&c, "seed", "Fill the books table with sample data.", os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(c.Log.Level, c.Log.Format)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Driver: database.Driver(c.DB.Driver),
		DSN:    c.DB.DSN,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	service := book.NewService(book.NewSQLRepository(db, 5*time.Second))

	logger.Info("Generating books", zap.Int("count", c.Count))
	if err := seed(ctx, service, c.Count, c.Seed, logger); err != nil {
		logger.Fatal("Failed to insert books", zap.Error(err))
	}

	books, err := service.List(ctx, book.Filter{})
	if err != nil {
		logger.Fatal("Failed to count books", zap.Error(err))
	}
	logger.Info("Seeding complete", zap.Int("total", len(books)))
}

// seed creates count books through the service, so every row passes the
// same validation as API input.
func seed(ctx context.Context, service *book.Service, count int, seed uint64, logger *zap.Logger) error {
	rng := rand.New(rand.NewPCG(seed, seed))

	for i := 0; i < count; i++ {
		in := book.CreateInput{
			Title:  fmt.Sprintf("Book Title %d - %s", i+1, words[rng.IntN(len(words))]),
			Author: authors[rng.IntN(len(authors))],
		}

		// leave some optional columns empty
		if rng.IntN(4) != 0 {
			year := 1950 + rng.IntN(75)
			in.PublishedYear = &year
		}
		if rng.IntN(4) != 0 {
			genre := genres[rng.IntN(len(genres))]
			in.Genre = &genre
		}

		if _, err := service.Create(ctx, in); err != nil {
			return fmt.Errorf("book %d: %w", i+1, err)
		}

		if (i+1)%1000 == 0 {
			logger.Info("Progress", zap.Int("created", i+1), zap.Int("count", count))
		}
	}

	return nil
}
