package book

import (
	"context"

	"bookshelf/internal/platform/validation"
)

// Service provides book-related business logic.
//
// It holds no state between calls: every operation reads the store again.
// Update and Delete check existence and then mutate in separate statements,
// without a transaction.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all books matching f, most recently created first.
func (s *Service) List(ctx context.Context, f Filter) ([]Book, error) {
	books, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates in, stores a new book and returns it as stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	if details := validation.Struct(in); len(details) > 0 {
		return Book{}, &ValidationError{Message: "Title and author are required", Details: details}
	}

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return Book{}, err
	}

	return s.repo.GetByID(ctx, id)
}

// Update changes the fields set in in and returns the book as stored.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Book{}, err
	}

	if in.IsEmpty() {
		return Book{}, &ValidationError{Message: "No fields to update"}
	}

	var details []validation.FieldError
	for _, f := range []struct {
		name  string
		field Field[string]
	}{
		{"title", in.Title},
		{"author", in.Author},
	} {
		if !f.field.Set {
			continue
		}
		// a null title or author fails here too
		if fe := validation.Var(f.name, f.field.Value, "required"); fe != nil {
			details = append(details, *fe)
		}
	}
	if len(details) > 0 {
		return Book{}, &ValidationError{Message: "Title and author cannot be empty", Details: details}
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		return Book{}, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a book permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

