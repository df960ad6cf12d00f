package book

import (
	"time"
)

// Book represents a book entity.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear *int      `json:"published_year"`
	Genre         *string   `json:"genre"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateInput is the payload of Create.
type CreateInput struct {
	Title         string  `json:"title"                    validate:"required"`
	Author        string  `json:"author"                   validate:"required"`
	PublishedYear *int    `json:"published_year,omitempty"`
	Genre         *string `json:"genre,omitempty"`
}

// UpdateInput is the payload of Update. Only fields that are set change;
// a set-to-null year or genre clears the column.
type UpdateInput struct {
	Title         Field[string] `json:"title"          swaggertype:"string"`
	Author        Field[string] `json:"author"         swaggertype:"string"`
	PublishedYear Field[int]    `json:"published_year" swaggertype:"integer"`
	Genre         Field[string] `json:"genre"          swaggertype:"string"`
}

// IsEmpty reports whether in changes nothing.
func (in UpdateInput) IsEmpty() bool {
	return !in.Title.Set && !in.Author.Set && !in.PublishedYear.Set && !in.Genre.Set
}

// Filter constrains List; zero fields are ignored and the rest are combined
// with AND.
type Filter struct {
	// Author matches books whose author contains it.
	Author string

	// Genre matches books whose genre contains it.
	Genre string

	// Year matches published_year exactly.
	Year *int
}
