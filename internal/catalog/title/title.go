// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title implements the catalogue of reviewable works.

A title is a single work (a film, a book, an album) positioned in exactly one
category and any number of genres. Its rating is not stored: it is the average
of all review scores, computed by the database at read time, and null while
the title has no reviews.
*/
package title

import (
	"context"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
)

// # Domain Entities

// Title represents a reviewable work in the catalogue.
type Title struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Description string `json:"description"`

	// Rating is the averaged review score, nil when the title has no reviews.
	Rating *float64 `json:"rating"`

	Category *category.Category `json:"category"`
	Genres   []genre.Genre      `json:"genre"`
}

// Filter narrows a catalogue listing. Zero values disable each criterion.
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

// # Repository Contract

// Repository defines the persistence operations for titles.
type Repository interface {
	// List returns a filtered page of titles with hydrated category, genres,
	// and rating, plus the total count for the filter.
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int64, error)

	// GetByID returns a fully hydrated title or dberr.ErrNotFound.
	GetByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title and its genre links in one transaction.
	// The Category and Genres fields must carry resolved IDs.
	Create(context context.Context, title *Title) error

	// Update rewrites the title row and replaces its genre links in one
	// transaction. The Category and Genres fields must carry resolved IDs.
	Update(context context.Context, title *Title) error

	// Delete removes the title; its reviews and genre links cascade.
	// Returns apperr.ErrNotFound when no row matched.
	Delete(context context.Context, id int64) error
}
