package category

import "context"

// Category is a broad classification a title belongs to (e.g. "Films", "Books").
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Repository interface {
	// List returns a page of categories ordered by name, with the total count.
	// An empty search disables the name filter.
	List(context context.Context, search string, limit, offset int) ([]*Category, int64, error)
	// GetBySlug returns the category or dberr.ErrNotFound.
	GetBySlug(context context.Context, slug string) (*Category, error)
	Create(context context.Context, category *Category) error
	// DeleteBySlug returns apperr.ErrNotFound when no row matched.
	DeleteBySlug(context context.Context, slug string) error
}
