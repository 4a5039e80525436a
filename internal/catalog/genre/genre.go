package genre

import "context"

// Genre is a fine-grained label a title can carry (e.g. "Drama", "Rock").
// A title may have several genres at once.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Repository interface {
	// List returns a page of genres ordered by name, with the total count.
	// An empty search disables the name filter.
	List(context context.Context, search string, limit, offset int) ([]*Genre, int64, error)
	// GetBySlug returns the genre or dberr.ErrNotFound.
	GetBySlug(context context.Context, slug string) (*Genre, error)
	Create(context context.Context, genre *Genre) error
	// DeleteBySlug returns apperr.ErrNotFound when no row matched.
	DeleteBySlug(context context.Context, slug string) error
}
