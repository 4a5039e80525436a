// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

// Limits bundles the field-size and range constraints applied by the domain
// services. It is constructed once at startup and passed into service
// constructors, so no validation rule depends on process-wide state.
type Limits struct {
	// Identity
	UsernameMaxLen    int
	EmailMaxLen       int
	NameMaxLen        int // first/last display names
	ReservedUsernames []string

	// Catalog
	TaxonomyNameMaxLen int // category and genre names
	SlugMaxLen         int
	TitleNameMaxLen    int

	// Reviews
	ScoreMin int
	ScoreMax int
}

// DefaultLimits returns the production constraint set.
func DefaultLimits() Limits {
	return Limits{
		UsernameMaxLen:     150,
		EmailMaxLen:        254,
		NameMaxLen:         150,
		ReservedUsernames:  []string{"me"},
		TaxonomyNameMaxLen: 256,
		SlugMaxLen:         50,
		TitleNameMaxLen:    100,
		ScoreMin:           1,
		ScoreMax:           10,
	}
}
