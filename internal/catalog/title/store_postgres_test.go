// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/pkg/pointer"
)

/*
TestBuildListQuery_OrdersByYear verifies that catalogue pages come back in
release-year order with the row ID as a stable tie-breaker, regardless of
which filters are active.
*/
func TestBuildListQuery_OrdersByYear(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
	}{
		{name: "unfiltered", filter: Filter{}},
		{name: "by category", filter: Filter{CategorySlug: "films"}},
		{name: "all filters", filter: Filter{
			CategorySlug: "films",
			GenreSlug:    "drama",
			Name:         "ring",
			Year:         pointer.To(1994),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := buildListQuery(tt.filter, 20, 0)

			assert.Contains(t, query, "ORDER BY t.year, t.id")
			assert.NotContains(t, query, "ORDER BY t.name")
		})
	}
}

/*
TestBuildListQuery_Placeholders verifies that each active filter consumes one
numbered placeholder and contributes one argument, with the page window always
bound last.
*/
func TestBuildListQuery_Placeholders(t *testing.T) {
	query, args := buildListQuery(Filter{
		CategorySlug: "films",
		GenreSlug:    "drama",
		Name:         "ring",
		Year:         pointer.To(1994),
	}, 10, 30)

	require.Len(t, args, 6)
	assert.Equal(t, []any{"films", "drama", "ring", 1994, 10, 30}, args)
	assert.True(t, strings.Contains(query, "LIMIT $5 OFFSET $6"))
}

/*
TestBuildListQuery_NoFilters verifies that an unfiltered listing binds only
the page window.
*/
func TestBuildListQuery_NoFilters(t *testing.T) {
	query, args := buildListQuery(Filter{}, 20, 0)

	require.Len(t, args, 2)
	assert.Equal(t, []any{20, 0}, args)
	assert.True(t, strings.Contains(query, "LIMIT $1 OFFSET $2"))
}
