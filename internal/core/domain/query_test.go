package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQueryFiltersIsZero(t *testing.T) {
	assert.True(t, QueryFilters{}.IsZero())
	assert.False(t, QueryFilters{Category: "concert"}.IsZero())
	assert.False(t, QueryFilters{DateMin: date(2025, 2, 1)}.IsZero())
	assert.False(t, QueryFilters{Location: "Paris"}.IsZero())
}

func TestQueryFiltersValidate(t *testing.T) {
	valid := QueryFilters{
		DateMin: date(2025, 2, 1),
		DateMax: date(2025, 3, 1),
	}
	require.NoError(t, valid.Validate())

	inverted := QueryFilters{
		DateMin: date(2025, 3, 1),
		DateMax: date(2025, 2, 1),
	}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidQuery)

	// Open-ended bounds are fine.
	require.NoError(t, QueryFilters{DateMin: date(2025, 2, 1)}.Validate())
	require.NoError(t, QueryFilters{DateMax: date(2025, 2, 1)}.Validate())
}

func TestQueryFiltersMatch(t *testing.T) {
	meta := ChunkMetadata{
		Title:    "Jazz Night",
		Date:     date(2025, 2, 14),
		Location: "Le Duc des Lombards, Paris",
		Category: "concert",
	}

	tests := []struct {
		name    string
		filters QueryFilters
		want    bool
	}{
		{"empty filters match everything", QueryFilters{}, true},
		{"date inside bounds", QueryFilters{DateMin: date(2025, 2, 1), DateMax: date(2025, 2, 28)}, true},
		{"date on inclusive lower bound", QueryFilters{DateMin: date(2025, 2, 14)}, true},
		{"date on inclusive upper bound", QueryFilters{DateMax: date(2025, 2, 14)}, true},
		{"date before min", QueryFilters{DateMin: date(2025, 3, 1)}, false},
		{"date after max", QueryFilters{DateMax: date(2025, 2, 1)}, false},
		{"category equality is case-insensitive", QueryFilters{Category: "Concert"}, true},
		{"category mismatch", QueryFilters{Category: "exhibition"}, false},
		{"location substring", QueryFilters{Location: "paris"}, true},
		{"location mismatch", QueryFilters{Location: "Lyon"}, false},
		{"all filters combined", QueryFilters{
			DateMin:  date(2025, 2, 1),
			DateMax:  date(2025, 2, 28),
			Category: "concert",
			Location: "Paris",
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Match(meta))
		})
	}
}

func TestQueryFiltersMatchIsIdempotent(t *testing.T) {
	metas := []ChunkMetadata{
		{Date: date(2025, 2, 14), Location: "Paris", Category: "concert"},
		{Date: date(2025, 2, 14), Location: "Lyon", Category: "sport"},
		{Date: date(2025, 5, 1), Location: "Paris", Category: "exhibition"},
	}
	filters := QueryFilters{Location: "Paris", DateMax: date(2025, 3, 1)}

	var once []ChunkMetadata
	for _, m := range metas {
		if filters.Match(m) {
			once = append(once, m)
		}
	}
	var twice []ChunkMetadata
	for _, m := range once {
		if filters.Match(m) {
			twice = append(twice, m)
		}
	}
	assert.Equal(t, once, twice)
	assert.Len(t, once, 1)
}
