package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSubsequence(t *testing.T) {
	idx := NewIndex([]string{
		"101 Deluxe Available",
		"102 Standard Occupied",
		"201 Suite Cleaning",
	})

	matches := idx.Match("deluxe")
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Index)
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	idx := NewIndex([]string{"BK-1 Ada Lovelace", "BK-2 Grace Hopper"})

	matches := idx.Match("GRACE")
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Index)
}

func TestMatchEmptyQuery(t *testing.T) {
	idx := NewIndex([]string{"101", "102"})
	assert.Nil(t, idx.Match(""))
	assert.Nil(t, idx.Match("   "))
}

func TestMatchFallbackNormalizesAccents(t *testing.T) {
	idx := NewIndex([]string{"café suite", "standard room"})

	// The strict matcher misses across accented runes; the normalized
	// fallback pass does not.
	matches := idx.Match("cafe")
	require.NotEmpty(t, matches)
	assert.Equal(t, 0, matches[0].Index)
}

func TestMatchNoHit(t *testing.T) {
	idx := NewIndex([]string{"101 Deluxe", "102 Standard"})
	assert.Empty(t, idx.Match("zzzz"))
}

func TestMatchBestFirst(t *testing.T) {
	idx := NewIndex([]string{
		"205 Standard",
		"105 Deluxe",
		"105",
	})

	matches := idx.Match("105")
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}
