// Package search provides the local quick-filter used to narrow already
// loaded lists as the user types, without a server round-trip. Server-side
// search mode is separate and lives in the list stores.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"
)

// Match is one filter hit, referencing the indexed row.
type Match struct {
	Index          int
	Score          int
	MatchedIndexes []int
}

// Index is a fuzzy-matchable list of display strings. It implements
// sahilm/fuzzy.Source for allocation-free matching.
type Index struct {
	titles      []string
	lowerTitles []string
}

// NewIndex builds an index over the given display strings.
func NewIndex(titles []string) *Index {
	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t)
	}
	return &Index{titles: titles, lowerTitles: lower}
}

// String returns the lowercase title at i (implements fuzzy.Source).
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of indexed rows (implements fuzzy.Source).
func (idx *Index) Len() int { return len(idx.titles) }

// Match returns rows matching query, best first. Subsequence matching runs
// first; when it finds nothing, a looser normalized-rank pass catches typos
// the stricter matcher rejects.
func (idx *Index) Match(query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	results := sahilm.FindFrom(query, idx)
	if len(results) > 0 {
		matches := make([]Match, len(results))
		for i, r := range results {
			matches[i] = Match{
				Index:          r.Index,
				Score:          r.Score,
				MatchedIndexes: r.MatchedIndexes,
			}
		}
		return matches
	}

	ranks := fuzzy.RankFindNormalizedFold(query, idx.lowerTitles)
	sort.Sort(ranks)
	matches := make([]Match, 0, len(ranks))
	for _, r := range ranks {
		matches = append(matches, Match{Index: r.OriginalIndex, Score: -r.Distance})
	}
	return matches
}
