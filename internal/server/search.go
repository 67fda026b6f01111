package server

import (
	"github.com/sahilm/fuzzy"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

const defaultSearchLimit = 20

// SearchResult is one fuzzy match on a card name.
type SearchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// cardNames adapts a name list to fuzzy.Source.
type cardNames []types.CardName

func (n cardNames) String(i int) string { return n[i].Name }
func (n cardNames) Len() int            { return len(n) }

// searchNames returns up to limit matches for q, best first.
func searchNames(names []types.CardName, q string, limit int) []SearchResult {
	matches := fuzzy.FindFrom(q, cardNames(names))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			ID:    names[m.Index].ID,
			Name:  names[m.Index].Name,
			Score: m.Score,
		})
	}
	return out
}
