package view

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"weblarek/internal/model"

	"github.com/agnivade/levenshtein"
)

type hit struct {
	index int
	score int
}

// search returns the indexes of catalogue items matching query, best
// matches first. Ties keep catalogue order.
func search(items []model.Product, query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []hit
	for i, item := range items {
		if score, ok := matchScore(q, item); ok {
			hits = append(hits, hit{index: i, score: score})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		return cmp.Compare(a.score, b.score)
	})

	indexes := make([]int, 0, len(hits))
	for _, h := range hits {
		indexes = append(indexes, h.index)
	}
	return indexes
}

// matchScore ranks a substring hit in the title first, then a category hit,
// then a title word within the typo budget of the query.
func matchScore(query string, item model.Product) (int, bool) {
	title := strings.ToLower(item.Title)
	if strings.Contains(title, query) {
		return 0, true
	}
	if strings.Contains(strings.ToLower(item.Category), query) {
		return 1, true
	}

	budget := typoBudget(query)
	if budget == 0 {
		return 0, false
	}
	best := -1
	for _, word := range strings.Fields(title) {
		d := levenshtein.ComputeDistance(query, word)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 || best > budget {
		return 0, false
	}
	return 1 + best, true
}

func typoBudget(query string) int {
	switch n := utf8.RuneCountInString(query); {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}
