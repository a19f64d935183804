package catalog

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Match is a search hit together with the category it was found in.
type Match struct {
	Category string
	Title    Title
}

// Search returns titles whose name contains query, ignoring case.
// Each title is reported once, under the first category that lists it.
func (c *Catalog) Search(query string) []Match {
	query = sanitize(query)
	if query == "" {
		return nil
	}

	var matches []Match
	for _, category := range c.Categories {
		for _, title := range category.Titles {
			if strings.Contains(strings.ToLower(title.Title), query) {
				matches = append(matches, Match{Category: category.Name, Title: title})
			}
		}
	}

	return lo.UniqBy(matches, func(m Match) string {
		return m.Title.ID
	})
}

// Suggest returns up to limit title names that fuzzily match query, closest first.
func (c *Catalog) Suggest(query string, limit int) []string {
	query = sanitize(query)
	if query == "" || limit <= 0 {
		return nil
	}

	names := lo.Uniq(lo.Map(c.Titles(), func(t Title, _ int) string {
		return t.Title
	}))

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})

	suggestions := lo.Map(ranks, func(r fuzzy.Rank, _ int) string {
		return r.Target
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
