// Package resolve provides fuzzy name-to-ID matching for Mattermost resources.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named represents any resource with an ID, a primary name and optional
// alternative names (nickname, full name, display name).
type Named struct {
	ID      string
	Name    string
	Aliases []string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    string
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
// Matches are sorted best-first and capped.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

// candidate is one searchable string belonging to items[item].
type candidate struct {
	item int
	text string
}

type candidateSource []candidate

func (s candidateSource) String(i int) string { return s[i].text }
func (s candidateSource) Len() int            { return len(s) }

func expand(items []Named) candidateSource {
	src := make(candidateSource, 0, len(items))
	for i, item := range items {
		if item.Name != "" {
			src = append(src, candidate{item: i, text: strings.ToLower(item.Name)})
		}
		for _, alias := range item.Aliases {
			if strings.TrimSpace(alias) == "" {
				continue
			}
			src = append(src, candidate{item: i, text: strings.ToLower(alias)})
		}
	}
	return src
}

// FuzzyMatch finds the best matching item and returns its ID.
//
// Exact case-insensitive matches on the name or any alias win. Otherwise the
// best fuzzy result is returned, unless the two best distinct items tie on
// score, which yields *AmbiguousError.
func FuzzyMatch(query string, items []Named) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	for _, item := range items {
		if strings.EqualFold(item.Name, query) {
			return item.ID, nil
		}
	}
	for _, item := range items {
		for _, alias := range item.Aliases {
			if strings.EqualFold(alias, query) {
				return item.ID, nil
			}
		}
	}

	src := expand(items)
	matches := buildMatches(items, src, fuzzy.FindFrom(strings.ToLower(query), src), 5)
	if len(matches) == 0 {
		return "", fmt.Errorf("no match found for %q", query)
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		return "", &AmbiguousError{Query: query, Matches: matches}
	}
	return matches[0].ID, nil
}

// buildMatches keeps the best-scoring result per item. fuzzy results are
// already sorted best-first.
func buildMatches(items []Named, src candidateSource, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(results))
	var matches []Match
	for _, r := range results {
		idx := src[r.Index].item
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		matches = append(matches, Match{
			ID:    items[idx].ID,
			Name:  items[idx].Name,
			Score: r.Score,
		})
		if len(matches) == limit {
			break
		}
	}
	return matches
}
