package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattermost-community/mattermost-api-go/internal/resolve"
)

// resolveSearchLimit bounds the candidates fetched for Resolve.
const resolveSearchLimit = 100

// Resolve finds exactly one user matching query by username, nickname, full
// name or email. A leading "@" is ignored. Exact matches win; otherwise the
// best fuzzy match is returned, and an ambiguous tie yields *AmbiguousError.
// A blank query yields ErrEmptyQuery.
func (s UsersService) Resolve(ctx context.Context, query string) (*User, error) {
	return resolveUser(ctx, s, query)
}

func resolveUser(ctx context.Context, r Requester, query string) (*User, error) {
	term := strings.TrimPrefix(strings.TrimSpace(query), "@")
	if term == "" {
		return nil, ErrEmptyQuery
	}

	users, err := searchUsers(ctx, r, term, SearchUsersOptions{Limit: Int(resolveSearchLimit)})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user matches %q", term)
	}

	candidates := make([]resolve.Named, 0, len(users))
	byID := make(map[string]*User, len(users))
	for i := range users {
		u := &users[i]
		byID[u.ID] = u
		candidates = append(candidates, resolve.Named{
			ID:      u.ID,
			Name:    u.Username,
			Aliases: []string{u.Nickname, u.FullName(), u.Email},
		})
	}

	id, err := resolve.FuzzyMatch(term, candidates)
	if err != nil {
		return nil, err
	}
	return byID[id], nil
}
