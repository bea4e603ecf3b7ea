package supabase

import (
	"context"
	"net/http"
	"net/url"

	"pet-diary/internal/ports/profiles"
)

type profileRow struct {
	ID        string  `json:"id"`
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatarUrl"`
}

type ProfilesRepo struct{ c *Client }

func NewProfilesRepo(c *Client) *ProfilesRepo { return &ProfilesRepo{c: c} }

func (r *ProfilesRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	var out []profileRow
	q := url.Values{"select": {"*"}, "id": {eq(userID)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodGet, "profiles", q, nil, &out)); err != nil {
		return profiles.Profile{}, err
	}
	if len(out) == 0 {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return profiles.Profile{
		ID:        out[0].ID,
		Nickname:  deref(out[0].Nickname),
		AvatarURL: deref(out[0].AvatarURL),
	}, nil
}
