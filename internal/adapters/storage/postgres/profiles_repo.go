package postgres

import (
	"context"

	"pet-diary/internal/ports/profiles"
)

type ProfilesRepo struct{ db *DB }

func NewProfilesRepo(db *DB) *ProfilesRepo { return &ProfilesRepo{db: db} }

func (r *ProfilesRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	const q = `
SELECT id, COALESCE(nickname, ''), COALESCE("avatarUrl", '')
FROM profiles WHERE id = $1`
	var p profiles.Profile
	if err := r.db.Pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Nickname, &p.AvatarURL); err != nil {
		if isNoRows(err) {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, err
	}
	return p, nil
}
