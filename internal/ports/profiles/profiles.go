package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

// Profile es la fila de "profiles" que se cachea en la sesión.
type Profile struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, error)
}
