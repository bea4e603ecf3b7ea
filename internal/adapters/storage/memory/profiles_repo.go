package memory

import (
	"context"
	"sync"

	"pet-diary/internal/ports/profiles"
)

// ProfileRepo además permite sembrar perfiles (en el backend real los crea
// el flujo de registro, fuera de este servicio).
type ProfileRepo struct {
	mu   sync.RWMutex
	byID map[string]profiles.Profile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{byID: make(map[string]profiles.Profile)}
}

func (r *ProfileRepo) Put(p profiles.Profile) {
	r.mu.Lock()
	r.byID[p.ID] = p
	r.mu.Unlock()
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[userID]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, nil
}
