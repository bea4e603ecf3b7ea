package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-diary/internal/domain/diaries"
)

type diaryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]diaries.Entry
	nextID int64
}

func NewDiaryRepo() diaries.Repository {
	return &diaryRepo{
		byID: make(map[int64]diaries.Entry),
	}
}

func (r *diaryRepo) Create(ctx context.Context, e diaries.Entry) (diaries.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.AuthorID) == "" {
		return diaries.Entry{}, errors.New("diary author required")
	}
	r.nextID++
	e.ID = r.nextID
	r.byID[e.ID] = e
	return e, nil
}

func (r *diaryRepo) GetByID(ctx context.Context, id int64) (diaries.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	return e, nil
}

func (r *diaryRepo) ListByAuthor(ctx context.Context, authorID string, filter diaries.ListFilter) ([]diaries.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]diaries.Entry, 0)
	for _, e := range r.byID {
		if e.AuthorID == authorID && filter.Matches(e) {
			out = append(out, e)
		}
	}

	// más nuevas primero; a igual fecha, id desc
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *diaryRepo) Update(ctx context.Context, id int64, patch diaries.Patch) (diaries.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	patch.ApplyTo(&e)
	r.byID[id] = e
	return e, nil
}
