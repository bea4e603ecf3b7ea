package diaries

import (
	"context"
	"sort"
	"sync"

	"pet-diary/internal/ports/blob"
)

type fakeRepo struct {
	mu     sync.Mutex
	byID   map[int64]Entry
	nextID int64

	listCalls   int
	updateCalls []Patch
}

func newFakeRepo(seed ...Entry) *fakeRepo {
	r := &fakeRepo{byID: make(map[int64]Entry), nextID: 100}
	for _, e := range seed {
		r.byID[e.ID] = e
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.byID[e.ID] = e
	return e, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *fakeRepo) ListByAuthor(_ context.Context, authorID string, f ListFilter) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := []Entry{}
	for _, e := range r.byID {
		if e.AuthorID == authorID && f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls = append(r.updateCalls, patch)
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	patch.ApplyTo(&e)
	r.byID[id] = e
	return e, nil
}

type fakeBlobs struct {
	uploads []blob.Object
	err     error
}

func (b *fakeBlobs) Upload(_ context.Context, obj blob.Object) (string, error) {
	b.uploads = append(b.uploads, obj)
	if b.err != nil {
		return "", b.err
	}
	return obj.Bucket + "/" + obj.Name, nil
}
