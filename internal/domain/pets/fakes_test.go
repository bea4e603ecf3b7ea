package pets

import (
	"context"
	"sort"
	"sync"

	"pet-diary/internal/platform/notify"
	"pet-diary/internal/ports/blob"
)

type fakeRepo struct {
	mu     sync.Mutex
	byID   map[int64]Pet
	nextID int64

	listCalls   int
	updateCalls []Patch
	deleteCalls []int64
	updateErr   error
	deleteErr   error
}

func newFakeRepo(seed ...Pet) *fakeRepo {
	r := &fakeRepo{byID: make(map[int64]Pet), nextID: 100}
	for _, p := range seed {
		r.byID[p.ID] = p
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, p Pet) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID string) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := []Pet{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls = append(r.updateCalls, patch)
	if r.updateErr != nil {
		return Pet{}, r.updateErr
	}
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	patch.ApplyTo(&p)
	r.byID[id] = p
	return p, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls = append(r.deleteCalls, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	uploads []blob.Object
	err     error
}

func (b *fakeBlobs) Upload(_ context.Context, obj blob.Object) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, obj)
	if b.err != nil {
		return "", b.err
	}
	return obj.Bucket + "/" + obj.Name, nil
}

type recordedNotice struct {
	userID string
	level  notify.Level
	msg    string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (n *fakeNotifier) Notify(userID string, level notify.Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, recordedNotice{userID, level, msg})
}

func (n *fakeNotifier) levels() []notify.Level {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Level, 0, len(n.notices))
	for _, x := range n.notices {
		out = append(out, x.level)
	}
	return out
}

func mochi() Pet {
	return Pet{
		ID:       7,
		OwnerID:  "u1",
		Name:     "Mochi",
		Breed:    "siamés",
		Gender:   GenderFemale,
		Age:      2,
		Weight:   4.2,
		Birth:    "2024-03-01",
		ImageURL: "pets/old.png",
	}
}
