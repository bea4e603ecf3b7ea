package memory

import (
	"context"
	"testing"
	"time"

	"pet-diary/internal/domain/diaries"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/ports/blob"
	"pet-diary/internal/ports/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetRepo_CRUD(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	a, err := repo.Create(ctx, pets.Pet{OwnerID: "u1", Name: "Mochi"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, pets.Pet{OwnerID: "u1", Name: "Luna"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, pets.Pet{OwnerID: "u2", Name: "Otro"})
	require.NoError(t, err)
	assert.Less(t, a.ID, b.ID)

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	name := "Mochi2"
	p, err := repo.Update(ctx, a.ID, pets.Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mochi2", p.Name)
	assert.Equal(t, "u1", p.OwnerID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), pets.ErrNotFound)
	_, err = repo.Update(ctx, a.ID, pets.Patch{Name: &name})
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestDiaryRepo_ListFilter(t *testing.T) {
	repo := NewDiaryRepo()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, title := range []string{"paseo", "veterinario", "paseo largo"} {
		_, err := repo.Create(ctx, diaries.Entry{AuthorID: "u1", Title: title, CreatedAt: base.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	all, err := repo.ListByAuthor(ctx, "u1", diaries.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "paseo largo", all[0].Title)

	q, err := repo.ListByAuthor(ctx, "u1", diaries.ListFilter{Query: "PASEO"})
	require.NoError(t, err)
	assert.Len(t, q, 2)

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)
	rng, err := repo.ListByAuthor(ctx, "u1", diaries.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, rng, 1)
	assert.Equal(t, "veterinario", rng[0].Title)

	lim, err := repo.ListByAuthor(ctx, "u1", diaries.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, lim, 1)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, diaries.ErrNotFound)
}

func TestProfileRepo(t *testing.T) {
	repo := NewProfileRepo()
	_, err := repo.GetByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, profiles.ErrNotFound)

	repo.Put(profiles.Profile{ID: "u1", Nickname: "ana"})
	p, err := repo.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Nickname)
}

func TestBlobStore_Upload(t *testing.T) {
	s := NewBlobStore(4)
	ctx := context.Background()

	path, err := s.Upload(ctx, blob.Object{Bucket: "pets", Name: "a.png", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "pets/a.png", path)

	_, err = s.Upload(ctx, blob.Object{Bucket: "pets", Name: "a.png", Data: []byte{2}})
	assert.ErrorIs(t, err, blob.ErrConflict)

	_, err = s.Upload(ctx, blob.Object{Bucket: "pets", Name: "a.png", Data: []byte{2}, Upsert: true})
	require.NoError(t, err)
	obj, ok := s.Get("pets/a.png")
	require.True(t, ok)
	assert.Equal(t, []byte{2}, obj.Data)

	_, err = s.Upload(ctx, blob.Object{Bucket: "pets", Name: "b.png", Data: []byte{1, 2, 3, 4, 5}})
	assert.ErrorIs(t, err, blob.ErrTooLarge)

	_, err = s.Upload(ctx, blob.Object{Bucket: "", Name: "b.png", Data: []byte{1}})
	assert.ErrorIs(t, err, blob.ErrRejected)
}
