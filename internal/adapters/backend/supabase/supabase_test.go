package supabase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-diary/internal/domain/diaries"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/ports/auth"
	"pet-diary/internal/ports/blob"
	"pet-diary/internal/ports/profiles"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   []byte
}

func newBackend(t *testing.T, status int, resp string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.header = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL, APIKey: "anon-key", Timeout: time.Second})
	require.NoError(t, err)
	return c, got
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{URL: "http://x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewClient(Config{APIKey: "k"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPetsRepo_GetByID(t *testing.T) {
	c, got := newBackend(t, http.StatusOK,
		`[{"id":7,"ownerId":"u1","name":"Mochi","gender":"female","age":2,"weight":4.2,"imageUrl":"pets/old.png","createdAt":"2026-05-01T10:00:00Z"}]`)

	p, err := NewPetsRepo(c).GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Mochi", p.Name)
	assert.Equal(t, "pets/old.png", p.ImageURL)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/rest/v1/pets", got.path)
	assert.Equal(t, []string{"eq.7"}, got.query["id"])
	assert.Equal(t, "anon-key", got.header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.header.Get("Authorization"))
}

func TestPetsRepo_GetByID_Empty(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `[]`)
	_, err := NewPetsRepo(c).GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPetsRepo_Update_ForwardsUserToken(t *testing.T) {
	c, got := newBackend(t, http.StatusOK,
		`[{"id":7,"ownerId":"u1","name":"Mochi2","gender":"female","age":2,"weight":4.2,"createdAt":"2026-05-01T10:00:00Z"}]`)

	ctx := auth.NewContext(context.Background(), auth.Claims{UserID: "u1", Token: "user-jwt"})
	name := "Mochi2"
	p, err := NewPetsRepo(c).Update(ctx, 7, pets.Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mochi2", p.Name)

	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "Bearer user-jwt", got.header.Get("Authorization"))
	assert.Equal(t, preferReturn, got.header.Get("Prefer"))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(got.body, &body))
	assert.Equal(t, map[string]any{"name": "Mochi2"}, body)
}

func TestPetsRepo_Delete_NotFound(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `[]`)
	err := NewPetsRepo(c).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, pets.ErrNotFound)
	assert.Equal(t, http.MethodDelete, got.method)
}

func TestDiariesRepo_ListByAuthor_Query(t *testing.T) {
	c, got := newBackend(t, http.StatusOK,
		`[{"id":1,"authorId":"u1","title":"paseo","content":"parque","imageUrl":null,"createdAt":"2026-05-02T10:00:00Z","isPublic":true}]`)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	items, err := NewDiariesRepo(c).ListByAuthor(context.Background(), "u1",
		diaries.ListFilter{From: &from, To: &to, Query: "paseo", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsPublic)
	assert.Empty(t, items[0].ImageURL)

	assert.Equal(t, []string{"eq.u1"}, got.query["authorId"])
	assert.Equal(t, []string{"gte.2026-05-01T00:00:00Z", "lt.2026-06-01T00:00:00Z"}, got.query["createdAt"])
	assert.Equal(t, []string{"(title.ilike.*paseo*,content.ilike.*paseo*)"}, got.query["or"])
	assert.Equal(t, []string{"createdAt.desc,id.desc"}, got.query["order"])
	assert.Equal(t, []string{"10"}, got.query["limit"])
}

func TestDiariesRepo_Update_NeverSendsAuthor(t *testing.T) {
	c, got := newBackend(t, http.StatusOK,
		`[{"id":1,"authorId":"u1","title":"nuevo","content":"","createdAt":"2026-05-02T10:00:00Z","isPublic":false}]`)

	title := "nuevo"
	public := false
	e, err := NewDiariesRepo(c).Update(context.Background(), 1, diaries.Patch{Title: &title, IsPublic: &public})
	require.NoError(t, err)
	assert.Equal(t, "u1", e.AuthorID)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(got.body, &body))
	assert.Equal(t, map[string]any{"title": "nuevo", "isPublic": false}, body)
}

func TestProfilesRepo_GetByUserID(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `[{"id":"u1","nickname":"ana","avatarUrl":null}]`)
	p, err := NewProfilesRepo(c).GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Nickname)

	c, _ = newBackend(t, http.StatusOK, `[]`)
	_, err = NewProfilesRepo(c).GetByUserID(context.Background(), "u2")
	assert.ErrorIs(t, err, profiles.ErrNotFound)
}

func TestBlobStore_Upload(t *testing.T) {
	c, got := newBackend(t, http.StatusOK, `{"Key":"pets/a.png"}`)

	path, err := NewBlobStore(c).Upload(context.Background(), blob.Object{
		Bucket: "pets", Name: "a.png", ContentType: "image/png", Data: []byte{1, 2}, Upsert: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pets/a.png", path)
	assert.Equal(t, "/storage/v1/object/pets/a.png", got.path)
	assert.Equal(t, "true", got.header.Get("x-upsert"))
	assert.Equal(t, "image/png", got.header.Get("Content-Type"))
	assert.Equal(t, []byte{1, 2}, got.body)
}

func TestBlobStore_Upload_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"conflict", http.StatusConflict, `{}`, blob.ErrConflict},
		{"conflict in body", http.StatusBadRequest, `{"statusCode":"409","error":"Duplicate"}`, blob.ErrConflict},
		{"too large", http.StatusRequestEntityTooLarge, `{}`, blob.ErrTooLarge},
		{"rejected", http.StatusBadRequest, `{"statusCode":"400"}`, blob.ErrRejected},
		{"mime", http.StatusUnsupportedMediaType, `{}`, blob.ErrRejected},
		{"upstream", http.StatusInternalServerError, `oops`, blob.ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newBackend(t, tc.status, tc.body)
			_, err := NewBlobStore(c).Upload(context.Background(), blob.Object{Bucket: "pets", Name: "a.png", Data: []byte{1}})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	c, _ := newBackend(t, http.StatusOK, `{}`)
	_, err := NewBlobStore(c).Upload(context.Background(), blob.Object{Name: "a.png"})
	assert.ErrorIs(t, err, blob.ErrRejected)
}
