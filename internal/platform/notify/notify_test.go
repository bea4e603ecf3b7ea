package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-diary/internal/middleware"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_NotifyAndDrain(t *testing.T) {
	f := NewFeed(0, nil)

	f.Notify("u1", LevelSuccess, "profile updated")
	f.Notify("u1", LevelError, "image not updated")
	f.Notify("u2", LevelInfo, "hello")

	got := f.Drain("u1")
	require.Len(t, got, 2)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "image not updated", got[1].Message)

	assert.Empty(t, f.Drain("u1"))
	assert.Len(t, f.Drain("u2"), 1)
}

func TestFeed_DropsOldestOverCapacity(t *testing.T) {
	f := NewFeed(2, nil)
	f.Notify("u1", LevelInfo, "a")
	f.Notify("u1", LevelInfo, "b")
	f.Notify("u1", LevelInfo, "c")

	got := f.Drain("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
	assert.Equal(t, "c", got[1].Message)
}

func TestFeed_AnonymousIsOnlyLogged(t *testing.T) {
	f := NewFeed(2, nil)
	f.Notify("  ", LevelInfo, "x")
	assert.Empty(t, f.Drain(""))
}

func TestDrainHandler(t *testing.T) {
	f := NewFeed(0, nil)
	f.Notify("u1", LevelSuccess, "diary created")

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, f)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me/notifications", nil)
	req.Header.Set(middleware.DebugUserHeader, "u1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Notice
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "diary created", got[0].Message)
	assert.Empty(t, f.Drain("u1"))
}
