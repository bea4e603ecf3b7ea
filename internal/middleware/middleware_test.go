package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-diary/internal/platform/logger"
	"pet-diary/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeVerifier struct {
	claims auth.Claims
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (auth.Claims, error) {
	f.calls++
	return f.claims, f.err
}

func whoami(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	c, _ := GetClaims(r.Context())
	_, _ = w.Write([]byte(uid + "|" + c.Token))
}

func TestAuthContext_DevHeader(t *testing.T) {
	h := AuthContext(nil)(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, " u1 ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u1|", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "|", rec.Body.String())
}

func TestAuthContext_BearerToken(t *testing.T) {
	v := &fakeVerifier{claims: auth.Claims{UserID: "u1"}}
	h := AuthContext(v)(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u1|tok-1", rec.Body.String())

	// con verifier el header de debug no cuenta
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DebugUserHeader, "intruso")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "|", rec.Body.String())
	assert.Equal(t, 1, v.calls)
}

func TestAuthContext_RejectedTokenIsAnonymous(t *testing.T) {
	v := &fakeVerifier{err: errors.New("expired")}
	h := AuthContext(v)(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "|", rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewZap(zap.New(core))

	h := chimw.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFrom(r.Context()).Info("inside", nil)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	done := entries[1].ContextMap()
	assert.Equal(t, "request completed", entries[1].Message)
	assert.EqualValues(t, http.StatusTeapot, done["status"])
	assert.EqualValues(t, 2, done["bytes"])
	assert.Equal(t, "/x", done["path"])
}

func TestRecover_Returns500AndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewZap(zap.New(core))

	h := RequestLogger(log)(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	panics := logs.FilterMessage("panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "boom", panics[0].ContextMap()["panic"])
}
