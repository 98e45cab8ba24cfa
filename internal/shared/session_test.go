package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "comprebem_session", "secret", time.Hour, false), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == "comprebem_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.True(t, sess.isNew)

	sess.SetUser("1")
	sess.Set("email", "dona@comprebem.local")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// A follow-up request with the cookie resolves the same session.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.False(t, loaded.isNew)
	assert.Equal(t, "1", loaded.User())
	assert.Equal(t, "dona@comprebem.local", loaded.Get("email"))
}

func TestSessionDestroy(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookie := sessionCookie(t, rec)
	require.True(t, mr.Exists("session:"+cookie.Value))

	sm.Destroy(sess)
	rec = httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	assert.False(t, mr.Exists("session:"+cookie.Value))

	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSessionExpiresWithTTL(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookie := sessionCookie(t, rec)

	mr.FastForward(2 * time.Hour)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.True(t, loaded.isNew, "expired session falls back to a fresh one")
	assert.Empty(t, loaded.User())
}
