package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprebem/comprebem/internal/shared"
)

func testStack(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sm := shared.NewSessionManager(client, "comprebem_session", "secret", time.Hour, false)

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if r.URL.Path == "/login" {
			sess.SetUser("1")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	handler = requireUserExceptLogin(handler)

	stack := MiddlewareStack(MiddlewareConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:         &Config{AppRequestTimeout: 5 * time.Second},
		SessionManager: sm,
	})
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}
	return handler
}

// requireUserExceptLogin lets the test exercise both the rejected and
// the accepted path through the same stack.
func requireUserExceptLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			next.ServeHTTP(w, r)
			return
		}
		RequireUser(next).ServeHTTP(w, r)
	})
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	handler := testStack(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionSurvivesAcrossRequests(t *testing.T) {
	handler := testStack(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	res := rec.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecureHeadersApplied(t *testing.T) {
	handler := testStack(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
