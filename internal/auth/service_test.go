package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comprebem/comprebem/internal/shared"
)

type memRepo struct {
	users    map[string]User
	sessions map[string]int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]User), sessions: make(map[string]int64)}
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (r *memRepo) CreateSession(_ context.Context, id string, userID int64, _ time.Time, _, _ string) error {
	r.sessions[id] = userID
	return nil
}

func (r *memRepo) DeleteSession(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func seedUser(t *testing.T, repo *memRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users[email] = User{
		ID:           1,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     active,
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMemRepo()
	seedUser(t, repo, "dona@comprebem.local", "segredo123", true)
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "dona@comprebem.local", "segredo123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "dona@comprebem.local", "errada")
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@comprebem.local", "segredo123")
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}

func TestAuthenticateInactiveUser(t *testing.T) {
	repo := newMemRepo()
	seedUser(t, repo, "ex@comprebem.local", "segredo123", false)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "ex@comprebem.local", "segredo123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RegisterSession(ctx, "sess-1", 1, time.Now().Add(time.Hour), "127.0.0.1", "test"))
	assert.Contains(t, repo.sessions, "sess-1")

	require.NoError(t, svc.RemoveSession(ctx, "sess-1"))
	assert.NotContains(t, repo.sessions, "sess-1")
}
