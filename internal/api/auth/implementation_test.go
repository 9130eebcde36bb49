package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/testutil/pgtest"
)

var secret = []byte("test-secret")

func newTestService(t *testing.T) *service {
	t.Helper()
	db := pgtest.Open(t, "test_auth")
	pgtest.Reset(t, db)
	return NewService(db, secret, time.Hour).(*service)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	fixed := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return fixed }

	u, err := s.Register(ctx, RegisterRequest{Email: " Kim@Example.com ", Password: "secret123", Name: "Kim", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", u.Email)
	assert.Equal(t, access.RoleManager, u.Role)

	res, err := s.Login(ctx, LoginRequest{Email: "KIM@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), res.ExpiresAt)

	p, err := access.ParseToken(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, access.RoleManager, p.Role)

	me, err := s.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", me.Name)
}

func TestRegisterDefaultsAndConflicts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, access.RoleStaff, u.Role)

	_, err = s.Register(ctx, RegisterRequest{Email: "A@example.com", Password: "secret123", Name: "A"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = s.Register(ctx, RegisterRequest{Email: "b@example.com", Password: "short", Name: "B"})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, err := s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "A"})
	require.NoError(t, err)

	_, err = s.Login(ctx, LoginRequest{Email: "a@example.com", Password: "wrong1234"})
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	_, err = s.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "A"})
	require.NoError(t, err)

	err = s.ChangePassword(ctx, u.ID, ChangePasswordRequest{OldPassword: "nope", NewPassword: "another123"})
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	require.NoError(t, s.ChangePassword(ctx, u.ID, ChangePasswordRequest{OldPassword: "secret123", NewPassword: "another123"}))
	_, err = s.Login(ctx, LoginRequest{Email: "a@example.com", Password: "another123"})
	assert.NoError(t, err)
}
