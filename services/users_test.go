package services

import (
	"context"
	"testing"
	"time"

	"hotel-bookings-backend/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsersService(db, nil, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := users.Register(ctx, " Guest@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", user.Email)
	assert.NotEqual(t, "secret", user.HashedPassword)

	_, err = users.Register(ctx, "guest@example.com", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, _, err = users.Login(ctx, "guest@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = users.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := users.Login(ctx, "guest@example.com", "secret")
	require.NoError(t, err)

	me, err := users.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestCurrentUserTokenErrors(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsersService(db, nil, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := users.Register(ctx, "guest@example.com", "secret")
	require.NoError(t, err)

	_, err = users.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = users.CurrentUser(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)

	foreign, err := auth.IssueToken("another-secret", user.ID, user.Email, time.Hour)
	require.NoError(t, err)
	_, err = users.CurrentUser(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)

	expired, err := auth.IssueToken("test-secret", user.ID, user.Email, -time.Minute)
	require.NoError(t, err)
	_, err = users.CurrentUser(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	valid, err := auth.IssueToken("test-secret", user.ID, user.Email, time.Hour)
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = users.CurrentUser(ctx, valid)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsersService(db, nil, "test-secret", time.Hour)
	ctx := context.Background()

	a, err := users.Register(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	_, err = users.Register(ctx, "b@example.com", "secret")
	require.NoError(t, err)

	taken := "b@example.com"
	_, err = users.Update(ctx, a.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	password := "changed"
	updated, err := users.Update(ctx, a.ID, UserUpdate{Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", updated.Email)

	_, err = users.Authenticate(ctx, "a@example.com", "changed")
	assert.NoError(t, err)

	_, err = users.Update(ctx, 999, UserUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	ok, err := users.Exists(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = users.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}
