package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"relaychat/api/internal/models"
	"relaychat/api/internal/security"
)

func testUserWithPassword(t *testing.T, email string, password string) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: hash,
		Class:        models.UserClassRegular,
	}
}

func TestVerifier_Success(t *testing.T) {
	store := newMemStore()
	store.add(testUserWithPassword(t, "a@x.com", "hunter2"))

	verifier := NewVerifier(store, zerolog.Nop())

	user, err := verifier.Verify(context.Background(), "a@x.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.Equal(t, models.UserClassRegular, user.Class)
}

func TestVerifier_EmailCaseNormalized(t *testing.T) {
	store := newMemStore()
	store.add(testUserWithPassword(t, "a@x.com", "hunter2"))

	verifier := NewVerifier(store, zerolog.Nop())

	user, err := verifier.Verify(context.Background(), "  A@X.COM ", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
}

func TestVerifier_WrongPassword(t *testing.T) {
	store := newMemStore()
	store.add(testUserWithPassword(t, "a@x.com", "hunter2"))

	verifier := NewVerifier(store, zerolog.Nop())

	_, err := verifier.Verify(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_UnknownEmail(t *testing.T) {
	verifier := NewVerifier(newMemStore(), zerolog.Nop())

	_, err := verifier.Verify(context.Background(), "nobody@x.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_AccountWithoutHash(t *testing.T) {
	store := newMemStore()
	store.add(models.User{ID: "user-2", Email: "oauth@x.com", Class: models.UserClassRegular})

	verifier := NewVerifier(store, zerolog.Nop())

	_, err := verifier.Verify(context.Background(), "oauth@x.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifier_StoreErrorStaysOpaque(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("connection refused")

	verifier := NewVerifier(store, zerolog.Nop())

	_, err := verifier.Verify(context.Background(), "a@x.com", "hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotContains(t, err.Error(), "connection")
}
