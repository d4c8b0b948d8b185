package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
)

func TestReconciler_CreatesNewUserWithPlaceholderPassword(t *testing.T) {
	store := newMemStore()
	reconciler := NewReconciler(store, zerolog.Nop())

	user, err := reconciler.Reconcile(context.Background(), Profile{
		Email:   "B@X.com",
		Name:    "Bee",
		Picture: "https://img.example/b.png",
	})
	require.NoError(t, err)

	require.Equal(t, "b@x.com", user.Email)
	require.Equal(t, "Bee", user.DisplayName)
	require.NotNil(t, user.AvatarURL)
	require.Equal(t, models.UserClassRegular, user.Class)
	// Structurally regular: a hash exists even though sign-in stays OAuth.
	require.True(t, user.HasPassword())

	stored, err := store.FindByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestReconciler_AdoptsExistingUser(t *testing.T) {
	avatar := "https://img.example/mine.png"
	store := newMemStore()
	store.add(models.User{
		ID:          "existing-1",
		Email:       "b@x.com",
		DisplayName: "My Name",
		AvatarURL:   &avatar,
		Class:       models.UserClassRegular,
	})
	reconciler := NewReconciler(store, zerolog.Nop())

	user, err := reconciler.Reconcile(context.Background(), Profile{
		Email:   "b@x.com",
		Name:    "Provider Name",
		Picture: "https://img.example/theirs.png",
	})
	require.NoError(t, err)

	// One-directional enrichment: non-empty values are never overwritten.
	require.Equal(t, "existing-1", user.ID)
	require.Equal(t, "My Name", user.DisplayName)
	require.Equal(t, avatar, *user.AvatarURL)
	require.Zero(t, store.enrichCalls)
}

func TestReconciler_BackfillsEmptyFields(t *testing.T) {
	store := newMemStore()
	store.add(models.User{
		ID:    "existing-2",
		Email: "c@x.com",
		Class: models.UserClassRegular,
	})
	reconciler := NewReconciler(store, zerolog.Nop())

	user, err := reconciler.Reconcile(context.Background(), Profile{
		Email:   "c@x.com",
		Name:    "Cee",
		Picture: "https://img.example/c.png",
	})
	require.NoError(t, err)

	require.Equal(t, "Cee", user.DisplayName)
	require.NotNil(t, user.AvatarURL)
	require.Equal(t, "https://img.example/c.png", *user.AvatarURL)
	require.Equal(t, 1, store.enrichCalls)
}

func TestReconciler_LosingInsertRaceAdoptsWinner(t *testing.T) {
	store := newMemStore()
	reconciler := NewReconciler(store, zerolog.Nop())

	// The winner's row lands between our lookup miss and our insert.
	winner := models.User{ID: "winner-1", Email: "d@x.com", DisplayName: "Dee", Class: models.UserClassRegular}
	store.createErrs = []error{repository.ErrEmailTaken}
	store.add(winner)

	user, err := reconciler.Reconcile(context.Background(), Profile{Email: "d@x.com", Name: "Dee"})
	require.NoError(t, err)
	require.Equal(t, "winner-1", user.ID)
}

func TestReconciler_WriteFailureAbortsSignIn(t *testing.T) {
	store := newMemStore()
	store.createErrs = []error{errors.New("disk full")}
	reconciler := NewReconciler(store, zerolog.Nop())

	_, err := reconciler.Reconcile(context.Background(), Profile{Email: "e@x.com"})
	require.ErrorIs(t, err, ErrReconcileFailed)
}

func TestReconciler_EnrichFailureAbortsSignIn(t *testing.T) {
	store := newMemStore()
	store.add(models.User{ID: "existing-3", Email: "f@x.com", Class: models.UserClassRegular})
	store.enrichErr = errors.New("write timeout")
	reconciler := NewReconciler(store, zerolog.Nop())

	_, err := reconciler.Reconcile(context.Background(), Profile{Email: "f@x.com", Name: "Eff"})
	require.ErrorIs(t, err, ErrReconcileFailed)
}

func TestReconciler_EmptyEmailRejected(t *testing.T) {
	reconciler := NewReconciler(newMemStore(), zerolog.Nop())

	_, err := reconciler.Reconcile(context.Background(), Profile{Name: "No Email"})
	require.ErrorIs(t, err, ErrReconcileFailed)
}

func TestReconciler_Idempotent(t *testing.T) {
	store := newMemStore()
	reconciler := NewReconciler(store, zerolog.Nop())
	profile := Profile{Email: "g@x.com", Name: "Gee", Picture: "https://img.example/g.png"}

	first, err := reconciler.Reconcile(context.Background(), profile)
	require.NoError(t, err)

	second, err := reconciler.Reconcile(context.Background(), profile)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.byEmail, 1)
}
