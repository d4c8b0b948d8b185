package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"relaychat/api/internal/ids"
	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
	"relaychat/api/internal/security"
)

// Profile is what a federated provider asserts about the signer.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// Reconciler maps a federated identity onto exactly one durable user record.
type Reconciler struct {
	users UserStore
	log   zerolog.Logger
}

func NewReconciler(users UserStore, log zerolog.Logger) *Reconciler {
	return &Reconciler{users: users, log: log}
}

// Reconcile finds or creates the user record for an OAuth profile and
// returns it. New accounts get a generated password placeholder so they are
// structurally regular. Existing accounts are enriched one-directionally:
// avatar and name are backfilled only where empty, never overwritten.
// Any store write failure aborts the sign-in with ErrReconcileFailed.
func (r *Reconciler) Reconcile(ctx context.Context, profile Profile) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(profile.Email))
	if email == "" {
		return models.User{}, ErrReconcileFailed
	}

	existing, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return r.enrich(ctx, existing, profile)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		r.log.Error().Err(err).Msg("reconcile lookup failed")
		return models.User{}, ErrReconcileFailed
	}

	placeholder, err := security.GeneratePlaceholderPassword()
	if err != nil {
		return models.User{}, ErrReconcileFailed
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: placeholder,
		DisplayName:  profile.Name,
		Class:        models.UserClassRegular,
	}
	if profile.Picture != "" {
		user.AvatarURL = &profile.Picture
	}

	if err := r.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// A concurrent sign-in for the same new email won the insert.
			// Adopt the winner's row instead of failing this one.
			winner, readErr := r.users.FindByEmail(ctx, email)
			if readErr != nil {
				r.log.Error().Err(readErr).Msg("reconcile lost insert race and re-read failed")
				return models.User{}, ErrReconcileFailed
			}
			return r.enrich(ctx, winner, profile)
		}
		r.log.Error().Err(err).Msg("reconcile insert failed")
		return models.User{}, ErrReconcileFailed
	}

	return user, nil
}

func (r *Reconciler) enrich(ctx context.Context, user models.User, profile Profile) (models.User, error) {
	needsAvatar := user.AvatarURL == nil && profile.Picture != ""
	needsName := user.DisplayName == "" && profile.Name != ""
	if !needsAvatar && !needsName {
		return user, nil
	}

	if err := r.users.EnrichProfile(ctx, user.ID, profile.Name, profile.Picture); err != nil {
		r.log.Error().Err(err).Str("user_id", user.ID).Msg("reconcile enrichment failed")
		return models.User{}, ErrReconcileFailed
	}

	if needsAvatar {
		user.AvatarURL = &profile.Picture
	}
	if needsName {
		user.DisplayName = profile.Name
	}
	return user, nil
}
