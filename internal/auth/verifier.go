package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
	"relaychat/api/internal/security"
)

// Verifier validates email/password pairs against stored hashes.
type Verifier struct {
	users UserStore
	log   zerolog.Logger
}

func NewVerifier(users UserStore, log zerolog.Logger) *Verifier {
	return &Verifier{users: users, log: log}
}

// Verify returns the matching user tagged regular, or ErrInvalidCredentials.
// Every path performs exactly one hash comparison: unknown email and
// hashless (OAuth-only) accounts burn one against a fixed dummy hash, so a
// miss is not distinguishable from a mismatch by response timing.
func (v *Verifier) Verify(ctx context.Context, email string, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			v.log.Error().Err(err).Msg("credential lookup failed")
		}
		security.BurnComparison(password)
		return models.User{}, ErrInvalidCredentials
	}

	if !user.HasPassword() {
		security.BurnComparison(password)
		return models.User{}, ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}

	user.Class = models.UserClassRegular
	return user, nil
}
