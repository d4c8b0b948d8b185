package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"relaychat/api/internal/ids"
	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
)

const guestCreateAttempts = 3

// GuestIssuer mints throwaway accounts for anonymous callers.
type GuestIssuer struct {
	users UserStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewGuestIssuer(users UserStore, log zerolog.Logger) *GuestIssuer {
	return &GuestIssuer{users: users, log: log, now: time.Now}
}

// CreateGuest inserts a user with a synthetic guest email and no password
// hash. Concurrent creation can collide on the email's unique constraint;
// a collision retries with a fresh timestamp instead of failing the request.
func (g *GuestIssuer) CreateGuest(ctx context.Context) (models.User, error) {
	var lastErr error
	for attempt := 0; attempt < guestCreateAttempts; attempt++ {
		email := fmt.Sprintf("guest-%d", g.now().UnixNano())

		user := models.User{
			ID:    ids.New(),
			Email: email,
			Class: models.UserClassGuest,
		}

		err := g.users.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, fmt.Errorf("create guest: %w", err)
		}
		lastErr = err
	}

	g.log.Error().Err(lastErr).Msg("guest email collisions exhausted retries")
	return models.User{}, fmt.Errorf("create guest: %w", lastErr)
}
