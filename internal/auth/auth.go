// Package auth reconciles password, guest, and federated identities into one
// durable user record and keeps that identity consistent across requests.
package auth

import (
	"context"
	"errors"

	"relaychat/api/internal/models"
)

var (
	// ErrInvalidCredentials is the only failure a credential check ever
	// returns to a caller. It never distinguishes an unknown email from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrReconcileFailed means a store write failed while mapping a
	// federated identity onto a user record. The sign-in must abort; no
	// session may be issued over a partially reconciled identity.
	ErrReconcileFailed = errors.New("oauth reconciliation failed")
)

// UserStore is the slice of the user repository this package needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	EnrichProfile(ctx context.Context, id string, name string, avatarURL string) error
}

// Identity is the in-flight identity flowing from a provider callback into
// token issuance. Providers fill what they know; OnSignIn resolves the rest.
type Identity struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	Class     models.UserClass
}

// IdentityFromUser seeds an in-flight identity from a stored record.
func IdentityFromUser(user models.User, class models.UserClass) Identity {
	avatar := ""
	if user.AvatarURL != nil {
		avatar = *user.AvatarURL
	}
	return Identity{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.DisplayName,
		AvatarURL: avatar,
		Class:     class,
	}
}
