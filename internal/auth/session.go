package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
	"relaychat/api/internal/security"
)

// ProviderGoogle is the only federated provider; password and guest sign-ins
// arrive with their class already resolved.
const ProviderGoogle = "google"

// SessionView is the per-request view of the caller, rebuilt from the token
// claims and revalidated against the store.
type SessionView struct {
	UserID    string
	Email     string
	Class     models.UserClass
	Name      string
	AvatarURL string
}

// Synchronizer carries a verified identity into a signed claim set and back
// into a per-request session view.
type Synchronizer struct {
	users      UserStore
	reconciler *Reconciler
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewSynchronizer(users UserStore, reconciler *Reconciler, sessionTTL time.Duration, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		users:      users,
		reconciler: reconciler,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// OnSignIn resolves the identity for the provider before any token is
// issued. Federated sign-ins run through the reconciler so the id stamped
// onto the token is a committed row; an uncommitted id on a token is a
// correctness bug, so reconciliation errors abort here.
func (s *Synchronizer) OnSignIn(ctx context.Context, identity *Identity, provider string) error {
	if provider != ProviderGoogle {
		return nil
	}

	user, err := s.reconciler.Reconcile(ctx, Profile{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.AvatarURL,
	})
	if err != nil {
		return err
	}

	identity.ID = user.ID
	identity.Email = user.Email
	identity.Class = models.UserClassRegular
	if identity.Name == "" {
		identity.Name = user.DisplayName
	}
	return nil
}

// ToToken copies the resolved identity onto the signed claim set, field by
// field. An unset class becomes regular; a resolved identity is never
// silently downgraded to guest.
func (s *Synchronizer) ToToken(identity Identity) security.SessionClaims {
	class := identity.Class
	if class == "" {
		class = models.UserClassRegular
	}
	return security.NewSessionClaims(identity.ID, identity.Email, class, identity.Name, s.sessionTTL)
}

// ToSessionView turns verified claims into the caller's view for one
// request. The claimed id is revalidated against the store: tokens are
// stateless and can outlive their backing row (store reset, account
// removal), and a dangling id must not authorize anything. A miss or any
// store error yields (nil, nil) — treat the caller as unauthenticated rather
// than crash the pipeline. On a hit, id and class come from the claims while
// name and avatar are refreshed from the store so profile edits propagate
// without re-login.
func (s *Synchronizer) ToSessionView(ctx context.Context, claims *security.SessionClaims) (*SessionView, error) {
	if claims == nil || claims.Subject == "" {
		return nil, nil
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn().Err(err).Msg("session revalidation lookup failed, treating as unauthenticated")
		}
		return nil, nil
	}
	if user.ID != claims.Subject {
		return nil, nil
	}

	view := &SessionView{
		UserID: claims.Subject,
		Email:  claims.Email,
		Class:  claims.Class,
		Name:   user.DisplayName,
	}
	if user.AvatarURL != nil {
		view.AvatarURL = *user.AvatarURL
	}

	// Forged or legacy class claims lose against the guest email pattern.
	if models.IsGuestEmail(user.Email) {
		view.Class = models.UserClassGuest
	}

	return view, nil
}
