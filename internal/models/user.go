package models

import (
	"regexp"
	"time"
)

// UserClass is the coarse authorization tier driving quotas and model
// entitlements.
type UserClass string

const (
	UserClassGuest   UserClass = "guest"
	UserClassRegular UserClass = "regular"
)

// guestEmailPattern matches the synthetic emails minted for anonymous
// callers. The persisted Class column is authoritative; the pattern is a
// defensive fallback for rows written before the column existed and for
// forged class claims arriving in tokens.
var guestEmailPattern = regexp.MustCompile(`^guest-\d+$`)

func IsGuestEmail(email string) bool {
	return guestEmailPattern.MatchString(email)
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte // nil for guest accounts
	DisplayName  string
	AvatarURL    *string
	Class        UserClass
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account carries a stored credential. OAuth
// accounts receive a generated placeholder at creation, so this is true for
// every account except guests.
func (u User) HasPassword() bool {
	return len(u.PasswordHash) > 0
}

// EffectiveClass resolves the caller class, falling back to the guest email
// pattern when the stored class is missing or contradicted by a guest email.
func (u User) EffectiveClass() UserClass {
	if IsGuestEmail(u.Email) {
		return UserClassGuest
	}
	if u.Class == "" {
		return UserClassRegular
	}
	return u.Class
}
