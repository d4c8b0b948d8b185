package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGuestEmail(t *testing.T) {
	require.True(t, IsGuestEmail("guest-1700000000000"))
	require.False(t, IsGuestEmail("guest-"))
	require.False(t, IsGuestEmail("a@x.com"))
	require.False(t, IsGuestEmail("guest-abc"))
	require.False(t, IsGuestEmail("xguest-123"))
}

func TestEffectiveClass(t *testing.T) {
	require.Equal(t, UserClassGuest, User{Email: "guest-42", Class: UserClassRegular}.EffectiveClass())
	require.Equal(t, UserClassRegular, User{Email: "a@x.com"}.EffectiveClass())
	require.Equal(t, UserClassGuest, User{Email: "a@x.com", Class: UserClassGuest}.EffectiveClass())
}

func TestHasPassword(t *testing.T) {
	require.False(t, User{}.HasPassword())
	require.True(t, User{PasswordHash: []byte("$argon2id$...")}.HasPassword())
}
