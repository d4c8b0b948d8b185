package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"relaychat/api/internal/models"
)

func TestChatTitle(t *testing.T) {
	require.Equal(t, "New Chat", chatTitle("   "))
	require.Equal(t, "hello there", chatTitle("hello there"))
	require.Equal(t, "one two three four five six", chatTitle("one two three four five six seven eight"))
}

func TestToUserResponseDerivesClassDefensively(t *testing.T) {
	resp := toUserResponse(models.User{ID: "g1", Email: "guest-42", Class: models.UserClassRegular})
	require.Equal(t, "guest", resp.Class)

	resp = toUserResponse(models.User{ID: "u1", Email: "a@x.com"})
	require.Equal(t, "regular", resp.Class)
}
