package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relaychat/api/internal/models"
)

const testSecret = "token-test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	claims := NewSessionClaims("user-1", "a@x.com", models.UserClassRegular, "Aye", time.Hour)

	token, err := GenerateSessionToken(testSecret, claims)
	require.NoError(t, err)

	parsed, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)

	require.Equal(t, "user-1", parsed.Subject)
	require.Equal(t, "a@x.com", parsed.Email)
	require.Equal(t, models.UserClassRegular, parsed.Class)
	require.Equal(t, "Aye", parsed.Name)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	claims := NewSessionClaims("user-1", "a@x.com", models.UserClassRegular, "", time.Hour)
	token, err := GenerateSessionToken(testSecret, claims)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "some-other-secret")
	require.Error(t, err)
}

func TestParseSessionToken_Expired(t *testing.T) {
	claims := NewSessionClaims("user-1", "a@x.com", models.UserClassRegular, "", -time.Minute)
	token, err := GenerateSessionToken(testSecret, claims)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	require.Error(t, err)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, err := ParseSessionToken("definitely.not.a.jwt", testSecret)
	require.Error(t, err)
}
