package quota

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: value})
	}
	return req
}

func TestGuestCountFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"absent", "", 0},
		{"zero", "0", 0},
		{"three", "3", 3},
		{"garbled", "banana", 0},
		{"negative", "-2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GuestCountFromRequest(requestWithCookie(tt.value)))
		})
	}
}

func TestGuestCookieAttributes(t *testing.T) {
	cookie := GuestCookie(4, true)

	require.Equal(t, GuestCookieName, cookie.Name)
	require.Equal(t, "4", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestExpiredGuestCookie(t *testing.T) {
	cookie := ExpiredGuestCookie(false)
	require.Negative(t, cookie.MaxAge)
	require.False(t, cookie.Secure)
}
