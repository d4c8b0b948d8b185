package security

import (
	"net/http"
	"time"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "session"

// SessionCookie wraps a signed token in the transport attributes the session
// carrier requires: http-only, SameSite=Lax, Secure outside development.
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie clears the session on logout.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	cookie := SessionCookie("", 0, secure)
	cookie.MaxAge = -1
	return cookie
}
