// Package quota meters daily message sends per caller.
package quota

import (
	"net/http"
	"strconv"
)

// GuestCookieName carries the anonymous caller's send count. The value is a
// plain integer; the cookie is an optimistic soft limit, not an atomic
// lease, and two in-flight requests may both see the pre-increment count.
const GuestCookieName = "guest-usage"

const guestCookieMaxAge = 24 * 60 * 60

// GuestCountFromRequest reads the counter from the request; absence or a
// garbled value counts as zero.
func GuestCountFromRequest(r *http.Request) int {
	cookie, err := r.Cookie(GuestCookieName)
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(cookie.Value)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// GuestCookie builds the counter cookie with the carrier attributes the gate
// requires: http-only, SameSite=Lax, root-scoped, Secure outside development.
func GuestCookie(count int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     GuestCookieName,
		Value:    strconv.Itoa(count),
		Path:     "/",
		MaxAge:   guestCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredGuestCookie clears the counter; set when a caller authenticates.
func ExpiredGuestCookie(secure bool) *http.Cookie {
	cookie := GuestCookie(0, secure)
	cookie.MaxAge = -1
	return cookie
}
