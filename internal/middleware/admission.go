package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"relaychat/api/internal/auth"
	"relaychat/api/internal/entitlements"
	"relaychat/api/internal/models"
	"relaychat/api/internal/quota"
	"relaychat/api/internal/security"
)

// SessionKey is the gin context key under which the gate stashes the
// resolved session view for downstream handlers.
const SessionKey = "session_view"

const chatPathPrefix = "/api/chat"

// Gate is the per-request admission decision: classify the caller, meter
// message sends, and block privileged mutations for guests. It runs once,
// synchronously, before any handler; rejection is terminal for the request.
type Gate struct {
	sync     *auth.Synchronizer
	resolver *entitlements.Resolver
	daily    *quota.DailyCounter
	secret   string
	secure   bool
	log      zerolog.Logger
}

func NewGate(
	sync *auth.Synchronizer,
	resolver *entitlements.Resolver,
	daily *quota.DailyCounter,
	sessionSecret string,
	secureCookies bool,
	log zerolog.Logger,
) *Gate {
	return &Gate{
		sync:     sync,
		resolver: resolver,
		daily:    daily,
		secret:   sessionSecret,
		secure:   secureCookies,
		log:      log,
	}
}

// SessionFromContext returns the session view the gate resolved, or nil for
// anonymous callers.
func SessionFromContext(c *gin.Context) *auth.SessionView {
	val, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	view, _ := val.(*auth.SessionView)
	return view
}

func (g *Gate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		// Health probes and the auth surface are admitted unconditionally;
		// the latter is how unauthenticated callers become authenticated.
		if strings.HasPrefix(path, "/ping") {
			c.String(http.StatusOK, "pong")
			c.Abort()
			return
		}
		if strings.HasPrefix(path, "/api/auth") || path == "/api/healthz" {
			c.Next()
			return
		}

		view := g.resolveSession(c)
		if view != nil {
			c.Set(SessionKey, view)
		}

		class := models.UserClassGuest
		if view != nil {
			class = view.Class
		}

		if class == models.UserClassGuest {
			if method == http.MethodPost && strings.HasPrefix(path, chatPathPrefix) {
				g.admitGuestSend(c)
				return
			}
			// Guests may only send messages; chat metadata (rename, delete,
			// visibility) is off limits until they sign in.
			if method != http.MethodGet && method != http.MethodPost && strings.HasPrefix(path, chatPathPrefix) {
				c.String(http.StatusUnauthorized, "Unauthorized")
				c.Abort()
				return
			}
		}

		if view != nil && class != models.UserClassGuest && (path == "/login" || path == "/register") {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		if class == models.UserClassRegular && view != nil &&
			method == http.MethodPost && strings.HasPrefix(path, chatPathPrefix) {
			g.admitMeteredSend(c, view)
			return
		}

		c.Next()
	}
}

// resolveSession decodes and verifies the session cookie, then revalidates
// the claims against the store. Any failure means the caller is a guest.
func (g *Gate) resolveSession(c *gin.Context) *auth.SessionView {
	cookie, err := c.Request.Cookie(security.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := security.ParseSessionToken(cookie.Value, g.secret)
	if err != nil {
		g.log.Debug().Err(err).Msg("session token rejected")
		return nil
	}

	view, err := g.sync.ToSessionView(c.Request.Context(), claims)
	if err != nil || view == nil {
		return nil
	}
	return view
}

// admitGuestSend enforces the guest daily quota carried in the guest-usage
// cookie. The incremented cookie is injected only when the handler finishes
// with a non-error status, so a failed send never consumes quota.
func (g *Gate) admitGuestSend(c *gin.Context) {
	count := quota.GuestCountFromRequest(c.Request)
	limit := g.resolver.Resolve(models.UserClassGuest).MaxMessagesPerDay

	if count >= limit {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    "forbidden:guest_limit",
			"message": "Guest usage limit reached. Please sign in.",
		})
		return
	}

	c.Writer = &deferredCookieWriter{
		ResponseWriter: c.Writer,
		cookie:         quota.GuestCookie(count+1, g.secure),
	}
	c.Next()
}

// admitMeteredSend enforces the authenticated caller's daily entitlement via
// the redis counter; the increment lands only after the send succeeds.
func (g *Gate) admitMeteredSend(c *gin.Context, view *auth.SessionView) {
	ctx := c.Request.Context()
	limit := g.resolver.Resolve(view.Class).MaxMessagesPerDay

	if g.daily.Count(ctx, view.UserID) >= limit {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    "forbidden:daily_limit",
			"message": "Daily message limit reached.",
		})
		return
	}

	c.Next()

	if c.Writer.Status() < http.StatusBadRequest {
		g.daily.Increment(ctx, view.UserID)
	}
}

// deferredCookieWriter holds a cookie back until the response status is
// known and drops it when the handler failed. gin flushes headers on first
// body write, so injecting at WriteHeader time is early enough.
type deferredCookieWriter struct {
	gin.ResponseWriter
	cookie  *http.Cookie
	decided bool
}

func (w *deferredCookieWriter) WriteHeader(code int) {
	if !w.decided {
		w.decided = true
		if code < http.StatusBadRequest {
			http.SetCookie(w.ResponseWriter, w.cookie)
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *deferredCookieWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(w.Status())
		return w.ResponseWriter.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *deferredCookieWriter) WriteString(s string) (int, error) {
	if !w.decided {
		w.WriteHeader(w.Status())
	}
	return w.ResponseWriter.WriteString(s)
}
