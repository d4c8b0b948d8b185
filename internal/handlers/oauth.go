package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"relaychat/api/internal/auth"
)

const (
	oauthStateCookie  = "oauth-state"
	oauthStateMaxAge  = 10 * 60
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// googleEndpoint is spelled out here so the google subpackage (and its
// cloud metadata dependency) stays out of the build.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

func (h HandlerSet) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		Endpoint:     googleEndpoint,
		RedirectURL:  h.cfg.OAuth.RedirectBaseURL + "/api/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// GoogleLogin starts the consent flow with a random state pinned to the
// browser via a short-lived cookie.
func (h HandlerSet) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, h.googleOAuthConfig().AuthCodeURL(state))
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the authorization code, fetches the profile, and
// runs the sign-in pipeline. Reconciliation must commit before any token is
// issued; a reconciliation failure aborts the sign-in with no session.
func (h HandlerSet) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Request.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oauth state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ctx := c.Request.Context()
	conf := h.googleOAuthConfig()

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		h.log.Warn().Err(err).Msg("oauth code exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	profile, err := fetchGoogleProfile(ctx, conf, token)
	if err != nil {
		h.log.Warn().Err(err).Msg("oauth profile fetch failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	identity := auth.Identity{
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
	}
	if err := h.sync.OnSignIn(ctx, &identity, auth.ProviderGoogle); err != nil {
		h.log.Error().Err(err).Msg("oauth reconciliation failed, aborting sign-in")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	if !h.issueSession(c, identity, true) {
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func fetchGoogleProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (googleUserInfo, error) {
	client := conf.Client(ctx, token)

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var profile googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return googleUserInfo{}, fmt.Errorf("userinfo missing email")
	}
	return profile, nil
}
