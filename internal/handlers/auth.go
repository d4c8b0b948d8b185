package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"relaychat/api/internal/auth"
	"relaychat/api/internal/ids"
	"relaychat/api/internal/models"
	"relaychat/api/internal/quota"
	"relaychat/api/internal/repository"
	"relaychat/api/internal/security"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
}

type userResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Class string  `json:"class"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.DisplayName,
		Image: user.AvatarURL,
		Class: string(user.EffectiveClass()),
	}
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Class:        models.UserClassRegular,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		h.log.Error().Err(err).Msg("register insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if !h.issueSession(c, auth.IdentityFromUser(user, models.UserClassRegular), true) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// One opaque failure for unknown email, missing hash, and wrong
		// password alike.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !h.issueSession(c, auth.IdentityFromUser(user, models.UserClassRegular), true) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) GuestLogin(c *gin.Context) {
	user, err := h.guests.CreateGuest(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("guest creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if !h.issueSession(c, auth.IdentityFromUser(user, models.UserClassGuest), false) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) Logout(c *gin.Context) {
	secure := h.cfg.IsProduction()
	http.SetCookie(c.Writer, security.ExpiredSessionCookie(secure))
	c.Status(http.StatusNoContent)
}

// issueSession runs the identity through the token pipeline and sets the
// session cookie. Signing in as a real account also clears the guest usage
// counter. Returns false after writing an error response.
func (h HandlerSet) issueSession(c *gin.Context, identity auth.Identity, clearGuestUsage bool) bool {
	claims := h.sync.ToToken(identity)

	token, err := security.GenerateSessionToken(h.cfg.Security.SessionSecret, claims)
	if err != nil {
		h.log.Error().Err(err).Msg("session token signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return false
	}

	secure := h.cfg.IsProduction()
	http.SetCookie(c.Writer, security.SessionCookie(token, h.cfg.Security.SessionTTL, secure))
	if clearGuestUsage {
		http.SetCookie(c.Writer, quota.ExpiredGuestCookie(secure))
	}
	return true
}
