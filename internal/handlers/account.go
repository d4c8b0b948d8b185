package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaychat/api/internal/auth"
	"relaychat/api/internal/middleware"
	"relaychat/api/internal/repository"
	"relaychat/api/internal/security"
)

// requireSession returns the caller's session view or writes 401.
func requireSession(c *gin.Context) (*auth.SessionView, bool) {
	view := middleware.SessionFromContext(c)
	if view == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return view, true
}

type accountResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Image       *string `json:"image"`
	HasPassword bool    `json:"hasPassword"`
}

func (h HandlerSet) GetAccount(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), view.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("account lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, accountResponse{
		ID:          user.ID,
		Name:        user.DisplayName,
		Email:       user.Email,
		Image:       user.AvatarURL,
		HasPassword: user.HasPassword(),
	})
}

type updateNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

func (h HandlerSet) UpdateName(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name format"})
		return
	}

	if err := h.users.UpdateName(c.Request.Context(), view.UserID, req.Name); err != nil {
		h.log.Error().Err(err).Msg("name update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": view.UserID, "name": req.Name})
}

type updateImageRequest struct {
	Image string `json:"image" binding:"required,url"`
}

func (h HandlerSet) UpdateImage(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	var req updateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image URL"})
		return
	}

	if err := h.users.UpdateAvatar(c.Request.Context(), view.UserID, req.Image); err != nil {
		h.log.Error().Err(err).Msg("avatar update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": view.UserID, "image": req.Image})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=64"`
}

// UpdatePassword requires the caller to know the current password. OAuth
// accounts carry a generated placeholder nobody knows, so they fail the
// current-password check honestly; accounts with no hash at all get a
// distinct error.
func (h HandlerSet) UpdatePassword(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, view.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if !user.HasPassword() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password change not available for OAuth accounts"})
		return
	}

	match, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !match {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
		return
	}

	newHash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		h.log.Error().Err(err).Msg("password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if err := h.users.UpdatePassword(ctx, view.UserID, newHash); err != nil {
		h.log.Error().Err(err).Msg("password update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password updated"})
}
