package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"relaychat/api/internal/auth"
	"relaychat/api/internal/ids"
	"relaychat/api/internal/middleware"
	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
)

const defaultModelID = "chat-model"

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message" binding:"required"`
	ModelID string `json:"modelId"`
}

// SendMessage is the boundary that dispatches to the AI backend, so the
// model entitlement check lives here, not in a UI picker. Quota enforcement
// does NOT: the admission gate is the single authoritative enforcement
// point, and this handler never re-checks it.
func (h HandlerSet) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}

	view := middleware.SessionFromContext(c)
	class := models.UserClassGuest
	if view != nil {
		class = view.Class
	}

	if !h.resolver.Allows(class, modelID) {
		c.JSON(http.StatusForbidden, gin.H{
			"code":    "forbidden:model",
			"message": "The requested model is not available for your account.",
		})
		return
	}

	reply := h.generateReply(req.Message, modelID)

	// Anonymous callers have no user row; their conversation is ephemeral.
	if view == nil {
		c.JSON(http.StatusOK, gin.H{"reply": reply, "modelId": modelID})
		return
	}

	ctx := c.Request.Context()

	chatID := req.ChatID
	if chatID == "" {
		chat := models.Chat{
			ID:         ids.New(),
			UserID:     view.UserID,
			Title:      chatTitle(req.Message),
			Visibility: models.ChatVisibilityPrivate,
		}
		if err := h.chats.Create(ctx, chat); err != nil {
			h.log.Error().Err(err).Msg("chat create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		chatID = chat.ID
	} else {
		chat, err := h.chats.GetByID(ctx, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		if chat.UserID != view.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	userMsg := models.Message{
		ID:      ids.New(),
		ChatID:  chatID,
		Role:    "user",
		Content: req.Message,
		ModelID: modelID,
	}
	assistantMsg := models.Message{
		ID:      ids.New(),
		ChatID:  chatID,
		Role:    "assistant",
		Content: reply,
		ModelID: modelID,
	}

	if err := h.chats.AddMessage(ctx, userMsg); err != nil {
		h.log.Error().Err(err).Msg("message insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}
	if err := h.chats.AddMessage(ctx, assistantMsg); err != nil {
		h.log.Error().Err(err).Msg("message insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatId": chatID, "reply": reply, "modelId": modelID})
}

// generateReply stands in for the AI provider call, which is an external
// collaborator of this service.
func (h HandlerSet) generateReply(message string, modelID string) string {
	return fmt.Sprintf("[%s] received %d characters", modelID, len(message))
}

func chatTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > 6 {
		words = words[:6]
	}
	title := strings.Join(words, " ")
	if title == "" {
		title = "New Chat"
	}
	return title
}

func (h HandlerSet) ListChats(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	chats, err := h.chats.ListByUser(c.Request.Context(), view.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("chat list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	resp := make([]gin.H, 0, len(chats))
	for _, chat := range chats {
		resp = append(resp, gin.H{
			"id":         chat.ID,
			"title":      chat.Title,
			"visibility": chat.Visibility,
			"createdAt":  chat.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chats": resp})
}

// ownedChat loads the chat and verifies the caller owns it.
func (h HandlerSet) ownedChat(c *gin.Context, view *auth.SessionView) (models.Chat, bool) {
	chat, err := h.chats.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		} else {
			h.log.Error().Err(err).Msg("chat lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		}
		return models.Chat{}, false
	}
	if chat.UserID != view.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return models.Chat{}, false
	}
	return chat, true
}

type renameChatRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

func (h HandlerSet) RenameChat(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	var req renameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, ok := h.ownedChat(c, view)
	if !ok {
		return
	}

	if err := h.chats.Rename(c.Request.Context(), chat.ID, req.Title); err != nil {
		h.log.Error().Err(err).Msg("chat rename failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": chat.ID, "title": req.Title})
}

func (h HandlerSet) DeleteChat(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	chat, ok := h.ownedChat(c, view)
	if !ok {
		return
	}

	if err := h.chats.Delete(c.Request.Context(), chat.ID); err != nil {
		h.log.Error().Err(err).Msg("chat delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type updateVisibilityRequest struct {
	Visibility models.ChatVisibility `json:"visibility" binding:"required,oneof=private public"`
}

func (h HandlerSet) UpdateChatVisibility(c *gin.Context) {
	view, ok := requireSession(c)
	if !ok {
		return
	}

	var req updateVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, ok := h.ownedChat(c, view)
	if !ok {
		return
	}

	if err := h.chats.UpdateVisibility(c.Request.Context(), chat.ID, req.Visibility); err != nil {
		h.log.Error().Err(err).Msg("chat visibility update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": chat.ID, "visibility": req.Visibility})
}
