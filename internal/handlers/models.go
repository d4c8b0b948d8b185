package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relaychat/api/internal/middleware"
	"relaychat/api/internal/models"
)

// ListModels returns only the models the caller's class is entitled to.
// The send handler re-checks the entitlement, so this filter is cosmetic.
func (h HandlerSet) ListModels(c *gin.Context) {
	class := models.UserClassGuest
	if view := middleware.SessionFromContext(c); view != nil {
		class = view.Class
	}

	c.JSON(http.StatusOK, gin.H{"models": h.resolver.ModelsFor(class)})
}
