package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/auth"
)

// list returns the caller's own notifications.
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
