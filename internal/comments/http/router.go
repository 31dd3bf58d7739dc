package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/stats", h.stats)
	rg.GET("/mentions/:userId", h.mentions)
	rg.GET("/user/:userId", h.byUser)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.GET("/:id/replies", h.replies)
	rg.POST("/:id/reactions", h.addReaction)
	rg.DELETE("/:id/reactions", h.removeReaction)
}
