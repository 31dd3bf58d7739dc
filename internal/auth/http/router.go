package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the routes that do not need a token.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/register", h.RegisterUser)
	rg.POST("/login", h.Login)
}

// Register attaches the routes behind the JWT middleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
	rg.GET("/profile", h.GetProfile)
}
