package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/auth"
	"github.com/ranwip/pm-backend/internal/auth/domain"
	userdomain "github.com/ranwip/pm-backend/internal/users/domain"
)

type registerReq struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=6"`
	Role       string   `json:"role" binding:"required"`
	Department string   `json:"department" binding:"required"`
	Skills     []string `json:"skills"`
	Timezone   string   `json:"timezone"`
}

// RegisterUser creates an account and returns a token for it.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	role, err := userdomain.ParseRole(req.Role)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	dept, err := userdomain.ParseDepartment(req.Department)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	sess, err := h.authService.Register(c.Request.Context(), domain.RegisterRequest{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Department: dept,
		Skills:     req.Skills,
		Timezone:   req.Timezone,
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), auth.UserID(c)); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
