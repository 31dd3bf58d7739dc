package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/users/domain"
)

func (h *Handler) list(c *gin.Context) {
	var f domain.ListFilter
	if raw := c.Query("role"); raw != "" {
		r, err := domain.ParseRole(raw)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		f.Role = &r
	}
	if raw := c.Query("department"); raw != "" {
		d, err := domain.ParseDepartment(raw)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		f.Department = &d
	}

	items, err := h.users.List(c.Request.Context(), f)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateReq struct {
	Name       *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Role       *string  `json:"role"`
	Department *string  `json:"department"`
	Avatar     *string  `json:"avatar"`
	Timezone   *string  `json:"timezone"`
	Skills     []string `json:"skills"`
	Capacity   *int     `json:"capacity" binding:"omitempty,min=1,max=80"`
	Phone      *string  `json:"phone"`
	Bio        *string  `json:"bio" binding:"omitempty,max=500"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	patch := domain.UpdateUserRequest{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Timezone: req.Timezone,
		Skills:   req.Skills,
		Capacity: req.Capacity,
		Phone:    req.Phone,
		Bio:      req.Bio,
	}
	if req.Role != nil {
		r, err := domain.ParseRole(*req.Role)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		patch.Role = &r
	}
	if req.Department != nil {
		d, err := domain.ParseDepartment(*req.Department)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		patch.Department = &d
	}

	u, err := h.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
