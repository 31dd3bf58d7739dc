package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/auth"
	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/projects/domain"
)

type createReq struct {
	Name        string      `json:"name" binding:"required,max=255"`
	Description *string     `json:"description" binding:"omitempty,max=2000"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	StartDate   *dates.Date `json:"start_date"`
	EndDate     *dates.Date `json:"end_date"`
	Budget      *int        `json:"budget" binding:"omitempty,min=0"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	p := domain.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
	}
	var err error
	if req.Status != "" {
		if p.Status, err = domain.ParseStatus(req.Status); err != nil {
			httpapi.RespondError(c, err)
			return
		}
	}
	if req.Priority != "" {
		if p.Priority, err = domain.ParsePriority(req.Priority); err != nil {
			httpapi.RespondError(c, err)
			return
		}
	}

	created, err := h.projects.Create(c.Request.Context(), auth.UserID(c), p)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		status = &st
	}

	items, err := h.projects.List(c.Request.Context(), status)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateReq struct {
	Name        *string     `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string     `json:"description" binding:"omitempty,max=2000"`
	Status      *string     `json:"status"`
	Priority    *string     `json:"priority"`
	StartDate   *dates.Date `json:"start_date"`
	EndDate     *dates.Date `json:"end_date"`
	Budget      *int        `json:"budget" binding:"omitempty,min=0"`
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	patch := domain.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
	}
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		patch.Status = &st
	}
	if req.Priority != nil {
		pr, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		patch.Priority = &pr
	}

	p, err := h.projects.Update(c.Request.Context(), id, patch)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
