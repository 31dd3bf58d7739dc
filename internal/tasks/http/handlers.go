package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/auth"
	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/tasks/domain"
)

type createReq struct {
	Title          string      `json:"title" binding:"required,max=255"`
	Description    *string     `json:"description" binding:"omitempty,max=2000"`
	Status         string      `json:"status"`
	Priority       string      `json:"priority"`
	ProjectID      int64       `json:"project_id" binding:"required,min=1"`
	AssigneeID     *string     `json:"assignee_id"`
	ReporterID     string      `json:"reporter_id"`
	ParentTaskID   *int64      `json:"parent_task_id" binding:"omitempty,min=1"`
	DueDate        *dates.Date `json:"due_date"`
	EstimatedHours *int        `json:"estimated_hours" binding:"omitempty,min=1,max=200"`
	Tags           []string    `json:"tags"`
	StoryPoints    *int        `json:"story_points" binding:"omitempty,min=0"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	t := domain.Task{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		AssigneeID:     req.AssigneeID,
		ReporterID:     req.ReporterID,
		ParentTaskID:   req.ParentTaskID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		StoryPoints:    req.StoryPoints,
	}
	if t.ReporterID == "" {
		t.ReporterID = auth.UserID(c)
	}
	var err error
	if req.Status != "" {
		if t.Status, err = domain.ParseStatus(req.Status); err != nil {
			httpapi.RespondError(c, err)
			return
		}
	}
	if req.Priority != "" {
		if t.Priority, err = domain.ParsePriority(req.Priority); err != nil {
			httpapi.RespondError(c, err)
			return
		}
	}

	created, err := h.tasks.Create(c.Request.Context(), t)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	var (
		f   domain.ListFilter
		err error
	)
	if f.ProjectID, err = httpapi.QueryID(c, "project"); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if f.AssigneeID, err = httpapi.QueryUUID(c, "assignee"); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			httpapi.RespondError(c, err)
			return
		}
		f.Status = &st
	}

	items, err := h.tasks.List(c.Request.Context(), f)
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
	t, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateReq struct {
	Title          *string     `json:"title" binding:"omitempty,min=1,max=255"`
	Description    *string     `json:"description" binding:"omitempty,max=2000"`
	Status         *string     `json:"status"`
	Priority       *string     `json:"priority"`
	AssigneeID     *string     `json:"assignee_id"`
	ParentTaskID   *int64      `json:"parent_task_id" binding:"omitempty,min=1"`
	DueDate        *dates.Date `json:"due_date"`
	EstimatedHours *int        `json:"estimated_hours" binding:"omitempty,min=1,max=200"`
	Tags           []string    `json:"tags"`
	StoryPoints    *int        `json:"story_points" binding:"omitempty,min=0"`
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

	patch := domain.UpdateTaskRequest{
		Title:          req.Title,
		Description:    req.Description,
		ParentTaskID:   req.ParentTaskID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		StoryPoints:    req.StoryPoints,
	}
	// An empty assignee string unassigns the task.
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			patch.ClearAssignee = true
		} else {
			patch.AssigneeID = req.AssigneeID
		}
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

	t, err := h.tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type loggedHoursReq struct {
	Hours *int `json:"hours" binding:"required"`
}

// addLoggedHours applies a raw delta. Entry-driven reconciliation remains the
// source of truth for logged hours.
func (h *Handler) addLoggedHours(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req loggedHoursReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	t, err := h.tasks.AddLoggedHours(c.Request.Context(), id, *req.Hours)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
