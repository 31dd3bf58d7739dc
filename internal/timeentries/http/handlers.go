package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/auth"
	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

type createReq struct {
	TaskID      int64      `json:"task_id" binding:"required,min=1"`
	UserID      string     `json:"user_id"`
	Description *string    `json:"description" binding:"omitempty,max=255"`
	Hours       int        `json:"hours" binding:"required,min=1,max=24"`
	Date        dates.Date `json:"date"`
	StartTime   *string    `json:"start_time" binding:"omitempty,hhmm"`
	EndTime     *string    `json:"end_time" binding:"omitempty,hhmm"`
	Billable    *bool      `json:"billable"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}

	e := domain.TimeEntry{
		TaskID:      req.TaskID,
		UserID:      req.UserID,
		Description: req.Description,
		Hours:       req.Hours,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Billable:    true,
	}
	if e.UserID == "" {
		e.UserID = auth.UserID(c)
	}
	if req.Billable != nil {
		e.Billable = *req.Billable
	}

	created, err := h.reconciler.Create(c.Request.Context(), e)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// filterFromQuery reads user_id, task_id, project_id, from, to and billable.
func filterFromQuery(c *gin.Context) (domain.Filter, error) {
	var (
		f   domain.Filter
		err error
	)
	if f.UserID, err = httpapi.QueryUUID(c, "user_id"); err != nil {
		return f, err
	}
	if f.TaskID, err = httpapi.QueryID(c, "task_id"); err != nil {
		return f, err
	}
	if f.ProjectID, err = httpapi.QueryID(c, "project_id"); err != nil {
		return f, err
	}
	if f.From, f.To, err = dateRange(c); err != nil {
		return f, err
	}
	if raw := c.Query("billable"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, apperr.Validation("invalid billable %q", raw)
		}
		f.Billable = &b
	}
	return f, nil
}

func dateRange(c *gin.Context) (*dates.Date, *dates.Date, error) {
	from, err := dates.ParseOptional(c.Query("from"))
	if err != nil {
		return nil, nil, apperr.Validation("%s", err.Error())
	}
	to, err := dates.ParseOptional(c.Query("to"))
	if err != nil {
		return nil, nil, apperr.Validation("%s", err.Error())
	}
	if from != nil && to != nil && to.Before(from.Time) {
		return nil, nil, apperr.Validation("to must not be before from")
	}
	return from, to, nil
}

func (h *Handler) list(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	items, err := h.reconciler.List(c.Request.Context(), f)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) billable(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	items, err := h.reports.Billable(c.Request.Context(), f)
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
	e, err := h.reconciler.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

type updateReq struct {
	TaskID      *int64      `json:"task_id" binding:"omitempty,min=1"`
	UserID      *string     `json:"user_id"`
	Description *string     `json:"description" binding:"omitempty,max=255"`
	Hours       *int        `json:"hours" binding:"omitempty,min=1,max=24"`
	Date        *dates.Date `json:"date"`
	StartTime   *string     `json:"start_time" binding:"omitempty,hhmm"`
	EndTime     *string     `json:"end_time" binding:"omitempty,hhmm"`
	Billable    *bool       `json:"billable"`
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

	e, err := h.reconciler.Update(c.Request.Context(), id, domain.UpdateEntryRequest{
		TaskID:      req.TaskID,
		UserID:      req.UserID,
		Description: req.Description,
		Hours:       req.Hours,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Billable:    req.Billable,
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.reconciler.Remove(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userTotals(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	s, err := h.reports.UserTotals(c.Request.Context(), c.Param("userId"), from, to)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) projectTotals(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "projectId")
	if !ok {
		return
	}
	from, to, err := dateRange(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	s, err := h.reports.ProjectTotals(c.Request.Context(), id, from, to)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) weeklyTimesheet(c *gin.Context) {
	start, err := dates.Parse(c.Query("week_start"))
	if err != nil {
		httpapi.RespondError(c, apperr.Validation("%s", err.Error()))
		return
	}
	ts, err := h.reports.WeeklyTimesheet(c.Request.Context(), c.Param("userId"), start)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}
