package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/auth"
	"github.com/ranwip/pm-backend/internal/comments/domain"
)

type createReq struct {
	Content         string           `json:"content" binding:"required,max=2000"`
	AuthorID        string           `json:"author_id"`
	TaskID          int64            `json:"task_id" binding:"required,min=1"`
	ParentCommentID *int64           `json:"parent_comment_id" binding:"omitempty,min=1"`
	Mentions        []string         `json:"mentions"`
	Reactions       domain.Reactions `json:"reactions"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return
	}
	if req.AuthorID == "" {
		req.AuthorID = auth.UserID(c)
	}

	created, err := h.svc.Create(c.Request.Context(), domain.Comment{
		Content:         req.Content,
		AuthorID:        req.AuthorID,
		TaskID:          req.TaskID,
		ParentCommentID: req.ParentCommentID,
		Mentions:        req.Mentions,
		Reactions:       req.Reactions,
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// list returns a task's thread when ?task= is given, otherwise every comment.
func (h *Handler) list(c *gin.Context) {
	taskID, err := httpapi.QueryID(c, "task")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	var items []domain.Comment
	if taskID != nil {
		items, err = h.svc.ListByTask(c.Request.Context(), *taskID)
	} else {
		items, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) stats(c *gin.Context) {
	taskID, err := httpapi.QueryID(c, "task")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	userID, err := httpapi.QueryUUID(c, "user")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	st, err := h.svc.Stats(c.Request.Context(), domain.Filter{
		TaskID:   taskID,
		AuthorID: userID,
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) mentions(c *gin.Context) {
	items, err := h.svc.FindWithMentions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) byUser(c *gin.Context) {
	items, err := h.svc.ListByUser(c.Request.Context(), c.Param("userId"))
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
	cm, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

type updateReq struct {
	Content  *string  `json:"content" binding:"omitempty,max=2000"`
	Mentions []string `json:"mentions"`
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
	cm, err := h.svc.Update(c.Request.Context(), id, domain.UpdateCommentRequest{
		Content:  req.Content,
		Mentions: req.Mentions,
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) replies(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.Replies(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type reactionReq struct {
	Emoji  string `json:"emoji" binding:"required"`
	UserID string `json:"user_id"`
}

// bindReaction reads the reaction body. user_id defaults to the caller.
func bindReaction(c *gin.Context) (int64, reactionReq, bool) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return 0, reactionReq{}, false
	}
	var req reactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBindError(c, err)
		return 0, req, false
	}
	if req.UserID == "" {
		req.UserID = auth.UserID(c)
	}
	return id, req, true
}

func (h *Handler) addReaction(c *gin.Context) {
	id, req, ok := bindReaction(c)
	if !ok {
		return
	}
	cm, err := h.svc.AddReaction(c.Request.Context(), id, req.Emoji, req.UserID)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *Handler) removeReaction(c *gin.Context) {
	id, req, ok := bindReaction(c)
	if !ok {
		return
	}
	cm, err := h.svc.RemoveReaction(c.Request.Context(), id, req.Emoji, req.UserID)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}
