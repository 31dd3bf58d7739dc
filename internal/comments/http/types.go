package http

import "github.com/ranwip/pm-backend/internal/comments/service"

type Handler struct {
	svc *service.CommentService
}

func New(svc *service.CommentService) *Handler {
	return &Handler{svc: svc}
}
