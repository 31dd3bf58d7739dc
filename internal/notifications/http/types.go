package http

import "github.com/ranwip/pm-backend/internal/notifications/service"

type Handler struct {
	svc *service.NotificationService
}

func New(svc *service.NotificationService) *Handler {
	return &Handler{svc: svc}
}
