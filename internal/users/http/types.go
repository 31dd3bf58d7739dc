package http

import "github.com/ranwip/pm-backend/internal/users/service"

type Handler struct {
	users *service.UserService
}

func New(users *service.UserService) *Handler {
	return &Handler{users: users}
}
