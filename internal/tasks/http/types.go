package http

import "github.com/ranwip/pm-backend/internal/tasks/service"

type Handler struct {
	tasks *service.TaskService
}

func New(tasks *service.TaskService) *Handler {
	return &Handler{tasks: tasks}
}
