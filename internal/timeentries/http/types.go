package http

import "github.com/ranwip/pm-backend/internal/timeentries/service"

type Handler struct {
	reconciler *service.Reconciler
	reports    *service.Reports
}

func New(reconciler *service.Reconciler, reports *service.Reports) *Handler {
	return &Handler{reconciler: reconciler, reports: reports}
}
