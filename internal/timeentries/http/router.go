package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/billable", h.billable)
	rg.GET("/reports/user/:userId/total", h.userTotals)
	rg.GET("/reports/project/:projectId/total", h.projectTotals)
	rg.GET("/timesheet/user/:userId/week", h.weeklyTimesheet)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}
