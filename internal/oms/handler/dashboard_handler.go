package handler

import (
	"github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler manager dashboard endpoints
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary GET /manager/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, summary)
}

// Activity GET /manager/dashboard/activity
func (h *DashboardHandler) Activity(c *gin.Context) {
	limit := GetLimit(c, 50, 200)

	feed, err := h.svc.ActivityFeed(c.Request.Context(), limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, feed)
}
