package handler

import (
	"net/http"

	"execution-os/internal/middleware"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ dash *service.DashboardService }

func NewDashboardHandler(dash *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	out, err := h.dash.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
