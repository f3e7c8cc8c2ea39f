package handler

import (
	"net/http"

	"execution-os/internal/middleware"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type WarningHandler struct{ warnings *service.WarningService }

func NewWarningHandler(warnings *service.WarningService) *WarningHandler {
	return &WarningHandler{warnings: warnings}
}

func (h *WarningHandler) List(c *gin.Context) {
	out, err := h.warnings.ListActive(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *WarningHandler) Acknowledge(c *gin.Context) {
	if err := h.warnings.Acknowledge(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
