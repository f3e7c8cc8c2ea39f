package handler

import (
	"net/http"

	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct{ goals *service.GoalService }

func NewGoalHandler(goals *service.GoalService) *GoalHandler { return &GoalHandler{goals: goals} }

func (h *GoalHandler) Create(c *gin.Context) {
	var req model.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	g, err := h.goals.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) List(c *gin.Context) {
	out, err := h.goals.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *GoalHandler) Active(c *gin.Context) {
	g, err := h.goals.Active(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active goal"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Complete(c *gin.Context) {
	g, err := h.goals.Complete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Abandon(c *gin.Context) {
	var req model.AbandonGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	g, err := h.goals.Abandon(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
