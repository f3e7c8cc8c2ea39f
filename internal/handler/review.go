package handler

import (
	"net/http"

	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct{ reviews *service.ReviewService }

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Generate(c *gin.Context) {
	r, err := h.reviews.Generate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewWeeklyReviewResponse(*r))
}

func (h *ReviewHandler) List(c *gin.Context) {
	rows, err := h.reviews.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]model.WeeklyReviewResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.NewWeeklyReviewResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) Latest(c *gin.Context) {
	r, err := h.reviews.Latest(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reviews yet"})
		return
	}
	c.JSON(http.StatusOK, model.NewWeeklyReviewResponse(*r))
}
