package handler

import (
	"net/http"
	"slices"

	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type DailyHandler struct {
	daily   *service.DailyService
	streaks *service.StreakService
}

func NewDailyHandler(daily *service.DailyService, streaks *service.StreakService) *DailyHandler {
	return &DailyHandler{daily: daily, streaks: streaks}
}

// Log records today's metrics; resubmitting replaces them.
func (h *DailyHandler) Log(c *gin.Context) {
	var req model.CreateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	l, err := h.daily.LogToday(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewDailyLogResponse(*l))
}

func (h *DailyHandler) Today(c *gin.Context) {
	l, err := h.daily.GetByDate(c.Request.Context(), middleware.UserID(c), h.daily.Today())
	if err != nil {
		fail(c, err)
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no log for today"})
		return
	}
	c.JSON(http.StatusOK, model.NewDailyLogResponse(*l))
}

// List returns logs in [from, to], newest first. Both default to the last 30 days.
func (h *DailyHandler) List(c *gin.Context) {
	to := h.daily.Today()
	from := to.AddDate(0, 0, -29)
	if v := c.Query("from"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			badRequest(c, "from must be YYYY-MM-DD")
			return
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			badRequest(c, "to must be YYYY-MM-DD")
			return
		}
		to = d
	}

	logs, err := h.daily.GetRange(c.Request.Context(), middleware.UserID(c), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	slices.Reverse(logs)
	out := make([]model.DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, model.NewDailyLogResponse(l))
	}
	c.JSON(http.StatusOK, out)
}

func (h *DailyHandler) Streaks(c *gin.Context) {
	out, err := h.streaks.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DailyHandler) Score(c *gin.Context) {
	score, err := h.daily.WeekScore(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}
