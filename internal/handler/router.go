package handler

import (
	"net/http"

	"execution-os/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth      *AuthHandler
	Daily     *DailyHandler
	Dashboard *DashboardHandler
	Goal      *GoalHandler
	Project   *ProjectHandler
	Review    *ReviewHandler
	Warning   *WarningHandler
	Todo      *TodoHandler
}

func NewRouter(h Handlers, tokens *middleware.TokenIssuer, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Observe())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-New-Token", "X-Request-ID"},
		AllowCredentials: !containsWildcard(origins),
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/auth/register", h.Auth.Register)
	r.POST("/api/auth/login", h.Auth.Login)

	api := r.Group("/api", tokens.JWTAuth())
	api.GET("/auth/me", h.Auth.Me)

	api.POST("/daily-logs", h.Daily.Log)
	api.GET("/daily-logs", h.Daily.List)
	api.GET("/daily-logs/today", h.Daily.Today)
	api.GET("/daily-logs/streaks", h.Daily.Streaks)
	api.GET("/daily-logs/score", h.Daily.Score)

	api.GET("/dashboard", h.Dashboard.Get)

	api.POST("/goals", h.Goal.Create)
	api.GET("/goals", h.Goal.List)
	api.GET("/goals/active", h.Goal.Active)
	api.POST("/goals/:id/complete", h.Goal.Complete)
	api.POST("/goals/:id/abandon", h.Goal.Abandon)

	api.POST("/projects", h.Project.Create)
	api.GET("/projects", h.Project.List)
	api.GET("/projects/active", h.Project.Active)
	api.PUT("/projects/:id/status", h.Project.UpdateStatus)
	api.POST("/projects/change-requests", h.Project.SubmitChange)
	api.GET("/projects/change-requests", h.Project.ListChanges)
	api.POST("/projects/change-requests/:id/approve", h.Project.ApproveChange)
	api.POST("/projects/change-requests/:id/deny", h.Project.DenyChange)

	api.POST("/weekly-reviews", h.Review.Generate)
	api.GET("/weekly-reviews", h.Review.List)
	api.GET("/weekly-reviews/latest", h.Review.Latest)

	api.GET("/warnings", h.Warning.List)
	api.POST("/warnings/:id/acknowledge", h.Warning.Acknowledge)

	api.POST("/todos", h.Todo.Create)
	api.GET("/todos", h.Todo.List)
	api.PUT("/todos/:id", h.Todo.Update)
	api.DELETE("/todos/:id", h.Todo.Delete)

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
