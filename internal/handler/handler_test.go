package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() { gin.SetMode(gin.TestMode) }

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	tokens := middleware.NewTokenIssuer("test-secret", time.Hour)
	coach := service.NewAIService("http://unused", "", "m", time.Second)
	streaks := service.NewStreakService(db)
	daily := service.NewDailyService(db, streaks, nil)
	goals := service.NewGoalService(db)
	projects := service.NewProjectService(db, coach)
	warnings := service.NewWarningService(db, nil, nil)
	reviews := service.NewReviewService(db, daily, streaks, coach)

	r := NewRouter(Handlers{
		Auth:      NewAuthHandler(service.NewAuthService(db), tokens),
		Daily:     NewDailyHandler(daily, streaks),
		Dashboard: NewDashboardHandler(service.NewDashboardService(goals, projects, streaks, warnings, reviews, daily)),
		Goal:      NewGoalHandler(goals),
		Project:   NewProjectHandler(projects),
		Review:    NewReviewHandler(reviews),
		Warning:   NewWarningHandler(warnings),
		Todo:      NewTodoHandler(service.NewTodoService(db)),
	}, tokens, []string{"http://localhost:5173"})

	s := &testServer{router: r}
	w := s.do(t, http.MethodPost, "/api/auth/register", `{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth model.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	s.token = auth.Token
	return s
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode[model.AuthResponse](t, w).User.Email)

	w = s.do(t, http.MethodPost, "/api/auth/register", `{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.token = ""
	w = s.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDailyLogEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/daily-logs/today", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/daily-logs", `{"deep_work_minutes":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/daily-logs",
		`{"deep_work_minutes":150,"gym_completed":true,"learning_minutes":45,"alcohol_free":true,"notes":"Atlas sprint"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	logged := decode[model.DailyLogResponse](t, w)
	assert.Equal(t, 150, logged.DeepWorkMinutes)

	// Resubmitting replaces the day's values and keeps the same row.
	w = s.do(t, http.MethodPost, "/api/daily-logs", `{"deep_work_minutes":200,"gym_completed":true,"learning_minutes":45,"alcohol_free":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, logged.ID, decode[model.DailyLogResponse](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/daily-logs/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, decode[model.DailyLogResponse](t, w).DeepWorkMinutes)

	w = s.do(t, http.MethodGet, "/api/daily-logs/streaks", "")
	require.Equal(t, http.StatusOK, w.Code)
	streaks := decode[[]model.StreakResponse](t, w)
	require.Len(t, streaks, 4)
	for _, st := range streaks {
		assert.Equal(t, 1, st.CurrentCount, st.StreakType)
		assert.Equal(t, 1, st.LongestCount, st.StreakType)
	}

	w = s.do(t, http.MethodGet, "/api/daily-logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.DailyLogResponse](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/daily-logs?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/daily-logs?from=2026-10-20&to=2026-10-10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/daily-logs/score", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 14.3, decode[model.ExecutionScore](t, w).OverallPercentage)
}

func TestGoalAndProjectEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/goals/active", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/goals", `{"title":"Ship v1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := decode[model.GoalResponse](t, w)
	assert.Equal(t, 90, goal.DaysRemaining)

	w = s.do(t, http.MethodPost, "/api/goals", `{"title":"Another"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/projects", `{"title":"Atlas"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	atlas := decode[model.Project](t, w)
	w = s.do(t, http.MethodPost, "/api/projects", `{"title":"Orbit"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/projects", `{"title":"Third"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	body, _ := json.Marshal(model.ProjectChangeRequestInput{
		ProposedProjectTitle: "Nova",
		Justification:        strings.Repeat("paying customers asked ", 4),
		ReplaceProjectID:     atlas.ID,
	})
	w = s.do(t, http.MethodPost, "/api/projects/change-requests", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cr := decode[model.ProjectChangeResponse](t, w)
	require.NotNil(t, cr.AIRecommendation)
	assert.Equal(t, service.AINotConfigured, *cr.AIRecommendation)

	w = s.do(t, http.MethodPost, "/api/projects/change-requests/"+cr.ID+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nova", decode[model.Project](t, w).Title)

	w = s.do(t, http.MethodPost, "/api/projects/change-requests/"+cr.ID+"/deny", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/goals/"+goal.ID+"/abandon", `{"reason":"pivot"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.GoalAbandoned, decode[model.GoalResponse](t, w).Status)

	w = s.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[model.DashboardResponse](t, w)
	assert.Nil(t, dash.ActiveGoal)
	assert.Len(t, dash.ActiveProjects, 2)
}

func TestReviewWarningAndTodoEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/weekly-reviews/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/weekly-reviews", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[model.WeeklyReviewResponse](t, w)
	assert.Equal(t, service.AINotConfigured, review.AISummary)

	w = s.do(t, http.MethodGet, "/api/weekly-reviews", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.WeeklyReviewResponse](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/warnings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.WarningResponse](t, w))

	w = s.do(t, http.MethodPost, "/api/warnings/"+uuid.NewString()+"/acknowledge", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/todos", `{"title":"call bank","category":"finance"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	todo := decode[model.TodoResponse](t, w)
	assert.Equal(t, "Finance", todo.Category)

	w = s.do(t, http.MethodPut, "/api/todos/"+todo.ID, `{"status":"Done"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TodoDone, decode[model.TodoResponse](t, w).Status)

	w = s.do(t, http.MethodGet, "/api/todos?status=done", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.TodoResponse](t, w), 1)

	w = s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/todos/"+todo.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	w := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "execos_http_request_duration_seconds")
}
