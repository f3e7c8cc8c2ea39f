package model

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateDailyLogRequest struct {
	DeepWorkMinutes int     `json:"deep_work_minutes" validate:"gte=0,lte=1440"`
	GymCompleted    bool    `json:"gym_completed"`
	LearningMinutes int     `json:"learning_minutes" validate:"gte=0,lte=1440"`
	AlcoholFree     bool    `json:"alcohol_free"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

type DailyLogResponse struct {
	ID              string    `json:"id"`
	LogDate         string    `json:"log_date"`
	DeepWorkMinutes int       `json:"deep_work_minutes"`
	GymCompleted    bool      `json:"gym_completed"`
	LearningMinutes int       `json:"learning_minutes"`
	AlcoholFree     bool      `json:"alcohol_free"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewDailyLogResponse(l DailyLog) DailyLogResponse {
	return DailyLogResponse{
		ID: l.ID, LogDate: FormatDate(l.LogDate),
		DeepWorkMinutes: l.DeepWorkMinutes, GymCompleted: l.GymCompleted,
		LearningMinutes: l.LearningMinutes, AlcoholFree: l.AlcoholFree,
		Notes: l.Notes, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

type StreakResponse struct {
	StreakType     StreakType `json:"streak_type"`
	CurrentCount   int        `json:"current_count"`
	LongestCount   int        `json:"longest_count"`
	LastLoggedDate *string    `json:"last_logged_date"`
}

type ExecutionScore struct {
	WeeklyDeepWorkMinutes int     `json:"weekly_deep_work_minutes"`
	WeeklyGymDays         int     `json:"weekly_gym_days"`
	WeeklyLearningMinutes int     `json:"weekly_learning_minutes"`
	WeeklySoberDays       int     `json:"weekly_sober_days"`
	OverallPercentage     float64 `json:"overall_percentage"`
}

type CreateGoalRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
}

type AbandonGoalRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type GoalResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	AbandonReason *string   `json:"abandon_reason,omitempty"`
	DaysRemaining int       `json:"days_remaining"`
	DaysElapsed   int       `json:"days_elapsed"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	GoalID      *string `json:"goal_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ProjectChangeRequestInput struct {
	ProposedProjectTitle       string `json:"proposed_project_title" validate:"required,max=255"`
	ProposedProjectDescription string `json:"proposed_project_description" validate:"max=4000"`
	Justification              string `json:"justification"`
	ReplaceProjectID           string `json:"replace_project_id" validate:"required,uuid"`
}

type ProjectChangeResponse struct {
	ID                   string    `json:"id"`
	ProposedProjectTitle string    `json:"proposed_project_title"`
	Justification        string    `json:"justification"`
	Status               string    `json:"status"`
	AIRecommendation     *string   `json:"ai_recommendation,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type WarningResponse struct {
	ID           string    `json:"id"`
	WarningType  string    `json:"warning_type"`
	Message      string    `json:"message"`
	TriggeredAt  time.Time `json:"triggered_at"`
	Acknowledged bool      `json:"acknowledged"`
}

type WeeklyReviewResponse struct {
	ID           string    `json:"id"`
	WeekStart    string    `json:"week_start"`
	WeekEnd      string    `json:"week_end"`
	WhatWorked   string    `json:"what_worked"`
	WhereAvoided string    `json:"where_avoided"`
	WhatToCut    string    `json:"what_to_cut"`
	AISummary    string    `json:"ai_summary"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func NewWeeklyReviewResponse(r WeeklyReview) WeeklyReviewResponse {
	return WeeklyReviewResponse{
		ID: r.ID, WeekStart: FormatDate(r.WeekStart), WeekEnd: FormatDate(r.WeekEnd),
		WhatWorked: r.WhatWorked, WhereAvoided: r.WhereAvoided, WhatToCut: r.WhatToCut,
		AISummary: r.AISummary, GeneratedAt: r.GeneratedAt,
	}
}

type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	DueDate     *string `json:"due_date,omitempty"`
}

type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	DueDate     string    `json:"due_date"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DashboardResponse struct {
	ActiveGoal     *GoalResponse         `json:"active_goal"`
	ActiveProjects []Project             `json:"active_projects"`
	Streaks        []StreakResponse      `json:"streaks"`
	ActiveWarnings []WarningResponse     `json:"active_warnings"`
	LatestReview   *WeeklyReviewResponse `json:"latest_review"`
	TodayLog       *DailyLogResponse     `json:"today_log"`
	Score          ExecutionScore        `json:"score"`
}

// WeeklyReviewContext is the input handed to the coach when generating a review.
type WeeklyReviewContext struct {
	GoalTitle        string
	GoalDayNumber    int
	ActiveProjects   []string
	DailyLogsSummary string
	DeepWorkStreak   int
	GymStreak        int
	LearningStreak   int
	SoberStreak      int
}
