package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakType string

const (
	StreakDeepWork StreakType = "DeepWork"
	StreakGym      StreakType = "Gym"
	StreakLearning StreakType = "Learning"
	StreakSober    StreakType = "Sober"
)

// StreakTypes lists every tracked kind in display order.
var StreakTypes = []StreakType{StreakDeepWork, StreakGym, StreakLearning, StreakSober}

const (
	GoalActive    = "Active"
	GoalCompleted = "Completed"
	GoalAbandoned = "Abandoned"
)

const (
	ProjectActive    = "Active"
	ProjectPaused    = "Paused"
	ProjectCompleted = "Completed"
	ProjectDropped   = "Dropped"
)

const (
	ChangePending  = "Pending"
	ChangeApproved = "Approved"
	ChangeDenied   = "Denied"
)

const (
	TodoPending    = "Pending"
	TodoInProgress = "InProgress"
	TodoDone       = "Done"
)

// TodoCategories are the accepted todo categories; Personal is the default.
var TodoCategories = []string{"Work", "Personal", "Gym", "Learning", "Health", "Finance", "Social", "Other"}

const (
	WarningNoDailyLog   = "no_daily_log"
	WarningStaleProject = "stale_project"
)

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:255" json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Goal struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:char(36);index" json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `gorm:"size:16;default:Active" json:"status"`
	AbandonReason *string   `json:"abandon_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Project struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:char(36);index" json:"user_id"`
	GoalID      *string   `gorm:"type:char(36)" json:"goal_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `gorm:"size:16;default:Active" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectChangeRequest struct {
	ID                         string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID                     string     `gorm:"type:char(36);index" json:"user_id"`
	ProposedProjectTitle       string     `json:"proposed_project_title"`
	ProposedProjectDescription string     `json:"proposed_project_description"`
	Justification              string     `json:"justification"`
	ReplaceProjectID           *string    `gorm:"type:char(36)" json:"replace_project_id,omitempty"`
	Status                     string     `gorm:"size:16;default:Pending" json:"status"`
	AIRecommendation           *string    `json:"ai_recommendation,omitempty"`
	ReviewedAt                 *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
}

// DailyLog is one day of execution metrics. LogDate is a UTC calendar date.
type DailyLog struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          string    `gorm:"type:char(36);uniqueIndex:uk_user_date" json:"user_id"`
	LogDate         time.Time `gorm:"type:date;uniqueIndex:uk_user_date" json:"log_date"`
	DeepWorkMinutes int       `json:"deep_work_minutes"`
	GymCompleted    bool      `json:"gym_completed"`
	LearningMinutes int       `json:"learning_minutes"`
	AlcoholFree     bool      `json:"alcohol_free"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Streak counts consecutive achieved days for one metric. LastLoggedDate is
// the watermark used for gap detection; nil means never processed.
type Streak struct {
	ID             string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID         string     `gorm:"type:char(36);uniqueIndex:uk_user_streak" json:"user_id"`
	StreakType     StreakType `gorm:"size:16;uniqueIndex:uk_user_streak" json:"streak_type"`
	CurrentCount   int        `json:"current_count"`
	LongestCount   int        `json:"longest_count"`
	LastLoggedDate *time.Time `gorm:"type:date" json:"last_logged_date"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type InactivityWarning struct {
	ID             string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID         string     `gorm:"type:char(36);index" json:"user_id"`
	WarningType    string     `gorm:"size:32;index" json:"warning_type"`
	Message        string     `json:"message"`
	TriggeredAt    time.Time  `gorm:"index" json:"triggered_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

type WeeklyReview struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:char(36);index" json:"user_id"`
	WeekStart    time.Time `gorm:"type:date" json:"week_start"`
	WeekEnd      time.Time `gorm:"type:date" json:"week_end"`
	WhatWorked   string    `gorm:"type:text" json:"what_worked"`
	WhereAvoided string    `gorm:"type:text" json:"where_avoided"`
	WhatToCut    string    `gorm:"type:text" json:"what_to_cut"`
	AISummary    string    `gorm:"type:text" json:"ai_summary"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type TodoItem struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:char(36);index" json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    string    `gorm:"size:16" json:"category"`
	Status      string    `gorm:"size:16" json:"status"`
	DueDate     time.Time `gorm:"type:date;index" json:"due_date"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string                 { return "users" }
func (Goal) TableName() string                 { return "goals" }
func (Project) TableName() string              { return "projects" }
func (ProjectChangeRequest) TableName() string { return "project_change_requests" }
func (DailyLog) TableName() string             { return "daily_logs" }
func (Streak) TableName() string               { return "streaks" }
func (InactivityWarning) TableName() string    { return "inactivity_warnings" }
func (WeeklyReview) TableName() string         { return "weekly_reviews" }
func (TodoItem) TableName() string             { return "todo_items" }

func (u *User) BeforeCreate(*gorm.DB) error                 { u.ID = ensureID(u.ID); return nil }
func (g *Goal) BeforeCreate(*gorm.DB) error                 { g.ID = ensureID(g.ID); return nil }
func (p *Project) BeforeCreate(*gorm.DB) error              { p.ID = ensureID(p.ID); return nil }
func (r *ProjectChangeRequest) BeforeCreate(*gorm.DB) error { r.ID = ensureID(r.ID); return nil }
func (l *DailyLog) BeforeCreate(*gorm.DB) error             { l.ID = ensureID(l.ID); return nil }
func (s *Streak) BeforeCreate(*gorm.DB) error               { s.ID = ensureID(s.ID); return nil }
func (w *InactivityWarning) BeforeCreate(*gorm.DB) error    { w.ID = ensureID(w.ID); return nil }
func (r *WeeklyReview) BeforeCreate(*gorm.DB) error         { r.ID = ensureID(r.ID); return nil }
func (t *TodoItem) BeforeCreate(*gorm.DB) error             { t.ID = ensureID(t.ID); return nil }

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Goal{}, &Project{}, &ProjectChangeRequest{},
		&DailyLog{}, &Streak{}, &InactivityWarning{}, &WeeklyReview{}, &TodoItem{},
	}
}
