package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

const GoalLengthDays = 90

type GoalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGoalService(db *gorm.DB) *GoalService { return &GoalService{db: db, now: time.Now} }

// Create starts a new 90-day goal; only one may be active at a time.
func (s *GoalService) Create(ctx context.Context, userID string, req model.CreateGoalRequest) (*model.GoalResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var out *model.GoalResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Goal{}).Where("user_id = ? AND status = ?", userID, model.GoalActive).Count(&n).Error; err != nil {
			return fmt.Errorf("count goals: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: an active 90-day goal already exists; complete or abandon it first", ErrConflict)
		}
		now := s.now().UTC()
		g := model.Goal{
			UserID: userID, Title: req.Title, Description: req.Description,
			StartDate: now, EndDate: now.AddDate(0, 0, GoalLengthDays), Status: model.GoalActive,
		}
		if err := tx.Create(&g).Error; err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
		resp := toGoalResponse(g, now)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("goal.created", "uid", userID, "goal", out.ID)
	return out, nil
}

// Active returns nil, nil when no goal is active.
func (s *GoalService) Active(ctx context.Context, userID string) (*model.GoalResponse, error) {
	var g model.Goal
	err := s.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, model.GoalActive).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}
	resp := toGoalResponse(g, s.now())
	return &resp, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]model.GoalResponse, error) {
	var goals []model.Goal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	now := s.now()
	out := make([]model.GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g, now))
	}
	return out, nil
}

func (s *GoalService) Complete(ctx context.Context, userID, goalID string) (*model.GoalResponse, error) {
	return s.finish(ctx, userID, goalID, model.GoalCompleted, nil)
}

func (s *GoalService) Abandon(ctx context.Context, userID, goalID string, req model.AbandonGoalRequest) (*model.GoalResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.finish(ctx, userID, goalID, model.GoalAbandoned, &req.Reason)
}

func (s *GoalService) finish(ctx context.Context, userID, goalID, status string, reason *string) (*model.GoalResponse, error) {
	var g model.Goal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", goalID, userID, model.GoalActive).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("active goal %s: %w", goalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}
	g.Status = status
	g.AbandonReason = reason
	if err := s.db.WithContext(ctx).Save(&g).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	logger.Info("goal.finished", "uid", userID, "goal", goalID, "status", status)
	resp := toGoalResponse(g, s.now())
	return &resp, nil
}

// toGoalResponse counts whole UTC calendar days relative to now.
func toGoalResponse(g model.Goal, now time.Time) model.GoalResponse {
	remaining := daysBetween(now, g.EndDate)
	if remaining < 0 {
		remaining = 0
	}
	return model.GoalResponse{
		ID: g.ID, Title: g.Title, Description: g.Description,
		StartDate: g.StartDate, EndDate: g.EndDate, Status: g.Status,
		AbandonReason: g.AbandonReason,
		DaysRemaining: remaining,
		DaysElapsed:   daysBetween(g.StartDate, now),
		CreatedAt:     g.CreatedAt,
	}
}

func daysBetween(from, to time.Time) int {
	return int(model.Day(to).Sub(model.Day(from)).Hours() / 24)
}
