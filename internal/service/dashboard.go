package service

import (
	"context"

	"execution-os/internal/model"
)

type DashboardService struct {
	goals    *GoalService
	projects *ProjectService
	streaks  *StreakService
	warnings *WarningService
	reviews  *ReviewService
	daily    *DailyService
}

func NewDashboardService(goals *GoalService, projects *ProjectService, streaks *StreakService,
	warnings *WarningService, reviews *ReviewService, daily *DailyService) *DashboardService {
	return &DashboardService{goals: goals, projects: projects, streaks: streaks, warnings: warnings, reviews: reviews, daily: daily}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (*model.DashboardResponse, error) {
	var (
		out model.DashboardResponse
		err error
	)
	if out.ActiveGoal, err = s.goals.Active(ctx, userID); err != nil {
		return nil, err
	}
	if out.ActiveProjects, err = s.projects.Active(ctx, userID); err != nil {
		return nil, err
	}
	if out.Streaks, err = s.streaks.List(ctx, userID); err != nil {
		return nil, err
	}
	if out.ActiveWarnings, err = s.warnings.ListActive(ctx, userID); err != nil {
		return nil, err
	}

	review, err := s.reviews.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if review != nil {
		r := model.NewWeeklyReviewResponse(*review)
		out.LatestReview = &r
	}

	today, err := s.daily.GetByDate(ctx, userID, s.daily.Today())
	if err != nil {
		return nil, err
	}
	if today != nil {
		l := model.NewDailyLogResponse(*today)
		out.TodayLog = &l
	}

	if out.Score, err = s.daily.WeekScore(ctx, userID); err != nil {
		return nil, err
	}
	return &out, nil
}
