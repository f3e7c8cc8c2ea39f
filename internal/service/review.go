package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

type ReviewSections struct {
	WhatWorked   string
	WhereAvoided string
	WhatToCut    string
}

var headingPrefix = regexp.MustCompile(`^[\s#*\-_>]*(\d+[.)]\s*)?[\s*_]*`)

var sectionHeadings = []struct {
	phrase  string
	section int
}{
	{"what worked", 1},
	{"where i avoided hard work", 2},
	{"where you avoided hard work", 2},
	{"where i avoided", 2},
	{"where you avoided", 2},
	{"what to cut", 3},
}

// sectionOf classifies a line. A heading is one of the known phrases followed
// by nothing but markup, or by ":" and inline content. Any other line is body
// text and yields section 0.
func sectionOf(line string) (int, string) {
	h := strings.TrimSpace(headingPrefix.ReplaceAllString(line, ""))
	for _, sh := range sectionHeadings {
		if len(h) < len(sh.phrase) || !strings.EqualFold(h[:len(sh.phrase)], sh.phrase) {
			continue
		}
		rest := h[len(sh.phrase):]
		marks := strings.TrimLeft(rest, "*_ \t")
		switch {
		case strings.Trim(marks, ":*_-# \t") == "":
			return sh.section, ""
		case strings.HasPrefix(marks, ":"):
			return sh.section, strings.TrimSpace(strings.TrimLeft(marks, ":*_ \t"))
		}
	}
	return 0, ""
}

// ParseWeeklyReview splits the coach's answer into its three headed sections.
// Text before the first heading is dropped; bullet markers are trimmed.
func ParseWeeklyReview(text string) ReviewSections {
	var parts [4][]string
	current := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if sec, inline := sectionOf(line); sec != 0 {
			current = sec
			if inline != "" {
				parts[current] = append(parts[current], inline)
			}
			continue
		}
		cleaned := strings.TrimSpace(strings.TrimLeft(line, "-* \t"))
		if cleaned == "" || current == 0 {
			continue
		}
		parts[current] = append(parts[current], cleaned)
	}
	return ReviewSections{
		WhatWorked:   strings.Join(parts[1], " "),
		WhereAvoided: strings.Join(parts[2], " "),
		WhatToCut:    strings.Join(parts[3], " "),
	}
}

type ReviewService struct {
	db      *gorm.DB
	daily   *DailyService
	streaks *StreakService
	coach   Coach
	now     func() time.Time
}

func NewReviewService(db *gorm.DB, daily *DailyService, streaks *StreakService, coach Coach) *ReviewService {
	return &ReviewService{db: db, daily: daily, streaks: streaks, coach: coach, now: time.Now}
}

// BuildContext gathers the week's data the coach is prompted with.
func (s *ReviewService) BuildContext(ctx context.Context, userID string, start, end time.Time) (model.WeeklyReviewContext, error) {
	in := model.WeeklyReviewContext{GoalTitle: "No active goal"}
	db := s.db.WithContext(ctx)

	var goal model.Goal
	err := db.Where("user_id = ? AND status = ?", userID, model.GoalActive).First(&goal).Error
	switch {
	case err == nil:
		in.GoalTitle = goal.Title
		in.GoalDayNumber = int(s.now().Sub(goal.StartDate).Hours() / 24)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return in, fmt.Errorf("query goal: %w", err)
	}

	var titles []string
	err = db.Model(&model.Project{}).
		Where("user_id = ? AND status = ?", userID, model.ProjectActive).
		Order("created_at").Pluck("title", &titles).Error
	if err != nil {
		return in, fmt.Errorf("query projects: %w", err)
	}
	in.ActiveProjects = titles

	if in.DailyLogsSummary, err = s.daily.WeekSummary(ctx, userID, start, end); err != nil {
		return in, err
	}

	streaks, err := s.streaks.List(ctx, userID)
	if err != nil {
		return in, err
	}
	for _, st := range streaks {
		switch st.StreakType {
		case model.StreakDeepWork:
			in.DeepWorkStreak = st.CurrentCount
		case model.StreakGym:
			in.GymStreak = st.CurrentCount
		case model.StreakLearning:
			in.LearningStreak = st.CurrentCount
		case model.StreakSober:
			in.SoberStreak = st.CurrentCount
		}
	}
	return in, nil
}

// Generate reviews the current Monday-Sunday week and stores the result.
func (s *ReviewService) Generate(ctx context.Context, userID string) (*model.WeeklyReview, error) {
	start, end := model.WeekBounds(s.now())
	in, err := s.BuildContext(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	text, err := s.coach.GenerateWeeklyReview(ctx, in)
	if err != nil {
		return nil, err
	}
	sections := ParseWeeklyReview(text)

	r := model.WeeklyReview{
		UserID:       userID,
		WeekStart:    start,
		WeekEnd:      end,
		WhatWorked:   sections.WhatWorked,
		WhereAvoided: sections.WhereAvoided,
		WhatToCut:    sections.WhatToCut,
		AISummary:    text,
		GeneratedAt:  s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	logger.Info("review.generated", "uid", userID, "week", model.FormatDate(start))
	return &r, nil
}

func (s *ReviewService) List(ctx context.Context, userID string) ([]model.WeeklyReview, error) {
	var out []model.WeeklyReview
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("generated_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	return out, nil
}

// Latest returns nil, nil when no review exists.
func (s *ReviewService) Latest(ctx context.Context, userID string) (*model.WeeklyReview, error) {
	var r model.WeeklyReview
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("generated_at DESC").First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}
	return &r, nil
}
