package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/metrics"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

const InactivityThresholdDays = 7

// InactivityScanner looks for users who stopped logging and active projects
// that no recent note mentions.
type InactivityScanner struct {
	db       *gorm.DB
	daily    *DailyService
	warnings *WarningService
	now      func() time.Time
}

func NewInactivityScanner(db *gorm.DB, daily *DailyService, warnings *WarningService) *InactivityScanner {
	return &InactivityScanner{db: db, daily: daily, warnings: warnings, now: time.Now}
}

// Run scans once immediately and then every interval until ctx is done.
func (s *InactivityScanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("scanner.start", "interval", interval.String())
	for {
		s.cycle(ctx)
		select {
		case <-ctx.Done():
			logger.Info("scanner.stop")
			return
		case <-ticker.C:
		}
	}
}

func (s *InactivityScanner) cycle(ctx context.Context) {
	start := time.Now()
	created, err := s.Scan(ctx, s.now())
	metrics.RecordScan(err, time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("scanner.cycle_failed", "err", err)
		return
	}
	logger.Info("scanner.cycle", "warnings", created, "took", time.Since(start).String())
}

// Scan runs one detection pass over every user and returns the number of
// warnings created.
func (s *InactivityScanner) Scan(ctx context.Context, now time.Time) (int, error) {
	var userIDs []string
	if err := s.db.WithContext(ctx).Model(&model.User{}).Pluck("id", &userIDs).Error; err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	for _, uid := range userIDs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.scanUser(ctx, uid, now)
		total += n
		if err != nil {
			return total, fmt.Errorf("scan user %s: %w", uid, err)
		}
	}
	return total, nil
}

func (s *InactivityScanner) scanUser(ctx context.Context, userID string, now time.Time) (int, error) {
	today := model.Day(now)
	cutoff := today.AddDate(0, 0, -InactivityThresholdDays)
	db := s.db.WithContext(ctx)
	var created int

	last, err := s.daily.Latest(ctx, userID)
	switch {
	case err != nil:
		return created, err
	case last == nil:
		ok, err := s.warnings.Emit(ctx, userID, model.WarningNoDailyLog, "", noLogMessage("never logged"))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	case model.Day(last.LogDate).Before(cutoff):
		days := int(today.Sub(model.Day(last.LogDate)).Hours() / 24)
		since := fmt.Sprintf("%d days since last log", days)
		ok, err := s.warnings.Emit(ctx, userID, model.WarningNoDailyLog, "", noLogMessage(since))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	var projects []model.Project
	if err := db.Where("user_id = ? AND status = ?", userID, model.ProjectActive).Find(&projects).Error; err != nil {
		return created, fmt.Errorf("query projects: %w", err)
	}
	if len(projects) == 0 {
		return created, nil
	}

	recent, err := s.daily.GetRange(ctx, userID, cutoff, today)
	if err != nil {
		return created, err
	}
	for _, p := range projects {
		if mentioned(recent, p.Title) {
			continue
		}
		ok, err := s.warnings.Emit(ctx, userID, model.WarningStaleProject, p.Title, staleProjectMessage(p.Title))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func mentioned(logs []model.DailyLog, title string) bool {
	for _, l := range logs {
		if l.Notes != nil && strings.Contains(*l.Notes, title) {
			return true
		}
	}
	return false
}

func noLogMessage(since string) string {
	return fmt.Sprintf("You haven't logged your daily execution in over %d days (%s). "+
		"Consistency is the only thing that compounds. Log today or acknowledge this warning.",
		InactivityThresholdDays, since)
}

func staleProjectMessage(title string) string {
	return fmt.Sprintf("Project '%s' has had no progress mentions in the last %d days. "+
		"Either work on it or drop it. Carrying dead projects is a form of self-deception.",
		title, InactivityThresholdDays)
}
