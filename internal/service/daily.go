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
	"gorm.io/gorm/clause"
)

type DailyService struct {
	db      *gorm.DB
	streaks *StreakService
	events  EventPublisher
	now     func() time.Time
}

func NewDailyService(db *gorm.DB, streaks *StreakService, events EventPublisher) *DailyService {
	return &DailyService{db: db, streaks: streaks, events: orNop(events), now: time.Now}
}

func (s *DailyService) Today() time.Time { return model.Day(s.now()) }

// LogToday records the metrics for the current UTC date.
func (s *DailyService) LogToday(ctx context.Context, userID string, req model.CreateDailyLogRequest) (*model.DailyLog, error) {
	return s.Upsert(ctx, userID, s.Today(), req)
}

// Upsert writes the log for (userID, date) and advances the streaks in the
// same transaction. A second write for the same date replaces the metrics in
// place, keeping ID and CreatedAt.
func (s *DailyService) Upsert(ctx context.Context, userID string, date time.Time, req model.CreateDailyLogRequest) (*model.DailyLog, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	date = model.Day(date)

	var (
		saved   model.DailyLog
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND log_date = ?", userID, date).First(&saved).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = model.DailyLog{UserID: userID, LogDate: date}
			created = true
		case err != nil:
			return fmt.Errorf("query log: %w", err)
		}

		saved.DeepWorkMinutes = req.DeepWorkMinutes
		saved.GymCompleted = req.GymCompleted
		saved.LearningMinutes = req.LearningMinutes
		saved.AlcoholFree = req.AlcoholFree
		saved.Notes = req.Notes
		if created {
			if created, err = insertLog(tx, &saved); err != nil {
				return err
			}
		} else if err := tx.Save(&saved).Error; err != nil {
			return fmt.Errorf("save log: %w", err)
		}
		return s.streaks.ApplyLog(ctx, tx, userID, saved)
	})
	if err != nil {
		return nil, err
	}

	op := "updated"
	if created {
		op = "created"
	}
	metrics.DailyLogsUpserted.WithLabelValues(op).Inc()
	logger.Info("daily.upsert", "uid", userID, "date", model.FormatDate(date), "op", op)

	evt := DailyLogEvent{
		UserID: userID, LogDate: model.FormatDate(date),
		DeepWorkMinutes: saved.DeepWorkMinutes, GymCompleted: saved.GymCompleted,
		LearningMinutes: saved.LearningMinutes, AlcoholFree: saved.AlcoholFree,
		Created: created,
	}
	if err := s.events.Publish(ctx, EventDailyLogUpserted, evt); err != nil {
		logger.Warn("daily.publish_failed", "uid", userID, "err", err)
	}
	return &saved, nil
}

// insertLog inserts l, or updates the metrics of a row another writer stored
// for the same (user, date) in the meantime. l is reloaded from the table and
// created reports whether this call produced the row.
func insertLog(tx *gorm.DB, l *model.DailyLog) (bool, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"deep_work_minutes", "gym_completed", "learning_minutes", "alcohol_free", "notes", "updated_at",
		}),
	}).Create(l).Error
	if err != nil {
		return false, fmt.Errorf("insert log: %w", err)
	}
	var row model.DailyLog
	if err := tx.Where("user_id = ? AND log_date = ?", l.UserID, l.LogDate).First(&row).Error; err != nil {
		return false, fmt.Errorf("reload log: %w", err)
	}
	created := row.ID == l.ID
	*l = row
	return created, nil
}

// GetByDate returns nil, nil when no log exists for that date.
func (s *DailyService) GetByDate(ctx context.Context, userID string, date time.Time) (*model.DailyLog, error) {
	var l model.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, model.Day(date)).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	return &l, nil
}

// GetRange returns logs with from <= date <= to, oldest first.
func (s *DailyService) GetRange(ctx context.Context, userID string, from, to time.Time) ([]model.DailyLog, error) {
	from, to = model.Day(from), model.Day(to)
	if from.After(to) {
		return nil, invalidf("from %s is after to %s", model.FormatDate(from), model.FormatDate(to))
	}
	var logs []model.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, from, to).
		Order("log_date").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	return logs, nil
}

// Latest returns the most recent log, or nil when the user never logged.
func (s *DailyService) Latest(ctx context.Context, userID string) (*model.DailyLog, error) {
	var l model.DailyLog
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("log_date DESC").First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	return &l, nil
}

// WeekScore scores the Monday-Sunday week containing today.
func (s *DailyService) WeekScore(ctx context.Context, userID string) (model.ExecutionScore, error) {
	start, end := model.WeekBounds(s.Today())
	logs, err := s.GetRange(ctx, userID, start, end)
	if err != nil {
		return model.ExecutionScore{}, err
	}
	return ComputeWeeklyScore(logs), nil
}

// WeekSummary renders one line per logged day for prompt context.
func (s *DailyService) WeekSummary(ctx context.Context, userID string, start, end time.Time) (string, error) {
	logs, err := s.GetRange(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		return "No daily logs recorded this week.", nil
	}
	var sb strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&sb, "[%s] DeepWork: %dmin, Gym: %s, Learning: %dmin, Sober: %s",
			model.FormatDate(l.LogDate), l.DeepWorkMinutes, yesNo(l.GymCompleted),
			l.LearningMinutes, yesNo(l.AlcoholFree))
		if l.Notes != nil && *l.Notes != "" {
			fmt.Fprintf(&sb, ", Notes: %s", *l.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
