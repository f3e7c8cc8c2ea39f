package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/metrics"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

type Transition string

const (
	TransitionReset   Transition = "reset"
	TransitionNoop    Transition = "noop"
	TransitionExtend  Transition = "extend"
	TransitionRestart Transition = "restart"
)

// Achieved reports whether log counts toward the given streak kind.
func Achieved(kind model.StreakType, log model.DailyLog) bool {
	switch kind {
	case model.StreakDeepWork:
		return log.DeepWorkMinutes > 0
	case model.StreakGym:
		return log.GymCompleted
	case model.StreakLearning:
		return log.LearningMinutes > 0
	case model.StreakSober:
		return log.AlcoholFree
	}
	return false
}

// Advance applies one day's outcome to s. A missed day zeroes the run and
// still moves the watermark to logDate. A repeat of the watermark day while
// achieved changes nothing and returns TransitionNoop.
func Advance(s model.Streak, achieved bool, logDate, now time.Time) (model.Streak, Transition) {
	date := model.Day(logDate)

	if !achieved {
		s.CurrentCount = 0
		s.LastLoggedDate = &date
		s.UpdatedAt = now
		return s, TransitionReset
	}

	tr := TransitionRestart
	if s.LastLoggedDate != nil {
		last := model.Day(*s.LastLoggedDate)
		switch {
		case last.Equal(date):
			return s, TransitionNoop
		case last.AddDate(0, 0, 1).Equal(date):
			tr = TransitionExtend
		}
	}

	if tr == TransitionExtend {
		s.CurrentCount++
	} else {
		s.CurrentCount = 1
	}
	if s.CurrentCount > s.LongestCount {
		s.LongestCount = s.CurrentCount
	}
	s.LastLoggedDate = &date
	s.UpdatedAt = now
	return s, tr
}

type StreakService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{db: db, now: time.Now}
}

// ApplyLog advances all four counters for log through tx, creating missing
// counters on first use.
func (s *StreakService) ApplyLog(ctx context.Context, tx *gorm.DB, userID string, log model.DailyLog) error {
	tx = tx.WithContext(ctx)
	now := s.now().UTC()

	for _, kind := range model.StreakTypes {
		var cur model.Streak
		err := tx.Where("user_id = ? AND streak_type = ?", userID, kind).First(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cur = model.Streak{UserID: userID, StreakType: kind}
		} else if err != nil {
			return fmt.Errorf("load %s streak: %w", kind, err)
		}

		next, tr := Advance(cur, Achieved(kind, log), log.LogDate, now)
		metrics.RecordStreak(string(kind), string(tr))
		if tr == TransitionNoop {
			continue
		}
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("save %s streak: %w", kind, err)
		}
		logger.Debug("streak.advance", "uid", userID, "type", kind, "transition", tr, "current", next.CurrentCount)
	}
	return nil
}

// List returns one entry per kind in display order, zero-filled for kinds
// never logged.
func (s *StreakService) List(ctx context.Context, userID string) ([]model.StreakResponse, error) {
	var rows []model.Streak
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query streaks: %w", err)
	}
	byType := make(map[model.StreakType]model.Streak, len(rows))
	for _, r := range rows {
		byType[r.StreakType] = r
	}

	out := make([]model.StreakResponse, 0, len(model.StreakTypes))
	for _, kind := range model.StreakTypes {
		v := model.StreakResponse{StreakType: kind}
		if r, ok := byType[kind]; ok {
			v.CurrentCount = r.CurrentCount
			v.LongestCount = r.LongestCount
			if r.LastLoggedDate != nil {
				d := model.FormatDate(*r.LastLoggedDate)
				v.LastLoggedDate = &d
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Rebuild zeroes a user's counters and replays every stored log in date order.
func (s *StreakService) Rebuild(ctx context.Context, userID string) (int, error) {
	var replayed int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Streak{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"current_count":    0,
				"longest_count":    0,
				"last_logged_date": nil,
			}).Error
		if err != nil {
			return fmt.Errorf("reset streaks: %w", err)
		}

		var logs []model.DailyLog
		if err := tx.Where("user_id = ?", userID).Order("log_date").Find(&logs).Error; err != nil {
			return fmt.Errorf("query logs: %w", err)
		}
		for _, l := range logs {
			if err := s.ApplyLog(ctx, tx, userID, l); err != nil {
				return err
			}
		}
		replayed = len(logs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("streak.rebuild", "uid", userID, "logs", replayed)
	return replayed, nil
}
