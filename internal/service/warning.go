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

// WarningDedupWindow is how long an emitted warning suppresses a repeat.
const WarningDedupWindow = 7 * 24 * time.Hour

type WarningService struct {
	db     *gorm.DB
	dedup  *Deduper
	events EventPublisher
	now    func() time.Time
}

func NewWarningService(db *gorm.DB, dedup *Deduper, events EventPublisher) *WarningService {
	return &WarningService{db: db, dedup: dedup, events: orNop(events), now: time.Now}
}

func (s *WarningService) Create(ctx context.Context, userID, kind, message string) (*model.InactivityWarning, error) {
	w := model.InactivityWarning{
		UserID:      userID,
		WarningType: kind,
		Message:     message,
		TriggeredAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, fmt.Errorf("insert warning: %w", err)
	}
	metrics.WarningsCreated.WithLabelValues(kind).Inc()
	logger.Info("warning.created", "uid", userID, "type", kind, "id", w.ID)

	evt := WarningEvent{ID: w.ID, UserID: userID, WarningType: kind, Message: message}
	if err := s.events.Publish(ctx, EventWarningCreated, evt); err != nil {
		logger.Warn("warning.publish_failed", "id", w.ID, "err", err)
	}
	return &w, nil
}

// Emit creates a warning unless one of the same kind (whose message contains
// subject, when given) was triggered within the dedup window.
func (s *WarningService) Emit(ctx context.Context, userID, kind, subject, message string) (bool, error) {
	if !s.dedup.AcquireOnce(ctx, userID, kind, subject) {
		return false, nil
	}
	exists, err := s.RecentExists(ctx, userID, kind, subject)
	if err != nil {
		s.dedup.Release(ctx, userID, kind, subject)
		return false, err
	}
	if exists {
		// The stored warning owns the window; the key must not extend it.
		s.dedup.Release(ctx, userID, kind, subject)
		return false, nil
	}
	if _, err := s.Create(ctx, userID, kind, message); err != nil {
		s.dedup.Release(ctx, userID, kind, subject)
		return false, err
	}
	return true, nil
}

// RecentExists reports whether a matching warning fired inside the dedup window.
func (s *WarningService) RecentExists(ctx context.Context, userID, kind, subject string) (bool, error) {
	since := s.now().UTC().Add(-WarningDedupWindow)
	var recent []model.InactivityWarning
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND warning_type = ? AND triggered_at > ?", userID, kind, since).
		Find(&recent).Error
	if err != nil {
		return false, fmt.Errorf("query recent warnings: %w", err)
	}
	for _, w := range recent {
		if subject == "" || strings.Contains(w.Message, subject) {
			return true, nil
		}
	}
	return false, nil
}

// ListActive returns unacknowledged warnings, newest first.
func (s *WarningService) ListActive(ctx context.Context, userID string) ([]model.WarningResponse, error) {
	var rows []model.InactivityWarning
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND acknowledged = ?", userID, false).
		Order("triggered_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	out := make([]model.WarningResponse, 0, len(rows))
	for _, w := range rows {
		out = append(out, model.WarningResponse{
			ID: w.ID, WarningType: w.WarningType, Message: w.Message,
			TriggeredAt: w.TriggeredAt, Acknowledged: w.Acknowledged,
		})
	}
	return out, nil
}

func (s *WarningService) Acknowledge(ctx context.Context, userID, id string) error {
	var w model.InactivityWarning
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("warning %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query warning: %w", err)
	}
	now := s.now().UTC()
	return s.db.WithContext(ctx).Model(&w).Updates(map[string]interface{}{
		"acknowledged":    true,
		"acknowledged_at": now,
	}).Error
}
