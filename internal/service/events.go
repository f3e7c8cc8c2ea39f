package service

import "context"

const (
	EventDailyLogUpserted = "daily_log.upserted"
	EventWarningCreated   = "warning.created"
)

// EventPublisher delivers domain events after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

func orNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

type DailyLogEvent struct {
	UserID          string `json:"user_id"`
	LogDate         string `json:"log_date"`
	DeepWorkMinutes int    `json:"deep_work_minutes"`
	GymCompleted    bool   `json:"gym_completed"`
	LearningMinutes int    `json:"learning_minutes"`
	AlcoholFree     bool   `json:"alcohol_free"`
	Created         bool   `json:"created"`
}

type WarningEvent struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	WarningType string `json:"warning_type"`
	Message     string `json:"message"`
}
