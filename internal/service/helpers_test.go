package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"execution-os/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// monday is 2026-10-12.
var monday = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return monday.AddDate(0, 0, offset) }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Email: email, Name: email}
	require.NoError(t, db.Create(&u).Error)
	return u
}

type recordedEvent struct {
	key     string
	payload any
}

type fakePublisher struct{ events []recordedEvent }

func (f *fakePublisher) Publish(_ context.Context, key string, payload any) error {
	f.events = append(f.events, recordedEvent{key, payload})
	return nil
}

type stubCoach struct {
	review     string
	verdict    string
	err        error
	lastReview model.WeeklyReviewContext
	lastChange [3]string
}

func (s *stubCoach) GenerateWeeklyReview(_ context.Context, in model.WeeklyReviewContext) (string, error) {
	s.lastReview = in
	return s.review, s.err
}

func (s *stubCoach) EvaluateProjectChange(_ context.Context, proposed, justification, replacing string) (string, error) {
	s.lastChange = [3]string{proposed, justification, replacing}
	return s.verdict, s.err
}

func dayMetrics(deep int, gym bool, learn int, sober bool) model.CreateDailyLogRequest {
	return model.CreateDailyLogRequest{DeepWorkMinutes: deep, GymCompleted: gym, LearningMinutes: learn, AlcoholFree: sober}
}

func strptr(s string) *string { return &s }
