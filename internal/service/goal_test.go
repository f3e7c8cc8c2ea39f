package service

import (
	"context"
	"testing"
	"time"

	"execution-os/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalLifecycle(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	ctx := context.Background()
	svc := NewGoalService(db)
	svc.now = fixedClock(day(0).Add(9 * time.Hour))

	g, err := svc.Create(ctx, u.ID, model.CreateGoalRequest{Title: "Ship v1"})
	require.NoError(t, err)
	assert.Equal(t, model.GoalActive, g.Status)
	assert.Equal(t, GoalLengthDays, g.DaysRemaining)
	assert.Zero(t, g.DaysElapsed)

	_, err = svc.Create(ctx, u.ID, model.CreateGoalRequest{Title: "Second"})
	assert.ErrorIs(t, err, ErrConflict)

	svc.now = fixedClock(day(30).Add(9 * time.Hour))
	active, err := svc.Active(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 30, active.DaysElapsed)
	assert.Equal(t, 60, active.DaysRemaining)

	_, err = svc.Abandon(ctx, u.ID, g.ID, model.AbandonGoalRequest{})
	assert.ErrorIs(t, err, ErrInvalid)

	done, err := svc.Abandon(ctx, u.ID, g.ID, model.AbandonGoalRequest{Reason: "wrong market"})
	require.NoError(t, err)
	assert.Equal(t, model.GoalAbandoned, done.Status)
	require.NotNil(t, done.AbandonReason)
	assert.Equal(t, "wrong market", *done.AbandonReason)

	_, err = svc.Complete(ctx, u.ID, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	active, err = svc.Active(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = svc.Create(ctx, u.ID, model.CreateGoalRequest{Title: "Ship v2"})
	require.NoError(t, err)
	all, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGoalDaysRemainingFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	svc := NewGoalService(db)
	svc.now = fixedClock(day(0))
	g, err := svc.Create(context.Background(), u.ID, model.CreateGoalRequest{Title: "g"})
	require.NoError(t, err)

	svc.now = fixedClock(day(120))
	got, err := svc.Complete(context.Background(), u.ID, g.ID)
	require.NoError(t, err)
	assert.Zero(t, got.DaysRemaining)
	assert.Equal(t, 120, got.DaysElapsed)
}

// tickingClock advances by step on every read.
func tickingClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestGoalCreateReportsFullWindow(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	svc := NewGoalService(db)
	svc.now = tickingClock(day(0).Add(12*time.Hour), time.Second)

	g, err := svc.Create(context.Background(), u.ID, model.CreateGoalRequest{Title: "Ship v1"})
	require.NoError(t, err)
	assert.Equal(t, GoalLengthDays, g.DaysRemaining)
	assert.Zero(t, g.DaysElapsed)

	active, err := svc.Active(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, GoalLengthDays, active.DaysRemaining)
}

func TestGoalDaysCountCalendarDays(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	svc := NewGoalService(db)
	svc.now = fixedClock(day(1).Add(-time.Second))

	_, err := svc.Create(context.Background(), u.ID, model.CreateGoalRequest{Title: "late start"})
	require.NoError(t, err)

	svc.now = fixedClock(day(1).Add(time.Second))
	active, err := svc.Active(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, active.DaysElapsed)
	assert.Equal(t, GoalLengthDays-1, active.DaysRemaining)
}
