package service

import (
	"context"
	"testing"

	"execution-os/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceFirstAchievedDay(t *testing.T) {
	for _, kind := range model.StreakTypes {
		s, tr := Advance(model.Streak{StreakType: kind}, true, day(0), day(0))
		assert.Equal(t, TransitionRestart, tr)
		assert.Equal(t, 1, s.CurrentCount)
		assert.Equal(t, 1, s.LongestCount)
		require.NotNil(t, s.LastLoggedDate)
		assert.Equal(t, "2026-10-12", model.FormatDate(*s.LastLoggedDate))
	}
}

func TestAdvanceConsecutiveDays(t *testing.T) {
	var s model.Streak
	for i := 0; i < 3; i++ {
		s, _ = Advance(s, true, day(i), day(i))
	}
	assert.Equal(t, 3, s.CurrentCount)
	assert.Equal(t, 3, s.LongestCount)
}

func TestAdvanceMissResetsButKeepsLongest(t *testing.T) {
	var s model.Streak
	s, _ = Advance(s, true, day(0), day(0))
	s, _ = Advance(s, true, day(1), day(1))
	s, tr := Advance(s, false, day(2), day(2))

	assert.Equal(t, TransitionReset, tr)
	assert.Equal(t, 0, s.CurrentCount)
	assert.Equal(t, 2, s.LongestCount)
	assert.Equal(t, "2026-10-14", model.FormatDate(*s.LastLoggedDate))
}

func TestAdvanceSameDayIsNoop(t *testing.T) {
	s, _ := Advance(model.Streak{}, true, day(0), day(0))
	again, tr := Advance(s, true, day(0), day(0).Add(5))

	assert.Equal(t, TransitionNoop, tr)
	assert.Equal(t, s, again)
}

func TestAdvanceGapRestarts(t *testing.T) {
	var s model.Streak
	for i := 0; i < 4; i++ {
		s, _ = Advance(s, true, day(i), day(i))
	}
	s, tr := Advance(s, true, day(6), day(6))
	assert.Equal(t, TransitionRestart, tr)
	assert.Equal(t, 1, s.CurrentCount)
	assert.Equal(t, 4, s.LongestCount)

	for i := 7; i < 11; i++ {
		s, _ = Advance(s, true, day(i), day(i))
	}
	assert.Equal(t, 5, s.CurrentCount)
	assert.Equal(t, 5, s.LongestCount)
}

// A missed day still moves the watermark, so achieving on the same date
// afterwards is a no-op and the count stays at zero.
func TestAdvanceMissThenAchievedSameDayStaysZero(t *testing.T) {
	s, _ := Advance(model.Streak{}, true, day(0), day(0))
	s, _ = Advance(s, false, day(1), day(1))
	s, tr := Advance(s, true, day(1), day(1))

	assert.Equal(t, TransitionNoop, tr)
	assert.Equal(t, 0, s.CurrentCount)
	assert.Equal(t, 1, s.LongestCount)
}

// The day after a miss chains onto the miss's watermark.
func TestAdvanceMissThenNextDayCountsFromZero(t *testing.T) {
	s, _ := Advance(model.Streak{}, true, day(0), day(0))
	s, _ = Advance(s, false, day(1), day(1))
	s, tr := Advance(s, true, day(2), day(2))

	assert.Equal(t, TransitionExtend, tr)
	assert.Equal(t, 1, s.CurrentCount)
}

func TestAdvanceBackdatedRestarts(t *testing.T) {
	s, _ := Advance(model.Streak{}, true, day(5), day(5))
	s, tr := Advance(s, true, day(2), day(5))
	assert.Equal(t, TransitionRestart, tr)
	assert.Equal(t, 1, s.CurrentCount)
	assert.Equal(t, "2026-10-14", model.FormatDate(*s.LastLoggedDate))
}

func TestAchieved(t *testing.T) {
	l := model.DailyLog{DeepWorkMinutes: 1, GymCompleted: false, LearningMinutes: 0, AlcoholFree: true}
	assert.True(t, Achieved(model.StreakDeepWork, l))
	assert.False(t, Achieved(model.StreakGym, l))
	assert.False(t, Achieved(model.StreakLearning, l))
	assert.True(t, Achieved(model.StreakSober, l))
	assert.False(t, Achieved("Unknown", l))
}

func streakOf(t *testing.T, rows []model.StreakResponse, kind model.StreakType) model.StreakResponse {
	t.Helper()
	for _, r := range rows {
		if r.StreakType == kind {
			return r
		}
	}
	t.Fatalf("no %s streak", kind)
	return model.StreakResponse{}
}

func TestStreakListSynthesisesMissingKinds(t *testing.T) {
	db := newTestDB(t)
	svc := NewStreakService(db)

	rows, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, kind := range model.StreakTypes {
		assert.Equal(t, kind, rows[i].StreakType)
		assert.Zero(t, rows[i].CurrentCount)
		assert.Nil(t, rows[i].LastLoggedDate)
	}
}

func TestMonTueWedScenario(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	streaks := NewStreakService(db)
	daily := NewDailyService(db, streaks, nil)
	ctx := context.Background()

	_, err := daily.Upsert(ctx, u.ID, day(0), dayMetrics(150, true, 0, false))
	require.NoError(t, err)
	_, err = daily.Upsert(ctx, u.ID, day(1), dayMetrics(0, false, 0, false))
	require.NoError(t, err)
	_, err = daily.Upsert(ctx, u.ID, day(2), dayMetrics(130, true, 0, false))
	require.NoError(t, err)

	rows, err := streaks.List(ctx, u.ID)
	require.NoError(t, err)
	for _, kind := range []model.StreakType{model.StreakDeepWork, model.StreakGym} {
		s := streakOf(t, rows, kind)
		assert.Equal(t, 1, s.CurrentCount, kind)
		assert.Equal(t, 1, s.LongestCount, kind)
		require.NotNil(t, s.LastLoggedDate)
		assert.Equal(t, "2026-10-14", *s.LastLoggedDate)
	}
	learning := streakOf(t, rows, model.StreakLearning)
	assert.Equal(t, 0, learning.CurrentCount)
	assert.Equal(t, 0, learning.LongestCount)
}

func TestResubmitSameDayKeepsCounts(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	streaks := NewStreakService(db)
	daily := NewDailyService(db, streaks, nil)
	ctx := context.Background()

	_, err := daily.Upsert(ctx, u.ID, day(0), dayMetrics(60, true, 10, true))
	require.NoError(t, err)
	_, err = daily.Upsert(ctx, u.ID, day(1), dayMetrics(60, true, 10, true))
	require.NoError(t, err)
	_, err = daily.Upsert(ctx, u.ID, day(1), dayMetrics(240, true, 45, true))
	require.NoError(t, err)

	rows, err := streaks.List(ctx, u.ID)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, 2, r.CurrentCount, r.StreakType)
		assert.Equal(t, 2, r.LongestCount, r.StreakType)
	}
}

func TestRebuildReplaysInDateOrder(t *testing.T) {
	db := newTestDB(t)
	u := newUser(t, db, "a@example.com")
	streaks := NewStreakService(db)
	daily := NewDailyService(db, streaks, nil)
	ctx := context.Background()

	// Logged out of order: the live counters restart on the backdated day.
	for _, i := range []int{2, 0, 1} {
		_, err := daily.Upsert(ctx, u.ID, day(i), dayMetrics(30, true, 30, true))
		require.NoError(t, err)
	}
	rows, err := streaks.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streakOf(t, rows, model.StreakGym).CurrentCount)

	n, err := streaks.Rebuild(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err = streaks.List(ctx, u.ID)
	require.NoError(t, err)
	gym := streakOf(t, rows, model.StreakGym)
	assert.Equal(t, 3, gym.CurrentCount)
	assert.Equal(t, 3, gym.LongestCount)
	assert.Equal(t, "2026-10-14", *gym.LastLoggedDate)
}
