package service

import (
	"math"

	"execution-os/internal/model"
)

const (
	deepWorkTargetMinutes = 120
	learningTargetMinutes = 30
	daysPerWeek           = 7
)

// ComputeWeeklyScore aggregates one Monday-Sunday window. Missing days count
// as misses; the divisor is always seven.
func ComputeWeeklyScore(logs []model.DailyLog) model.ExecutionScore {
	var score model.ExecutionScore
	if len(logs) == 0 {
		return score
	}

	var deepHits, learnHits int
	for _, l := range logs {
		score.WeeklyDeepWorkMinutes += l.DeepWorkMinutes
		score.WeeklyLearningMinutes += l.LearningMinutes
		if l.GymCompleted {
			score.WeeklyGymDays++
		}
		if l.AlcoholFree {
			score.WeeklySoberDays++
		}
		if l.DeepWorkMinutes >= deepWorkTargetMinutes {
			deepHits++
		}
		if l.LearningMinutes >= learningTargetMinutes {
			learnHits++
		}
	}

	ratios := float64(deepHits)/daysPerWeek +
		float64(score.WeeklyGymDays)/daysPerWeek +
		float64(learnHits)/daysPerWeek +
		float64(score.WeeklySoberDays)/daysPerWeek
	score.OverallPercentage = math.Round(ratios/4*100*10) / 10
	return score
}
