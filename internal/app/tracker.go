package app

import (
	"math"

	"trivia-scoring/internal/domain"
)

// DailyTracker keeps the per-day answer aggregates and the marker of the
// day they belong to.
type DailyTracker struct {
	stats        domain.DailyStats
	lastResetDay string
}

// NewDailyTracker returns a tracker holding stats last reset on lastResetDay.
func NewDailyTracker(stats domain.DailyStats, lastResetDay string) *DailyTracker {
	if stats.CategoryCounts == nil {
		stats.CategoryCounts = make(map[string]int)
	}
	if stats.DifficultyCounts == nil {
		stats.DifficultyCounts = make(map[string]int)
	}
	stats.Accuracy = Accuracy(stats.CorrectAnswers, stats.TotalQuestions)
	return &DailyTracker{stats: stats, lastResetDay: lastResetDay}
}

// OnAnswer counts one answer. category must already be normalized; empty
// means the answer has none.
func (t *DailyTracker) OnAnswer(difficulty domain.Difficulty, category string, correct bool) {
	t.stats.TotalQuestions++
	if correct {
		t.stats.CorrectAnswers++
	}
	if category != "" {
		t.stats.CategoryCounts[category]++
	}
	t.stats.DifficultyCounts[string(difficulty)]++
	t.stats.Accuracy = Accuracy(t.stats.CorrectAnswers, t.stats.TotalQuestions)
}

// CheckDailyReset zeroes the aggregates when today differs from the stored
// marker and reports whether it did.
func (t *DailyTracker) CheckDailyReset(today string) bool {
	if t.lastResetDay == today {
		return false
	}
	t.Reset(today)
	return true
}

// Reset zeroes the aggregates and stamps day as the new marker.
func (t *DailyTracker) Reset(day string) {
	t.stats = domain.NewDailyStats(day)
	t.lastResetDay = day
}

// Stats returns a copy of the current aggregates.
func (t *DailyTracker) Stats() domain.DailyStats {
	return t.stats.Clone()
}

// LastResetDay returns the day marker.
func (t *DailyTracker) LastResetDay() string {
	return t.lastResetDay
}

// Accuracy is the rounded percentage of correct answers, 0 for no answers.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
