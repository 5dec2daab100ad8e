package app

import (
	"testing"

	"trivia-scoring/internal/domain"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{1, 1, 100},
		{0, 1, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 7, 71},
		{3, 7, 43},
		{13, 20, 65},
		{20, 20, 100},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.correct, tt.total); got != tt.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestTrackerCountsAnswers(t *testing.T) {
	tr := NewDailyTracker(domain.NewDailyStats("2024-01-01"), "2024-01-01")

	tr.OnAnswer(domain.DifficultyEasy, "science", true)
	tr.OnAnswer(domain.DifficultyHard, "science", false)
	tr.OnAnswer(domain.DifficultyHard, "", true)

	stats := tr.Stats()
	if stats.TotalQuestions != 3 || stats.CorrectAnswers != 2 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.CategoryCounts["science"] != 2 || len(stats.CategoryCounts) != 1 {
		t.Fatalf("unexpected categories %+v", stats.CategoryCounts)
	}
	if stats.DifficultyCounts["hard"] != 2 || stats.DifficultyCounts["easy"] != 1 {
		t.Fatalf("unexpected difficulties %+v", stats.DifficultyCounts)
	}
	if stats.Accuracy != 67 {
		t.Fatalf("expected accuracy 67, got %d", stats.Accuracy)
	}
}

func TestTrackerDailyResetIsIdempotent(t *testing.T) {
	tr := NewDailyTracker(domain.NewDailyStats("2024-01-01"), "2024-01-01")
	tr.OnAnswer(domain.DifficultyMedium, "history", true)

	if tr.CheckDailyReset("2024-01-01") {
		t.Fatalf("same day must not reset")
	}
	if !tr.CheckDailyReset("2024-01-02") {
		t.Fatalf("expected reset on new day")
	}
	if tr.CheckDailyReset("2024-01-02") {
		t.Fatalf("second check on the same day must be a no-op")
	}

	stats := tr.Stats()
	if stats.TotalQuestions != 0 || stats.CorrectAnswers != 0 || stats.Accuracy != 0 || len(stats.CategoryCounts) != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.Date != "2024-01-02" || tr.LastResetDay() != "2024-01-02" {
		t.Fatalf("expected new day stamped, got date=%s marker=%s", stats.Date, tr.LastResetDay())
	}
}

func TestTrackerStatsIsCopy(t *testing.T) {
	tr := NewDailyTracker(domain.DailyStats{}, "")
	tr.OnAnswer(domain.DifficultyEasy, "art", true)

	stats := tr.Stats()
	stats.CategoryCounts["art"] = 99

	if tr.Stats().CategoryCounts["art"] != 1 {
		t.Fatalf("expected tracker untouched by caller mutation")
	}
}
