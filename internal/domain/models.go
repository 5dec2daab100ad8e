package domain

import "strings"

// Difficulty is the question difficulty tier reported with an answer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes a raw difficulty label. Unknown or empty labels
// fall back to medium so an answer is never rejected for it.
func ParseDifficulty(raw string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(raw))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyMedium
	}
}

// NormalizeCategory folds a category name into the form used as a counter key.
// An empty result means the answer carries no category.
func NormalizeCategory(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// DefaultResponseTimeMs is assumed when an answer arrives without a timing.
const DefaultResponseTimeMs = 10000

// AnswerEvent is one answered question as reported by the UI.
type AnswerEvent struct {
	IsCorrect      bool       `json:"isCorrect"`
	Difficulty     Difficulty `json:"difficulty"`
	Category       string     `json:"category,omitempty"`
	ResponseTimeMs *int       `json:"responseTimeMs,omitempty"`
}

// ResponseTime returns the response latency in milliseconds, defaulted when
// absent and clamped at zero.
func (e AnswerEvent) ResponseTime() int {
	if e.ResponseTimeMs == nil {
		return DefaultResponseTimeMs
	}
	if *e.ResponseTimeMs < 0 {
		return 0
	}
	return *e.ResponseTimeMs
}

// ScoreState is the process-wide scoring state.
type ScoreState struct {
	DailyScore             int
	CurrentStreak          int
	HighestStreak          int
	TotalQuestionsAnswered int
	CorrectAnswers         int
	StreakLevel            int
}

// DailyStats aggregates answers for one calendar day.
type DailyStats struct {
	TotalQuestions   int            `json:"totalQuestions"`
	CorrectAnswers   int            `json:"correctAnswers"`
	CategoryCounts   map[string]int `json:"categoryCounts"`
	DifficultyCounts map[string]int `json:"difficultyCounts"`
	Date             string         `json:"date"`
	Accuracy         int            `json:"accuracy"`
}

// NewDailyStats returns zeroed stats stamped with day.
func NewDailyStats(day string) DailyStats {
	return DailyStats{
		CategoryCounts:   make(map[string]int),
		DifficultyCounts: make(map[string]int),
		Date:             day,
	}
}

// Clone returns a deep copy so callers cannot mutate engine-owned maps.
func (s DailyStats) Clone() DailyStats {
	out := s
	out.CategoryCounts = make(map[string]int, len(s.CategoryCounts))
	for k, v := range s.CategoryCounts {
		out.CategoryCounts[k] = v
	}
	out.DifficultyCounts = make(map[string]int, len(s.DifficultyCounts))
	for k, v := range s.DifficultyCounts {
		out.DifficultyCounts[k] = v
	}
	return out
}

// ScoreResult summarizes the outcome of one processed answer.
type ScoreResult struct {
	PointsEarned    int     `json:"pointsEarned"`
	NewScore        int     `json:"newScore"`
	NewStreak       int     `json:"newStreak"`
	StreakLevel     int     `json:"streakLevel"`
	IsMilestone     bool    `json:"isMilestone"`
	SpeedCategory   string  `json:"speedCategory,omitempty"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
	BaseScore       int     `json:"baseScore"`
}

// ScoreInfo is the display snapshot of the scoring state.
type ScoreInfo struct {
	DailyScore     int `json:"dailyScore"`
	CurrentStreak  int `json:"currentStreak"`
	HighestStreak  int `json:"highestStreak"`
	StreakLevel    int `json:"streakLevel"`
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
	Accuracy       int `json:"accuracy"`
	QuestionsToday int `json:"questionsToday"`
}

// TodayStats is the goal-tracking snapshot of the current day.
type TodayStats = DailyStats
