// Package scoring holds the pure reward rules for correct answers.
package scoring

import (
	"math"

	"trivia-scoring/internal/domain"
)

const (
	BasePoints = 100

	// TimeWindowMs is the nominal answer window; every full second left in it
	// is worth TimeBonusPerSecond points.
	TimeWindowMs       = 20000
	TimeBonusPerSecond = 5

	StreakStep       = 5
	StreakStepBonus  = 50
	MilestoneBonus   = 200
	LightningLimitMs = 5000
	QuickLimitMs     = 10000
)

// Speed categories.
const (
	SpeedLightning = "Lightning Fast"
	SpeedQuick     = "Quick"
	SpeedGood      = "Good"
)

// Reward is the point breakdown for one correct answer.
type Reward struct {
	NewStreak       int
	TimeBonus       int
	StreakBonus     int
	DifficultyBonus int
	BaseScore       int
	IsMilestone     bool
	SpeedCategory   string
	SpeedMultiplier float64
	PointsEarned    int
}

// TimeBonus rewards answers inside the nominal window and clamps at zero for
// slower ones.
func TimeBonus(responseTimeMs int) int {
	if responseTimeMs < 0 {
		responseTimeMs = 0
	}
	secondsLeft := (TimeWindowMs - responseTimeMs) / 1000
	if secondsLeft <= 0 {
		return 0
	}
	return secondsLeft * TimeBonusPerSecond
}

// StreakBonus awards a flat amount per completed block of five.
func StreakBonus(streak int) int {
	if streak <= 0 {
		return 0
	}
	return (streak / StreakStep) * StreakStepBonus
}

// DifficultyBonus maps a difficulty to its flat bonus.
func DifficultyBonus(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyEasy:
		return 0
	case domain.DifficultyHard:
		return 50
	default:
		return 25
	}
}

// IsMilestone reports whether streak is a positive multiple of five.
func IsMilestone(streak int) bool {
	return streak > 0 && streak%StreakStep == 0
}

// ClassifySpeed returns the speed label and multiplier for a latency.
// Both limits are inclusive for the Quick band.
func ClassifySpeed(responseTimeMs int) (string, float64) {
	switch {
	case responseTimeMs < LightningLimitMs:
		return SpeedLightning, 2.0
	case responseTimeMs <= QuickLimitMs:
		return SpeedQuick, 1.5
	default:
		return SpeedGood, 1.0
	}
}

// StreakLevel buckets a streak into levels 0..5.
func StreakLevel(streak int) int {
	switch {
	case streak <= 0:
		return 0
	case streak < 5:
		return 1
	case streak < 10:
		return 2
	case streak < 15:
		return 3
	case streak < 20:
		return 4
	default:
		return 5
	}
}

// CalculateReward computes the reward for a correct answer given the streak
// held before the answer.
func CalculateReward(streakBefore int, difficulty domain.Difficulty, responseTimeMs int) Reward {
	if streakBefore < 0 {
		streakBefore = 0
	}
	if responseTimeMs < 0 {
		responseTimeMs = 0
	}

	r := Reward{NewStreak: streakBefore + 1}
	r.TimeBonus = TimeBonus(responseTimeMs)
	r.StreakBonus = StreakBonus(r.NewStreak)
	r.DifficultyBonus = DifficultyBonus(difficulty)
	r.BaseScore = BasePoints + r.TimeBonus + r.StreakBonus + r.DifficultyBonus

	// milestone bonus goes in before the multiplier
	if IsMilestone(r.NewStreak) {
		r.IsMilestone = true
		r.BaseScore += MilestoneBonus
	}

	r.SpeedCategory, r.SpeedMultiplier = ClassifySpeed(responseTimeMs)
	r.PointsEarned = int(math.Round(float64(r.BaseScore) * r.SpeedMultiplier))
	return r
}
