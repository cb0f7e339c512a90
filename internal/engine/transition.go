package engine

import (
	"math"

	"github.com/brainbolt/backend/internal/models"
)

const (
	raiseThreshold  = 7
	lowerThreshold  = 3
	correctStep     = 1
	incorrectStep   = 2
	pointsPerLevel  = 10.0
	streakBonusStep = 0.25
	maxStreakBonus  = 4.0
	minAccuracy     = 0.1
)

// ApplyAnswer runs the hysteresis transition for one answer and returns
// the next state and the score earned. s is not modified.
func ApplyAnswer(s models.AdaptiveState, correct bool) (models.AdaptiveState, float64) {
	next := s.Clone()

	if !correct {
		next.Streak = 0
		next.Confidence = max(models.MinConfidence, next.Confidence-incorrectStep)
		if next.Confidence <= lowerThreshold {
			next.Difficulty = max(models.MinDifficulty, next.Difficulty-1)
			next.Confidence = models.InitialConfidence
		}
		next.PushOutcome(false)
		return next, 0
	}

	next.Streak++
	next.MaxStreak = max(next.MaxStreak, next.Streak)
	next.Confidence = min(models.MaxConfidence, next.Confidence+correctStep)
	if next.Confidence >= raiseThreshold {
		next.Difficulty = min(models.MaxDifficulty, next.Difficulty+1)
		next.Confidence = models.InitialConfidence
	}
	// Counted before scoring so the answer contributes to its own factor.
	next.PushOutcome(true)

	delta := ScoreDelta(next.Difficulty, next.Streak, next.Accuracy())
	next.TotalScore += delta
	return next, delta
}

// ScoreDelta is difficulty*10 scaled by the streak multiplier (capped at
// 4x) and the rolling accuracy (floored at 0.1).
func ScoreDelta(difficulty, streak int, accuracy float64) float64 {
	base := float64(difficulty) * pointsPerLevel
	return base * StreakMultiplier(streak) * math.Max(minAccuracy, accuracy)
}

func StreakMultiplier(streak int) float64 {
	return math.Min(maxStreakBonus, 1.0+float64(streak)*streakBonusStep)
}
