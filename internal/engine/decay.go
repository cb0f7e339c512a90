package engine

import (
	"time"

	"github.com/brainbolt/backend/internal/models"
)

// ApplyInactivityDecay halves the streak and lowers confidence by one
// when the last answer is older than threshold. It fires at most once per
// idle period and reports whether it changed anything.
func ApplyInactivityDecay(s *models.AdaptiveState, now time.Time, threshold time.Duration) bool {
	if s.LastAnswerAt == nil || now.Sub(*s.LastAnswerAt) <= threshold {
		return false
	}
	if s.LastDecayAt != nil && !s.LastDecayAt.Before(*s.LastAnswerAt) {
		return false
	}

	s.Streak /= 2
	s.Confidence = max(models.MinConfidence, s.Confidence-1)
	at := now
	s.LastDecayAt = &at
	return true
}
