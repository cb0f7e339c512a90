package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brainbolt/backend/internal/models"
)

func TestInactivityDecay(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	threshold := 30 * time.Minute

	s := models.NewAdaptiveState()
	assert.False(t, ApplyInactivityDecay(&s, base, threshold), "never answered")

	s.Streak, s.MaxStreak, s.Confidence = 7, 7, 5
	s.LastAnswerAt = &base

	assert.False(t, ApplyInactivityDecay(&s, base.Add(30*time.Minute), threshold), "exactly at threshold")
	assert.Equal(t, 7, s.Streak)

	assert.True(t, ApplyInactivityDecay(&s, base.Add(31*time.Minute), threshold))
	assert.Equal(t, 3, s.Streak)
	assert.Equal(t, 7, s.MaxStreak)
	assert.Equal(t, 4, s.Confidence)

	assert.False(t, ApplyInactivityDecay(&s, base.Add(2*time.Hour), threshold), "once per idle period")

	later := base.Add(3 * time.Hour)
	s.LastAnswerAt = &later
	s.Confidence = 0
	assert.True(t, ApplyInactivityDecay(&s, later.Add(time.Hour), threshold))
	assert.Equal(t, 1, s.Streak)
	assert.Zero(t, s.Confidence, "floored at zero")
}
