package models

import "time"

const (
	MinConfidence     = 0
	MaxConfidence     = 10
	InitialConfidence = 5
	RecentOutcomesCap = 10
)

// AdaptiveState is the per-identity record mutated by answer processing.
// The version lives beside it in the state store.
type AdaptiveState struct {
	Difficulty      int        `json:"difficulty"`
	Confidence      int        `json:"confidence"`
	Streak          int        `json:"streak"`
	MaxStreak       int        `json:"max_streak"`
	TotalScore      float64    `json:"total_score"`
	AnswerCount     int        `json:"answer_count"`
	RecentOutcomes  []bool     `json:"recent_outcomes"`
	AnsweredItemIDs []string   `json:"answered_item_ids"`
	LastItemID      string     `json:"last_item_id,omitempty"`
	LastAnswerAt    *time.Time `json:"last_answer_at,omitempty"`
	LastDecayAt     *time.Time `json:"last_decay_at,omitempty"`
}

func NewAdaptiveState() AdaptiveState {
	return AdaptiveState{
		Difficulty: MinDifficulty,
		Confidence: InitialConfidence,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing a
// stored value.
func (s AdaptiveState) Clone() AdaptiveState {
	out := s
	out.RecentOutcomes = append([]bool(nil), s.RecentOutcomes...)
	out.AnsweredItemIDs = append([]string(nil), s.AnsweredItemIDs...)
	out.LastAnswerAt = cloneTime(s.LastAnswerAt)
	out.LastDecayAt = cloneTime(s.LastDecayAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Accuracy is the correct ratio over RecentOutcomes, 0 when empty.
func (s AdaptiveState) Accuracy() float64 {
	if len(s.RecentOutcomes) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range s.RecentOutcomes {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(s.RecentOutcomes))
}

// PushOutcome appends to RecentOutcomes, evicting the oldest past capacity.
func (s *AdaptiveState) PushOutcome(correct bool) {
	s.RecentOutcomes = append(s.RecentOutcomes, correct)
	if over := len(s.RecentOutcomes) - RecentOutcomesCap; over > 0 {
		s.RecentOutcomes = append([]bool(nil), s.RecentOutcomes[over:]...)
	}
}

func (s AdaptiveState) HasAnswered(itemID string) bool {
	for _, id := range s.AnsweredItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

func (s *AdaptiveState) MarkAnswered(itemID string) {
	if !s.HasAnswered(itemID) {
		s.AnsweredItemIDs = append(s.AnsweredItemIDs, itemID)
	}
}

// PublicState is the externally visible projection; confidence is omitted.
type PublicState struct {
	Difficulty    int     `json:"difficulty"`
	Streak        int     `json:"streak"`
	MaxStreak     int     `json:"max_streak"`
	TotalScore    float64 `json:"total_score"`
	Accuracy      float64 `json:"accuracy"`
	AnsweredCount int     `json:"answered_count"`
}

func (s AdaptiveState) Public() PublicState {
	return PublicState{
		Difficulty:    s.Difficulty,
		Streak:        s.Streak,
		MaxStreak:     s.MaxStreak,
		TotalScore:    s.TotalScore,
		Accuracy:      s.Accuracy(),
		AnsweredCount: len(s.AnsweredItemIDs),
	}
}
