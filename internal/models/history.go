package models

// AnswerResult is the payload produced by a committed submission and
// replayed verbatim for a repeated idempotency key.
type AnswerResult struct {
	Correct            bool        `json:"correct"`
	CorrectChoiceIndex int         `json:"correct_choice_index"`
	ScoreDelta         float64     `json:"score_delta"`
	State              PublicState `json:"state"`
	Version            int64       `json:"version"`
}

// SubmitOutcome wraps a result with the replay flag. RateRemaining is
// the quota left after admission, or -1 when admission was not consulted.
type SubmitOutcome struct {
	Result        AnswerResult
	Idempotent    bool
	RateRemaining int
}

type SubmitAnswerRequest struct {
	ItemID          string `json:"item_id"`
	ChoiceIndex     *int   `json:"choice_index"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	IdempotencyKey  string `json:"idempotency_key,omitempty"`
}

type SubmitAnswerResponse struct {
	AnswerResult
	Idempotent bool `json:"idempotent"`
}

type NextItemResponse struct {
	Item    PublicItem  `json:"item"`
	State   PublicState `json:"state"`
	Version int64       `json:"version"`
}
