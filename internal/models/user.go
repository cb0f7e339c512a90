package models

type ErrorResponse struct {
	Error string `json:"error"`
}

type ConflictResponse struct {
	Error          string `json:"error"`
	CurrentVersion int64  `json:"current_version"`
}

type RateLimitedResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}
