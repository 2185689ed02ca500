package models

import "time"

// RateLimitResult is the outcome of one limiter check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds; set only when not allowed
}

// RateLimitExceededResponse is the body of a 429 answer.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}
