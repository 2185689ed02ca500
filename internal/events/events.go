// Package events publishes loan lifecycle events to Kafka.
//
// Publishing is best-effort: a loan decision is already persisted when its
// event is emitted, so delivery failures are logged and counted but never
// surface to the caller.
package events

import (
	"context"
	"time"
)

// TypeLoanDecided identifies a loan decision event in the record headers.
const TypeLoanDecided = "loan.decided"

// LoanDecided is emitted once per loan when it reaches a terminal status.
type LoanDecided struct {
	LoanID    string    `json:"loan_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Duration  int       `json:"duration"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	DecidedAt time.Time `json:"decided_at"`
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishLoanDecided(context.Context, LoanDecided) error {
	return nil
}
