package decision

import (
	"context"
	"time"

	"loandesk/internal/domain"
)

// ApplicantStore loads the snapshot the rules run against. It returns
// sentinel.ErrNotFound (optionally wrapped) when the user does not exist.
type ApplicantStore interface {
	FindApplicant(ctx context.Context, userID string) (*domain.Applicant, error)
}

// Cache stores decisions by fingerprint with a per-entry TTL. A non-positive
// ttl must leave nothing cached for the key.
type Cache interface {
	Get(ctx context.Context, key string) (Decision, bool, error)
	Set(ctx context.Context, key string, d Decision, ttl time.Duration) error
}
