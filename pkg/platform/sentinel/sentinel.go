package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: a uniqueness constraint rejected the write (email, KYC per user)
//   - ErrUnavailable: backing store or cache could not be reached
//
// Validation failures do not belong here; use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
