package domain

import (
	"time"

	dErrors "loandesk/pkg/domain-errors"
)

// KYC is the income and employer attestation a user submits once.
type KYC struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Income    float64   `json:"income"`
	Employer  string    `json:"employer"`
	CreatedAt time.Time `json:"created_at"`
}

// NewKYC validates invariants and builds a KYC record. The employer is kept
// as submitted; blank employers are a decision-time rejection, not a storage
// error.
func NewKYC(id, userID string, income float64, employer string, now time.Time) (*KYC, error) {
	if id == "" || userID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "kyc id and user id are required")
	}
	if income < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "income must not be negative")
	}
	if !IsWholeCents(income) {
		return nil, dErrors.New(dErrors.CodeValidation, "income must have at most two decimal places")
	}
	return &KYC{ID: id, UserID: userID, Income: income, Employer: employer, CreatedAt: now}, nil
}
