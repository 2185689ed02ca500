package domain

import (
	"time"

	dErrors "loandesk/pkg/domain-errors"
)

// LoanStatus is the lifecycle state of a loan application.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusRejected LoanStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusApproved || s == LoanStatusRejected
}

// Loan is a persisted loan application. Reason stays nil while pending.
type Loan struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Amount    float64    `json:"amount"`
	Duration  int        `json:"duration"`
	Status    LoanStatus `json:"status"`
	Reason    *string    `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewPendingLoan builds a loan in its initial pending state.
func NewPendingLoan(id, userID string, amount float64, duration int, now time.Time) (*Loan, error) {
	if id == "" || userID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "loan id and user id are required")
	}
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if !IsWholeCents(amount) {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must have at most two decimal places")
	}
	if duration <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "duration must be positive")
	}
	return &Loan{
		ID:        id,
		UserID:    userID,
		Amount:    amount,
		Duration:  duration,
		Status:    LoanStatusPending,
		CreatedAt: now,
	}, nil
}

// LoanDetails is a loan joined with its owner and the owner's KYC, if any.
type LoanDetails struct {
	Loan *Loan
	User *User
	KYC  *KYC
}

// LoanPage is one page of a user's loan history, newest first.
type LoanPage struct {
	Loans      []*Loan
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
