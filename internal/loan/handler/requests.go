package handler

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"loandesk/internal/domain"
	dErrors "loandesk/pkg/domain-errors"
)

const (
	maxNameLength = 100
	maxLoanAmount = 1_000_000
	maxDuration   = 360

	defaultPage  = 1
	defaultLimit = 10
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Validate implements httputil.Validatable.
func (r *CreateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email format")
	}
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "Full name is required")
	}
	if utf8.RuneCountInString(r.FullName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "Full name too long")
	}
	return nil
}

// SubmitKYCRequest is the body of POST /users/{id}/kyc.
type SubmitKYCRequest struct {
	Income   *float64 `json:"income"`
	Employer string   `json:"employer"`
}

func (r *SubmitKYCRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Income == nil || *r.Income <= 0 {
		return dErrors.New(dErrors.CodeValidation, "Income must be a positive number")
	}
	if !domain.IsWholeCents(*r.Income) {
		return dErrors.New(dErrors.CodeValidation, "Income must have at most two decimal places")
	}
	if r.Employer == "" {
		return dErrors.New(dErrors.CodeValidation, "Employer is required")
	}
	if utf8.RuneCountInString(r.Employer) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "Employer name too long")
	}
	return nil
}

// SubmitLoanRequest is the body of POST /loans.
type SubmitLoanRequest struct {
	UserID   string   `json:"userId"`
	Amount   *float64 `json:"amount"`
	Duration *float64 `json:"duration"`
}

func (r *SubmitLoanRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validateID(r.UserID, "Invalid user ID format"); err != nil {
		return err
	}
	switch {
	case r.Amount == nil || *r.Amount <= 0:
		return dErrors.New(dErrors.CodeValidation, "Amount must be a positive number")
	case *r.Amount > maxLoanAmount:
		return dErrors.New(dErrors.CodeValidation, "Amount too large")
	case !domain.IsWholeCents(*r.Amount):
		return dErrors.New(dErrors.CodeValidation, "Amount must have at most two decimal places")
	}
	switch {
	case r.Duration == nil:
		return dErrors.New(dErrors.CodeValidation, "Duration must be positive")
	case *r.Duration != math.Trunc(*r.Duration):
		return dErrors.New(dErrors.CodeValidation, "Duration must be an integer")
	case *r.Duration <= 0:
		return dErrors.New(dErrors.CodeValidation, "Duration must be positive")
	case *r.Duration > maxDuration:
		return dErrors.New(dErrors.CodeValidation, "Duration too long")
	}
	return nil
}

// ParsedDuration returns the validated duration in months.
func (r *SubmitLoanRequest) ParsedDuration() int {
	return int(*r.Duration)
}

func validateID(raw, message string) error {
	if _, err := uuid.Parse(raw); err != nil {
		return dErrors.New(dErrors.CodeValidation, message)
	}
	return nil
}

// parsePositive reads an optional positive integer query value.
func parsePositive(raw string, fallback int, message string) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, dErrors.New(dErrors.CodeValidation, message)
	}
	return n, nil
}
