package domain

import (
	"strings"
	"time"

	dErrors "loandesk/pkg/domain-errors"
)

// User is a loan applicant account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser validates invariants and builds a User.
func NewUser(id, email, fullName string, now time.Time) (*User, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	return &User{ID: id, Email: email, FullName: fullName, CreatedAt: now}, nil
}
