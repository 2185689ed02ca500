// Package store persists users, KYC records and loan applications.
//
// Both implementations return sentinel errors wrapped with context:
// sentinel.ErrNotFound for missing rows and sentinel.ErrConflict for
// uniqueness violations (duplicate email, second KYC for a user).
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"loandesk/internal/domain"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by Migrate.
func Schema() string { return schema }

// Migrate creates the tables and indexes if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func copyLoan(l *domain.Loan) *domain.Loan {
	if l == nil {
		return nil
	}
	c := *l
	if l.Reason != nil {
		reason := *l.Reason
		c.Reason = &reason
	}
	return &c
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyKYC(k *domain.KYC) *domain.KYC {
	if k == nil {
		return nil
	}
	c := *k
	return &c
}
