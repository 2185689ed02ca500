package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"loandesk/internal/domain"
	"loandesk/pkg/platform/sentinel"
)

const (
	uniqueViolation = "23505"
	invalidTextRepr = "22P02"
)

// Postgres persists loans, users and KYC records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// translate maps driver errors onto sentinel errors.
func translate(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
		case invalidTextRepr:
			// malformed UUID can never match a row
			return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Postgres) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.FullName, user.CreatedAt)
	if err != nil {
		return translate("create user", err)
	}
	return nil
}

func (s *Postgres) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

func (s *Postgres) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		return nil, translate("find user by email", err)
	}
	return &u, nil
}

func (s *Postgres) CreateKYC(ctx context.Context, kyc *domain.KYC) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kyc (id, user_id, income, employer, created_at) VALUES ($1, $2, $3, $4, $5)`,
		kyc.ID, kyc.UserID, kyc.Income, kyc.Employer, kyc.CreatedAt)
	if err != nil {
		return translate("create kyc", err)
	}
	return nil
}

func (s *Postgres) FindKYCByUserID(ctx context.Context, userID string) (*domain.KYC, error) {
	var k domain.KYC
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, income, employer, created_at FROM kyc WHERE user_id = $1`, userID).
		Scan(&k.ID, &k.UserID, &k.Income, &k.Employer, &k.CreatedAt)
	if err != nil {
		return nil, translate("find kyc", err)
	}
	return &k, nil
}

func (s *Postgres) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (id, user_id, amount, duration, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, loan.ID, loan.UserID, loan.Amount, loan.Duration, string(loan.Status), loan.Reason, loan.CreatedAt)
	if err != nil {
		return translate("create loan", err)
	}
	return nil
}

const loanColumns = `id, user_id, amount, duration, status, reason, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		l      domain.Loan
		status string
		reason sql.NullString
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Amount, &l.Duration, &status, &reason, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Status = domain.LoanStatus(status)
	if reason.Valid {
		l.Reason = &reason.String
	}
	return &l, nil
}

// UpdateLoanDecision records the terminal status and reason of a pending
// loan. A loan that already carries a decision is left untouched.
func (s *Postgres) UpdateLoanDecision(ctx context.Context, id string, status domain.LoanStatus, reason string) (*domain.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE loans SET status = $2, reason = $3 WHERE id = $1 AND status = 'pending' RETURNING `+loanColumns,
		id, string(status), reason)
	loan, err := scanLoan(row)
	if err == nil {
		return loan, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, translate("update loan", err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, translate("update loan", err)
	}
	if exists {
		return nil, fmt.Errorf("update loan %s: already decided: %w", id, sentinel.ErrConflict)
	}
	return nil, fmt.Errorf("update loan: %w", sentinel.ErrNotFound)
}

func (s *Postgres) FindLoanByID(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := scanLoan(s.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		return nil, translate("find loan", err)
	}
	return loan, nil
}

// FindLoanDetails returns the loan with its owner and the owner's KYC.
func (s *Postgres) FindLoanDetails(ctx context.Context, id string) (*domain.LoanDetails, error) {
	var (
		l        domain.Loan
		u        domain.User
		status   string
		reason   sql.NullString
		kycID    sql.NullString
		income   sql.NullFloat64
		employer sql.NullString
		kycAt    sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.user_id, l.amount, l.duration, l.status, l.reason, l.created_at,
		       u.id, u.email, u.full_name, u.created_at,
		       k.id, k.income, k.employer, k.created_at
		FROM loans l
		JOIN users u ON u.id = l.user_id
		LEFT JOIN kyc k ON k.user_id = l.user_id
		WHERE l.id = $1
	`, id).Scan(
		&l.ID, &l.UserID, &l.Amount, &l.Duration, &status, &reason, &l.CreatedAt,
		&u.ID, &u.Email, &u.FullName, &u.CreatedAt,
		&kycID, &income, &employer, &kycAt,
	)
	if err != nil {
		return nil, translate("find loan details", err)
	}

	l.Status = domain.LoanStatus(status)
	if reason.Valid {
		l.Reason = &reason.String
	}
	details := &domain.LoanDetails{Loan: &l, User: &u}
	if kycID.Valid {
		details.KYC = &domain.KYC{
			ID:        kycID.String,
			UserID:    u.ID,
			Income:    income.Float64,
			Employer:  employer.String,
			CreatedAt: kycAt.Time,
		}
	}
	return details, nil
}

func (s *Postgres) CountLoansByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM loans WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, translate("count loans", err)
	}
	return count, nil
}

// ListLoansByUser returns up to limit loans after skipping offset, newest first.
func (s *Postgres) ListLoansByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, translate("list loans", err)
	}
	defer rows.Close()

	loans := []*domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, translate("scan loan", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list loans", err)
	}
	return loans, nil
}

// FindApplicant assembles the decision snapshot for a user. Only approved
// loans are included.
func (s *Postgres) FindApplicant(ctx context.Context, userID string) (*domain.Applicant, error) {
	var (
		kycID    sql.NullString
		income   sql.NullFloat64
		employer sql.NullString
		kycAt    sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT k.id, k.income, k.employer, k.created_at
		FROM users u
		LEFT JOIN kyc k ON k.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(&kycID, &income, &employer, &kycAt)
	if err != nil {
		return nil, translate("find applicant", err)
	}

	applicant := &domain.Applicant{UserID: userID, ApprovedLoans: []float64{}}
	if kycID.Valid {
		applicant.KYC = &domain.KYC{
			ID:        kycID.String,
			UserID:    userID,
			Income:    income.Float64,
			Employer:  employer.String,
			CreatedAt: kycAt.Time,
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount FROM loans WHERE user_id = $1 AND status = 'approved'`, userID)
	if err != nil {
		return nil, translate("find approved loans", err)
	}
	defer rows.Close()
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, translate("scan approved loan", err)
		}
		applicant.ApprovedLoans = append(applicant.ApprovedLoans, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("find approved loans", err)
	}
	return applicant, nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
