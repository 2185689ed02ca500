package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"loandesk/internal/domain"
	"loandesk/pkg/platform/sentinel"
)

type loanRow struct {
	loan *domain.Loan
	seq  int64
}

// InMemory is a process-local store. Loans created in the same instant are
// ordered by insertion, newest first.
type InMemory struct {
	mu           sync.RWMutex
	users        map[string]*domain.User
	usersByEmail map[string]string
	kycByUser    map[string]*domain.KYC
	loans        map[string]*loanRow
	loansByUser  map[string][]*loanRow
	seq          int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:        make(map[string]*domain.User),
		usersByEmail: make(map[string]string),
		kycByUser:    make(map[string]*domain.KYC),
		loans:        make(map[string]*loanRow),
		loansByUser:  make(map[string][]*loanRow),
	}
}

func (s *InMemory) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("create user %s: %w", user.ID, sentinel.ErrConflict)
	}
	if _, ok := s.usersByEmail[user.Email]; ok {
		return fmt.Errorf("create user with email: %w", sentinel.ErrConflict)
	}
	s.users[user.ID] = copyUser(user)
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *InMemory) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", id, sentinel.ErrNotFound)
	}
	return copyUser(user), nil
}

func (s *InMemory) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("find user by email: %w", sentinel.ErrNotFound)
	}
	return copyUser(s.users[id]), nil
}

func (s *InMemory) CreateKYC(_ context.Context, kyc *domain.KYC) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[kyc.UserID]; !ok {
		return fmt.Errorf("create kyc for user %s: %w", kyc.UserID, sentinel.ErrNotFound)
	}
	if _, ok := s.kycByUser[kyc.UserID]; ok {
		return fmt.Errorf("create kyc for user %s: %w", kyc.UserID, sentinel.ErrConflict)
	}
	s.kycByUser[kyc.UserID] = copyKYC(kyc)
	return nil
}

func (s *InMemory) FindKYCByUserID(_ context.Context, userID string) (*domain.KYC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kyc, ok := s.kycByUser[userID]
	if !ok {
		return nil, fmt.Errorf("find kyc for user %s: %w", userID, sentinel.ErrNotFound)
	}
	return copyKYC(kyc), nil
}

func (s *InMemory) CreateLoan(_ context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[loan.UserID]; !ok {
		return fmt.Errorf("create loan for user %s: %w", loan.UserID, sentinel.ErrNotFound)
	}
	if _, ok := s.loans[loan.ID]; ok {
		return fmt.Errorf("create loan %s: %w", loan.ID, sentinel.ErrConflict)
	}
	s.seq++
	row := &loanRow{loan: copyLoan(loan), seq: s.seq}
	s.loans[loan.ID] = row
	s.loansByUser[loan.UserID] = append(s.loansByUser[loan.UserID], row)
	return nil
}

// UpdateLoanDecision records the terminal status and reason of a loan.
func (s *InMemory) UpdateLoanDecision(_ context.Context, id string, status domain.LoanStatus, reason string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.loans[id]
	if !ok {
		return nil, fmt.Errorf("update loan %s: %w", id, sentinel.ErrNotFound)
	}
	if row.loan.Status != domain.LoanStatusPending {
		return nil, fmt.Errorf("update loan %s: already %s: %w", id, row.loan.Status, sentinel.ErrConflict)
	}
	row.loan.Status = status
	r := reason
	row.loan.Reason = &r
	return copyLoan(row.loan), nil
}

func (s *InMemory) FindLoanByID(_ context.Context, id string) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.loans[id]
	if !ok {
		return nil, fmt.Errorf("find loan %s: %w", id, sentinel.ErrNotFound)
	}
	return copyLoan(row.loan), nil
}

// FindLoanDetails returns the loan with its owner and the owner's KYC.
func (s *InMemory) FindLoanDetails(_ context.Context, id string) (*domain.LoanDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.loans[id]
	if !ok {
		return nil, fmt.Errorf("find loan %s: %w", id, sentinel.ErrNotFound)
	}
	return &domain.LoanDetails{
		Loan: copyLoan(row.loan),
		User: copyUser(s.users[row.loan.UserID]),
		KYC:  copyKYC(s.kycByUser[row.loan.UserID]),
	}, nil
}

func (s *InMemory) CountLoansByUser(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loansByUser[userID]), nil
}

// ListLoansByUser returns up to limit loans after skipping offset, newest first.
func (s *InMemory) ListLoansByUser(_ context.Context, userID string, limit, offset int) ([]*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*loanRow, len(s.loansByUser[userID]))
	copy(rows, s.loansByUser[userID])

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.loan.CreatedAt.Equal(b.loan.CreatedAt) {
			return a.loan.CreatedAt.After(b.loan.CreatedAt)
		}
		return a.seq > b.seq
	})

	if offset >= len(rows) {
		return []*domain.Loan{}, nil
	}
	end := min(offset+limit, len(rows))

	page := make([]*domain.Loan, 0, end-offset)
	for _, row := range rows[offset:end] {
		page = append(page, copyLoan(row.loan))
	}
	return page, nil
}

// FindApplicant assembles the decision snapshot for a user. Only approved
// loans are included.
func (s *InMemory) FindApplicant(_ context.Context, userID string) (*domain.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[userID]; !ok {
		return nil, fmt.Errorf("find applicant %s: %w", userID, sentinel.ErrNotFound)
	}
	applicant := &domain.Applicant{
		UserID:        userID,
		KYC:           copyKYC(s.kycByUser[userID]),
		ApprovedLoans: []float64{},
	}
	for _, row := range s.loansByUser[userID] {
		if row.loan.Status == domain.LoanStatusApproved {
			applicant.ApprovedLoans = append(applicant.ApprovedLoans, row.loan.Amount)
		}
	}
	return applicant, nil
}

func (s *InMemory) Ping(context.Context) error {
	return nil
}
