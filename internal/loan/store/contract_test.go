package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"loandesk/internal/domain"
	"loandesk/pkg/platform/sentinel"
)

type loanStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateKYC(ctx context.Context, kyc *domain.KYC) error
	FindKYCByUserID(ctx context.Context, userID string) (*domain.KYC, error)
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	UpdateLoanDecision(ctx context.Context, id string, status domain.LoanStatus, reason string) (*domain.Loan, error)
	FindLoanByID(ctx context.Context, id string) (*domain.Loan, error)
	FindLoanDetails(ctx context.Context, id string) (*domain.LoanDetails, error)
	CountLoansByUser(ctx context.Context, userID string) (int, error)
	ListLoansByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error)
	FindApplicant(ctx context.Context, userID string) (*domain.Applicant, error)
	Ping(ctx context.Context) error
}

// contractSuite holds behavior shared by every store implementation.
// Embedding suites set store in SetupTest.
type contractSuite struct {
	suite.Suite
	store loanStore
	ctx   context.Context
	now   time.Time
}

func (s *contractSuite) user(email string) *domain.User {
	u, err := domain.NewUser(uuid.NewString(), email, "Ada Lovelace", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateUser(s.ctx, u))
	return u
}

func (s *contractSuite) kyc(userID string, income float64) *domain.KYC {
	k, err := domain.NewKYC(uuid.NewString(), userID, income, "Acme", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateKYC(s.ctx, k))
	return k
}

func (s *contractSuite) loan(userID string, amount float64, at time.Time) *domain.Loan {
	l, err := domain.NewPendingLoan(uuid.NewString(), userID, amount, 12, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateLoan(s.ctx, l))
	return l
}

func (s *contractSuite) TestUsers() {
	s.Run("create and find by id and email", func() {
		u := s.user("ada@example.com")

		byID, err := s.store.FindUserByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.Email, byID.Email)

		byEmail, err := s.store.FindUserByEmail(s.ctx, "ada@example.com")
		s.Require().NoError(err)
		s.Equal(u.ID, byEmail.ID)
	})

	s.Run("duplicate email is a conflict", func() {
		dup, err := domain.NewUser(uuid.NewString(), "ada@example.com", "Other", s.now)
		s.Require().NoError(err)
		err = s.store.CreateUser(s.ctx, dup)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("unknown user is not found", func() {
		_, err := s.store.FindUserByID(s.ctx, uuid.NewString())
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindUserByEmail(s.ctx, "nobody@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *contractSuite) TestKYC() {
	u := s.user("kyc@example.com")

	s.Run("missing kyc is not found", func() {
		_, err := s.store.FindKYCByUserID(s.ctx, u.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("create and find", func() {
		k := s.kyc(u.ID, 75000.5)
		got, err := s.store.FindKYCByUserID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(k.ID, got.ID)
		s.InDelta(75000.5, got.Income, 0.001)
		s.Equal("Acme", got.Employer)
	})

	s.Run("second kyc is a conflict", func() {
		k, err := domain.NewKYC(uuid.NewString(), u.ID, 1, "Other", s.now)
		s.Require().NoError(err)
		s.ErrorIs(s.store.CreateKYC(s.ctx, k), sentinel.ErrConflict)
	})
}

func (s *contractSuite) TestLoanLifecycle() {
	u := s.user("loan@example.com")
	l := s.loan(u.ID, 20000, s.now)

	s.Run("created loan is pending with no reason", func() {
		got, err := s.store.FindLoanByID(s.ctx, l.ID)
		s.Require().NoError(err)
		s.Equal(domain.LoanStatusPending, got.Status)
		s.Nil(got.Reason)
	})

	s.Run("decision update sets status and reason", func() {
		got, err := s.store.UpdateLoanDecision(s.ctx, l.ID, domain.LoanStatusApproved, "Loan approved. DTI ratio: 20.0%")
		s.Require().NoError(err)
		s.Equal(domain.LoanStatusApproved, got.Status)
		s.Require().NotNil(got.Reason)
		s.Equal("Loan approved. DTI ratio: 20.0%", *got.Reason)
	})

	s.Run("decided loan cannot be decided again", func() {
		_, err := s.store.UpdateLoanDecision(s.ctx, l.ID, domain.LoanStatusRejected, "flip")
		s.ErrorIs(err, sentinel.ErrConflict)

		got, err := s.store.FindLoanByID(s.ctx, l.ID)
		s.Require().NoError(err)
		s.Equal(domain.LoanStatusApproved, got.Status)
		s.Equal("Loan approved. DTI ratio: 20.0%", *got.Reason)
	})

	s.Run("update of unknown loan is not found", func() {
		_, err := s.store.UpdateLoanDecision(s.ctx, uuid.NewString(), domain.LoanStatusRejected, "x")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("details without kyc", func() {
		d, err := s.store.FindLoanDetails(s.ctx, l.ID)
		s.Require().NoError(err)
		s.Equal(l.ID, d.Loan.ID)
		s.Equal(u.Email, d.User.Email)
		s.Nil(d.KYC)
	})

	s.Run("details with kyc", func() {
		s.kyc(u.ID, 100000)
		d, err := s.store.FindLoanDetails(s.ctx, l.ID)
		s.Require().NoError(err)
		s.Require().NotNil(d.KYC)
		s.InDelta(100000, d.KYC.Income, 0.001)
	})

	s.Run("unknown loan details is not found", func() {
		_, err := s.store.FindLoanDetails(s.ctx, uuid.NewString())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *contractSuite) TestPaging() {
	u := s.user("pages@example.com")
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, s.loan(u.ID, float64(1000*(i+1)), s.now.Add(time.Duration(i)*time.Minute)).ID)
	}

	count, err := s.store.CountLoansByUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(5, count)

	page, err := s.store.ListLoansByUser(s.ctx, u.ID, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(ids[2], page[0].ID)
	s.Equal(ids[1], page[1].ID)

	first, err := s.store.ListLoansByUser(s.ctx, u.ID, 10, 0)
	s.Require().NoError(err)
	s.Equal(ids[4], first[0].ID)

	empty, err := s.store.ListLoansByUser(s.ctx, u.ID, 10, 10)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *contractSuite) TestSameInstantOrdersByInsertion() {
	u := s.user("tie@example.com")
	older := s.loan(u.ID, 1000, s.now)
	newer := s.loan(u.ID, 2000, s.now)

	page, err := s.store.ListLoansByUser(s.ctx, u.ID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(newer.ID, page[0].ID)
	s.Equal(older.ID, page[1].ID)
}

func (s *contractSuite) TestFindApplicant() {
	s.Run("unknown user is not found", func() {
		_, err := s.store.FindApplicant(s.ctx, uuid.NewString())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("only approved loans contribute", func() {
		u := s.user("applicant@example.com")
		s.kyc(u.ID, 90000)

		approved := s.loan(u.ID, 5000, s.now)
		rejected := s.loan(u.ID, 7000, s.now)
		s.loan(u.ID, 9000, s.now)
		_, err := s.store.UpdateLoanDecision(s.ctx, approved.ID, domain.LoanStatusApproved, "ok")
		s.Require().NoError(err)
		_, err = s.store.UpdateLoanDecision(s.ctx, rejected.ID, domain.LoanStatusRejected, "no")
		s.Require().NoError(err)

		a, err := s.store.FindApplicant(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Require().NotNil(a.KYC)
		s.Equal([]float64{5000}, a.ApprovedLoans)
	})

	s.Run("user without kyc has nil kyc", func() {
		u := s.user("nokyc@example.com")
		a, err := s.store.FindApplicant(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Nil(a.KYC)
		s.Empty(a.ApprovedLoans)
	})
}

func (s *contractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
