package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"loandesk/internal/decision"
	"loandesk/internal/decision/cache"
	decisionmetrics "loandesk/internal/decision/metrics"
	"loandesk/internal/domain"
	"loandesk/internal/loan/metrics"
	"loandesk/internal/loan/store"
)

// =============================================================================
// Loan Lifecycle Test Suite
// =============================================================================
// Runs the service over the in-memory store, the real decision orchestrator
// and the in-memory cache to cover end-to-end outcomes.

// flakyApplicants fails applicant lookups while failing is set.
type flakyApplicants struct {
	*store.InMemory
	failing bool
}

func (f *flakyApplicants) FindApplicant(ctx context.Context, userID string) (*domain.Applicant, error) {
	if f.failing {
		return nil, errors.New("replica unavailable")
	}
	return f.InMemory.FindApplicant(ctx, userID)
}

type LifecycleSuite struct {
	suite.Suite
	ctx             context.Context
	clock           time.Time
	store           *flakyApplicants
	cache           *cache.Memory
	metrics         *metrics.Metrics
	decisionMetrics *decisionmetrics.Metrics
	service         *Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return s.clock }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	s.store = &flakyApplicants{InMemory: store.NewInMemory()}
	s.cache = cache.NewMemory(cache.WithClock(now))
	s.metrics = metrics.New(reg)
	s.decisionMetrics = decisionmetrics.New(reg)

	decisions, err := decision.New(s.store, s.cache,
		decision.WithLogger(logger),
		decision.WithMetrics(s.decisionMetrics),
	)
	s.Require().NoError(err)

	s.service, err = New(s.store, decisions,
		WithLogger(logger),
		WithMetrics(s.metrics),
		WithClock(now),
	)
	s.Require().NoError(err)
}

func (s *LifecycleSuite) onboard(email string, income float64, employer string) *domain.User {
	user, err := s.service.CreateUser(s.ctx, email, "Test User")
	s.Require().NoError(err)
	_, err = s.service.SubmitKYC(s.ctx, user.ID, income, employer)
	s.Require().NoError(err)
	return user
}

func (s *LifecycleSuite) TestApprovalThenDTIRejection() {
	user := s.onboard("dti@example.com", 100000, "Acme")

	first, err := s.service.Submit(s.ctx, user.ID, 30000, 12)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusApproved, first.Status)
	s.Equal("Loan approved. DTI ratio: 30.0%", *first.Reason)

	second, err := s.service.Submit(s.ctx, user.ID, 15000, 12)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusRejected, second.Status)
	s.Equal("Debt-to-income ratio (45.0%) exceeds maximum of 40%", *second.Reason)

	s.Equal(2.0, testutil.ToFloat64(s.metrics.ApplicationsSubmitted))
	s.Equal(1.0, testutil.ToFloat64(s.decisionMetrics.DecisionOutcome.WithLabelValues("approved")))
	s.Equal(1.0, testutil.ToFloat64(s.decisionMetrics.DecisionOutcome.WithLabelValues("rejected")))
}

func (s *LifecycleSuite) TestRuleRejectionsPersistReason() {
	s.Run("missing kyc", func() {
		user, err := s.service.CreateUser(s.ctx, "nokyc@example.com", "No KYC")
		s.Require().NoError(err)
		loan, err := s.service.Submit(s.ctx, user.ID, 1000, 12)
		s.Require().NoError(err)
		s.Equal(decision.ReasonKYCRequired, *loan.Reason)
	})

	s.Run("low income", func() {
		user := s.onboard("low@example.com", 30000, "Acme")
		loan, err := s.service.Submit(s.ctx, user.ID, 1000, 12)
		s.Require().NoError(err)
		s.Equal(decision.ReasonIncomeBelowMinimum, *loan.Reason)
	})

	s.Run("blank employer", func() {
		user := s.onboard("blank@example.com", 80000, "  ")
		loan, err := s.service.Submit(s.ctx, user.ID, 1000, 12)
		s.Require().NoError(err)
		s.Equal(decision.ReasonEmploymentRequired, *loan.Reason)
	})
}

func (s *LifecycleSuite) TestIdenticalRequestReusesCachedDecision() {
	user := s.onboard("cache@example.com", 100000, "Acme")

	first, err := s.service.Submit(s.ctx, user.ID, 10000, 12)
	s.Require().NoError(err)
	second, err := s.service.Submit(s.ctx, user.ID, 10000, 12)
	s.Require().NoError(err)

	// Within the approval TTL the first approval is not counted as debt.
	s.Equal(*first.Reason, *second.Reason)
	s.NotEqual(first.ID, second.ID)
	s.Equal(1.0, testutil.ToFloat64(s.decisionMetrics.DecisionOutcome.WithLabelValues("approved")))

	s.clock = s.clock.Add(5 * time.Minute)
	third, err := s.service.Submit(s.ctx, user.ID, 10000, 12)
	s.Require().NoError(err)
	s.Equal("Loan approved. DTI ratio: 30.0%", *third.Reason)
}

func (s *LifecycleSuite) TestFetchFailureStillYieldsTerminalLoan() {
	user := s.onboard("flaky@example.com", 100000, "Acme")
	s.store.failing = true

	loan, err := s.service.Submit(s.ctx, user.ID, 10000, 12)

	s.Require().NoError(err)
	s.Equal(domain.LoanStatusRejected, loan.Status)
	s.Equal(decision.ReasonEvaluationError, *loan.Reason)

	s.store.failing = false
	s.clock = s.clock.Add(10 * time.Second)
	retry, err := s.service.Submit(s.ctx, user.ID, 10000, 12)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusApproved, retry.Status)
}

func (s *LifecycleSuite) TestGetByIDJoinsUserAndKYC() {
	user := s.onboard("details@example.com", 100000, "Acme")
	loan, err := s.service.Submit(s.ctx, user.ID, 10000, 12)
	s.Require().NoError(err)

	details, err := s.service.GetByID(s.ctx, loan.ID)

	s.Require().NoError(err)
	s.Equal(user.Email, details.User.Email)
	s.Require().NotNil(details.KYC)
	s.Equal("Acme", details.KYC.Employer)
}

func (s *LifecycleSuite) TestPaging() {
	user := s.onboard("pages@example.com", 1000000, "Acme")
	var ids []string
	for i := 0; i < 5; i++ {
		loan, err := s.service.Submit(s.ctx, user.ID, float64(1000+i), 12)
		s.Require().NoError(err)
		ids = append(ids, loan.ID)
		s.clock = s.clock.Add(time.Second)
	}

	page, err := s.service.GetUserLoans(s.ctx, user.ID, 2, 2)

	s.Require().NoError(err)
	s.Equal(5, page.TotalCount)
	s.Equal(3, page.TotalPages)
	s.Equal(2, page.Page)
	s.Equal(2, page.Limit)
	s.Require().Len(page.Loans, 2)
	s.Equal(ids[2], page.Loans[0].ID)
	s.Equal(ids[1], page.Loans[1].ID)

	empty, err := s.service.GetUserLoans(s.ctx, user.ID, 4, 2)
	s.Require().NoError(err)
	s.Empty(empty.Loans)
	s.Equal(3, empty.TotalPages)
}

func (s *LifecycleSuite) TestDuplicateRegistrations() {
	user := s.onboard("dup@example.com", 60000, "Acme")

	_, err := s.service.CreateUser(s.ctx, "dup@example.com", "Again")
	s.Error(err)

	_, err = s.service.SubmitKYC(s.ctx, user.ID, 70000, "Other")
	s.Error(err)
}
