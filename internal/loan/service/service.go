// Package service implements the loan lifecycle and the user and KYC
// onboarding it depends on.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"loandesk/internal/decision"
	"loandesk/internal/domain"
	"loandesk/internal/events"
	"loandesk/internal/loan/metrics"
	"loandesk/internal/platform/logger"
	dErrors "loandesk/pkg/domain-errors"
	"loandesk/pkg/platform/sentinel"
)

// Store is the persistence the loan service needs.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateKYC(ctx context.Context, kyc *domain.KYC) error
	FindKYCByUserID(ctx context.Context, userID string) (*domain.KYC, error)
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	UpdateLoanDecision(ctx context.Context, id string, status domain.LoanStatus, reason string) (*domain.Loan, error)
	FindLoanDetails(ctx context.Context, id string) (*domain.LoanDetails, error)
	CountLoansByUser(ctx context.Context, userID string) (int, error)
	ListLoansByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error)
}

// DecisionEvaluator produces the decision for a loan request. It never fails.
type DecisionEvaluator interface {
	Evaluate(ctx context.Context, req decision.Request) decision.Decision
}

// DecisionPublisher emits loan decision events.
type DecisionPublisher interface {
	PublishLoanDecided(ctx context.Context, evt events.LoanDecided) error
}

// Service manages users, KYC records and loan applications.
type Service struct {
	store     Store
	decisions DecisionEvaluator
	publisher DecisionPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p DecisionPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source for created-at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides how entity ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(store Store, decisions DecisionEvaluator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("loan store is required")
	}
	if decisions == nil {
		return nil, errors.New("decision evaluator is required")
	}
	svc := &Service{
		store:     store,
		decisions: decisions,
		publisher: events.Noop{},
		logger:    logger.Discard(),
		tracer:    otel.Tracer("loandesk/loan"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// UserExists reports whether a user with id is registered.
func (s *Service) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return true, nil
}

func (s *Service) requireUser(ctx context.Context, id string) error {
	exists, err := s.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "User with this ID does not exist")
	}
	return nil
}
