package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"loandesk/internal/decision"
	"loandesk/internal/domain"
	"loandesk/internal/events"
	dErrors "loandesk/pkg/domain-errors"
	"loandesk/pkg/platform/sentinel"
)

// Submit creates a pending loan, decides it and records the terminal status.
// The returned loan is never pending: evaluation faults produce a rejection.
// Persistence failures are returned as internal errors.
func (s *Service) Submit(ctx context.Context, userID string, amount float64, duration int) (*domain.Loan, error) {
	ctx, span := s.tracer.Start(ctx, "loan.Submit", trace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.Float64("amount", amount),
		attribute.Int("duration", duration),
	))
	defer span.End()

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	loan, err := domain.NewPendingLoan(s.newID(), userID, amount, duration, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementApplications()
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create loan failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create loan")
	}

	d := s.decisions.Evaluate(ctx, decision.Request{
		UserID:          userID,
		RequestedAmount: amount,
		Duration:        duration,
	})

	decided, err := s.store.UpdateLoanDecision(ctx, loan.ID, d.Status, d.Reason)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record decision failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record loan decision")
	}
	span.SetAttributes(attribute.String("loan_id", decided.ID), attribute.String("status", string(decided.Status)))

	s.publishDecided(ctx, decided, d.Reason)

	s.logger.InfoContext(ctx, "loan decided",
		"loan_id", decided.ID,
		"user_id", userID,
		"status", decided.Status,
	)
	return decided, nil
}

func (s *Service) publishDecided(ctx context.Context, loan *domain.Loan, reason string) {
	err := s.publisher.PublishLoanDecided(ctx, events.LoanDecided{
		LoanID:    loan.ID,
		UserID:    loan.UserID,
		Amount:    loan.Amount,
		Duration:  loan.Duration,
		Status:    string(loan.Status),
		Reason:    reason,
		DecidedAt: s.now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish loan decision",
			"loan_id", loan.ID,
			"error", err,
		)
	}
}

// GetByID returns a loan with its owner and the owner's KYC.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.LoanDetails, error) {
	details, err := s.store.FindLoanDetails(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Loan with this ID does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load loan")
	}
	return details, nil
}

// GetUserLoans returns one page of a user's loans, newest first.
func (s *Service) GetUserLoans(ctx context.Context, userID string, page, limit int) (*domain.LoanPage, error) {
	if page < 1 || limit < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "page and limit must be positive integers")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var (
		total int
		loans []*domain.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.CountLoansByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = s.store.ListLoansByUser(gctx, userID, limit, (page-1)*limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load loan history")
	}

	return &domain.LoanPage{
		Loans:      loans,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}
