package service

import (
	"context"
	"errors"

	"loandesk/internal/domain"
	dErrors "loandesk/pkg/domain-errors"
	"loandesk/pkg/platform/sentinel"
)

// CreateUser registers a user. Emails are unique.
func (s *Service) CreateUser(ctx context.Context, email, fullName string) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), email, fullName, s.now())
	if err != nil {
		return nil, err
	}

	_, err = s.store.FindUserByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "A user with this email already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "A user with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// SubmitKYC records the income and employer of an existing user. Each user
// may submit KYC once.
func (s *Service) SubmitKYC(ctx context.Context, userID string, income float64, employer string) (*domain.KYC, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	_, err := s.store.FindKYCByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "KYC information already submitted for this user")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up kyc")
	}

	kyc, err := domain.NewKYC(s.newID(), userID, income, employer, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateKYC(ctx, kyc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "KYC information already submitted for this user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create kyc")
	}

	s.logger.InfoContext(ctx, "kyc submitted", "user_id", userID)
	return kyc, nil
}
