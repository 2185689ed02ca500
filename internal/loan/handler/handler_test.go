package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"loandesk/internal/domain"
	"loandesk/internal/loan/handler/mocks"
	dErrors "loandesk/pkg/domain-errors"
	"loandesk/pkg/testutil"
)

const (
	userID = "7b0c9c7e-3a5e-4f4a-9d8e-0a6f1c2b3d4e"
	loanID = "2f4e6a8c-1b3d-4e5f-8a9b-0c1d2e3f4a5b"
)

// =============================================================================
// Loan Handler Test Suite
// =============================================================================
// Covers request validation, status code mapping and response envelopes.
// Service behavior is mocked.

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.now = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(method, path, body))
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	return testutil.DecodeJSON(s.T(), rec)
}

func ptr(s string) *string { return &s }

func (s *HandlerSuite) TestSubmitLoan() {
	s.Run("approved loan answers 201", func() {
		s.service.EXPECT().Submit(gomock.Any(), userID, 20000.0, 12).Return(&domain.Loan{
			ID: loanID, UserID: userID, Amount: 20000, Duration: 12,
			Status: domain.LoanStatusApproved, Reason: ptr("Loan approved. DTI ratio: 20.0%"), CreatedAt: s.now,
		}, nil)

		rec := s.do(http.MethodPost, "/loans", `{"userId":"`+userID+`","amount":20000,"duration":12}`)

		s.Equal(http.StatusCreated, rec.Code)
		body := s.decode(rec)
		s.Equal(true, body["success"])
		s.Equal("Loan application approved", body["message"])
		data := body["data"].(map[string]any)
		s.Equal("approved", data["status"])
		s.Equal("Loan approved. DTI ratio: 20.0%", data["reason"])
		s.Equal(userID, data["userId"])
	})

	s.Run("rejected loan answers 200", func() {
		s.service.EXPECT().Submit(gomock.Any(), userID, 5000.5, 24).Return(&domain.Loan{
			ID: loanID, UserID: userID, Amount: 5000.5, Duration: 24,
			Status: domain.LoanStatusRejected, Reason: ptr("KYC information required"), CreatedAt: s.now,
		}, nil)

		rec := s.do(http.MethodPost, "/loans", `{"userId":"`+userID+`","amount":5000.5,"duration":24}`)

		s.Equal(http.StatusOK, rec.Code)
		s.Equal("Loan application rejected", s.decode(rec)["message"])
	})

	s.Run("unknown user answers 404", func() {
		s.service.EXPECT().Submit(gomock.Any(), userID, 1000.0, 12).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "User with this ID does not exist"))

		rec := s.do(http.MethodPost, "/loans", `{"userId":"`+userID+`","amount":1000,"duration":12}`)

		testutil.AssertError(s.T(), rec, http.StatusNotFound, "not_found", "User with this ID does not exist")
	})

	s.Run("internal failure hides the cause", func() {
		s.service.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to create loan"))

		rec := s.do(http.MethodPost, "/loans", `{"userId":"`+userID+`","amount":1000,"duration":12}`)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "connection refused")
	})
}

func (s *HandlerSuite) TestSubmitLoanValidation() {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"userId":`, ""},
		{"bad user id", `{"userId":"nope","amount":1000,"duration":12}`, "Invalid user ID format"},
		{"missing amount", `{"userId":"` + userID + `","duration":12}`, "Amount must be a positive number"},
		{"zero amount", `{"userId":"` + userID + `","amount":0,"duration":12}`, "Amount must be a positive number"},
		{"amount too large", `{"userId":"` + userID + `","amount":1000000.01,"duration":12}`, "Amount too large"},
		{"sub-cent amount", `{"userId":"` + userID + `","amount":1500.555,"duration":12}`, "Amount must have at most two decimal places"},
		{"fractional duration", `{"userId":"` + userID + `","amount":1000,"duration":12.5}`, "Duration must be an integer"},
		{"zero duration", `{"userId":"` + userID + `","amount":1000,"duration":0}`, "Duration must be positive"},
		{"duration too long", `{"userId":"` + userID + `","amount":1000,"duration":361}`, "Duration too long"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodPost, "/loans", tc.body)
			s.Equal(http.StatusBadRequest, rec.Code)
			if tc.want != "" {
				s.Equal(tc.want, s.decode(rec)["error_description"])
			}
		})
	}

	s.Run("boundaries are accepted", func() {
		s.service.EXPECT().Submit(gomock.Any(), userID, 1000000.0, 360).
			Return(&domain.Loan{ID: loanID, UserID: userID, Status: domain.LoanStatusRejected, Reason: ptr("x")}, nil)
		rec := s.do(http.MethodPost, "/loans", `{"userId":"`+userID+`","amount":1000000,"duration":360}`)
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *HandlerSuite) TestCreateUser() {
	s.Run("created", func() {
		s.service.EXPECT().CreateUser(gomock.Any(), "ada@example.com", "Ada Lovelace").
			Return(&domain.User{ID: userID, Email: "ada@example.com", FullName: "Ada Lovelace", CreatedAt: s.now}, nil)

		rec := s.do(http.MethodPost, "/users", `{"email":"ada@example.com","fullName":"Ada Lovelace"}`)

		s.Equal(http.StatusCreated, rec.Code)
		data := s.decode(rec)["data"].(map[string]any)
		s.Equal("Ada Lovelace", data["fullName"])
	})

	s.Run("duplicate email answers 409", func() {
		s.service.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "A user with this email already exists"))

		rec := s.do(http.MethodPost, "/users", `{"email":"ada@example.com","fullName":"Ada"}`)

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("invalid email", func() {
		rec := s.do(http.MethodPost, "/users", `{"email":"not-an-email","fullName":"Ada"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid email format", s.decode(rec)["error_description"])
	})

	s.Run("name too long", func() {
		rec := s.do(http.MethodPost, "/users", `{"email":"a@example.com","fullName":"`+strings.Repeat("x", 101)+`"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Full name too long", s.decode(rec)["error_description"])
	})
}

func (s *HandlerSuite) TestSubmitKYC() {
	s.Run("created", func() {
		s.service.EXPECT().SubmitKYC(gomock.Any(), userID, 75000.0, "Acme").
			Return(&domain.KYC{ID: loanID, UserID: userID, Income: 75000, Employer: "Acme", CreatedAt: s.now}, nil)

		rec := s.do(http.MethodPost, "/users/"+userID+"/kyc", `{"income":75000,"employer":"Acme"}`)

		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("invalid user id", func() {
		rec := s.do(http.MethodPost, "/users/abc/kyc", `{"income":75000,"employer":"Acme"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("non-positive income", func() {
		rec := s.do(http.MethodPost, "/users/"+userID+"/kyc", `{"income":0,"employer":"Acme"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Income must be a positive number", s.decode(rec)["error_description"])
	})

	s.Run("sub-cent income", func() {
		rec := s.do(http.MethodPost, "/users/"+userID+"/kyc", `{"income":75000.125,"employer":"Acme"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Income must have at most two decimal places", s.decode(rec)["error_description"])
	})

	s.Run("duplicate answers 409", func() {
		s.service.EXPECT().SubmitKYC(gomock.Any(), userID, gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "KYC information already submitted for this user"))
		rec := s.do(http.MethodPost, "/users/"+userID+"/kyc", `{"income":75000,"employer":"Acme"}`)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *HandlerSuite) TestGetLoan() {
	s.Run("includes user summary", func() {
		s.service.EXPECT().GetByID(gomock.Any(), loanID).Return(&domain.LoanDetails{
			Loan: &domain.Loan{ID: loanID, UserID: userID, Amount: 1000, Duration: 12, Status: domain.LoanStatusApproved, Reason: ptr("ok"), CreatedAt: s.now},
			User: &domain.User{ID: userID, Email: "ada@example.com", FullName: "Ada"},
			KYC:  &domain.KYC{UserID: userID},
		}, nil)

		rec := s.do(http.MethodGet, "/loans/"+loanID, "")

		s.Equal(http.StatusOK, rec.Code)
		user := s.decode(rec)["data"].(map[string]any)["user"].(map[string]any)
		s.Equal(true, user["hasKYC"])
		s.Equal("ada@example.com", user["email"])
	})

	s.Run("not found", func() {
		s.service.EXPECT().GetByID(gomock.Any(), loanID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "Loan with this ID does not exist"))
		rec := s.do(http.MethodGet, "/loans/"+loanID, "")
		testutil.AssertError(s.T(), rec, http.StatusNotFound, "not_found", "Loan with this ID does not exist")
	})

	s.Run("malformed id", func() {
		rec := s.do(http.MethodGet, "/loans/123", "")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid loan ID format", s.decode(rec)["error_description"])
	})
}

func (s *HandlerSuite) TestUserLoans() {
	s.Run("defaults page and limit", func() {
		s.service.EXPECT().GetUserLoans(gomock.Any(), userID, 1, 10).
			Return(&domain.LoanPage{Loans: []*domain.Loan{}, Page: 1, Limit: 10}, nil)

		rec := s.do(http.MethodGet, "/users/"+userID+"/loans", "")

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal([]any{}, body["data"])
		meta := body["meta"].(map[string]any)
		s.Equal(0.0, meta["totalPages"])
	})

	s.Run("passes paging and renders meta", func() {
		s.service.EXPECT().GetUserLoans(gomock.Any(), userID, 2, 2).Return(&domain.LoanPage{
			Loans:      []*domain.Loan{{ID: "c", Status: domain.LoanStatusApproved}, {ID: "b", Status: domain.LoanStatusRejected}},
			TotalCount: 5, Page: 2, Limit: 2, TotalPages: 3,
		}, nil)

		rec := s.do(http.MethodGet, "/users/"+userID+"/loans?page=2&limit=2", "")

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Len(body["data"], 2)
		meta := body["meta"].(map[string]any)
		s.Equal(5.0, meta["totalCount"])
		s.Equal(2.0, meta["currentPage"])
		s.Equal(3.0, meta["totalPages"])
	})

	s.Run("invalid page", func() {
		rec := s.do(http.MethodGet, "/users/"+userID+"/loans?page=0", "")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Page must be a positive integer", s.decode(rec)["error_description"])
	})

	s.Run("invalid limit", func() {
		rec := s.do(http.MethodGet, "/users/"+userID+"/loans?limit=abc", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
