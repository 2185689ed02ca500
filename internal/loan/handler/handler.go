package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"loandesk/internal/domain"
	"loandesk/pkg/platform/httputil"
	"loandesk/pkg/requestcontext"
)

// Service defines the loan operations exposed over HTTP.
type Service interface {
	CreateUser(ctx context.Context, email, fullName string) (*domain.User, error)
	SubmitKYC(ctx context.Context, userID string, income float64, employer string) (*domain.KYC, error)
	Submit(ctx context.Context, userID string, amount float64, duration int) (*domain.Loan, error)
	GetByID(ctx context.Context, id string) (*domain.LoanDetails, error)
	GetUserLoans(ctx context.Context, userID string, page, limit int) (*domain.LoanPage, error)
}

// Handler wires user, KYC and loan endpoints to the loan service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users", h.HandleCreateUser)
	r.Post("/users/{id}/kyc", h.HandleSubmitKYC)
	r.Get("/users/{id}/loans", h.HandleUserLoans)
	r.Post("/loans", h.HandleSubmitLoan)
	r.Get("/loans/{id}", h.HandleGetLoan)
}

// HandleCreateUser handles POST /users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(ctx, req.Email, req.FullName)
	if err != nil {
		h.fail(ctx, w, "create user failed", requestID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "User created successfully",
		Data:    toUserResponse(user),
	})
}

// HandleSubmitKYC handles POST /users/{id}/kyc.
func (h *Handler) HandleSubmitKYC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := chi.URLParam(r, "id")
	if err := validateID(userID, "Invalid user ID format"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitKYCRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	kyc, err := h.service.SubmitKYC(ctx, userID, *req.Income, req.Employer)
	if err != nil {
		h.fail(ctx, w, "submit kyc failed", requestID, err, "user_id", userID)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "KYC information submitted successfully",
		Data:    toKYCResponse(kyc),
	})
}

// HandleUserLoans handles GET /users/{id}/loans?page=&limit=.
func (h *Handler) HandleUserLoans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := chi.URLParam(r, "id")
	if err := validateID(userID, "Invalid user ID format"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := parsePositive(r.URL.Query().Get("page"), defaultPage, "Page must be a positive integer")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit, err := parsePositive(r.URL.Query().Get("limit"), defaultLimit, "Limit must be a positive integer")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetUserLoans(ctx, userID, page, limit)
	if err != nil {
		h.fail(ctx, w, "load loan history failed", requestID, err, "user_id", userID)
		return
	}

	items, meta := toHistory(result)
	httputil.WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "User loan history retrieved successfully",
		Data:    items,
		Meta:    meta,
	})
}

// HandleSubmitLoan handles POST /loans. Approved loans answer 201, rejected
// loans 200.
func (h *Handler) HandleSubmitLoan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitLoanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	loan, err := h.service.Submit(ctx, req.UserID, *req.Amount, req.ParsedDuration())
	if err != nil {
		h.fail(ctx, w, "loan submission failed", requestID, err, "user_id", req.UserID)
		return
	}

	h.logger.InfoContext(ctx, "loan submitted",
		"request_id", requestID,
		"loan_id", loan.ID,
		"user_id", loan.UserID,
		"status", loan.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	status := http.StatusOK
	if loan.Status == domain.LoanStatusApproved {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, Envelope{
		Success: true,
		Message: fmt.Sprintf("Loan application %s", loan.Status),
		Data:    toLoanResponse(loan),
	})
}

// HandleGetLoan handles GET /loans/{id}.
func (h *Handler) HandleGetLoan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	loanID := chi.URLParam(r, "id")
	if err := validateID(loanID, "Invalid loan ID format"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	details, err := h.service.GetByID(ctx, loanID)
	if err != nil {
		h.fail(ctx, w, "load loan failed", requestID, err, "loan_id", loanID)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Loan retrieved successfully",
		Data:    toLoanDetailsResponse(details),
	})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, requestID string, err error, attrs ...any) {
	args := append([]any{"request_id", requestID, "error", err}, attrs...)
	h.logger.WarnContext(ctx, msg, args...)
	httputil.WriteError(w, err)
}
