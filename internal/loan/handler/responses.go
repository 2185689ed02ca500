package handler

import (
	"time"

	"loandesk/internal/domain"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    any    `json:"meta,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

type KYCResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Income    float64   `json:"income"`
	Employer  string    `json:"employer"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoanResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Duration  int       `json:"duration"`
	Status    string    `json:"status"`
	Reason    *string   `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the owner block of GET /loans/{id}.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	HasKYC   bool   `json:"hasKYC"`
}

type LoanDetailsResponse struct {
	LoanResponse
	User UserSummary `json:"user"`
}

// LoanHistoryItem is one entry of GET /users/{id}/loans.
type LoanHistoryItem struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Duration  int       `json:"duration"`
	Status    string    `json:"status"`
	Reason    *string   `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type PageMeta struct {
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalPages  int `json:"totalPages"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
}

func toKYCResponse(k *domain.KYC) KYCResponse {
	return KYCResponse{ID: k.ID, UserID: k.UserID, Income: k.Income, Employer: k.Employer, CreatedAt: k.CreatedAt}
}

func toLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Amount:    l.Amount,
		Duration:  l.Duration,
		Status:    string(l.Status),
		Reason:    l.Reason,
		CreatedAt: l.CreatedAt,
	}
}

func toLoanDetailsResponse(d *domain.LoanDetails) LoanDetailsResponse {
	resp := LoanDetailsResponse{LoanResponse: toLoanResponse(d.Loan)}
	if d.User != nil {
		resp.User = UserSummary{
			ID:       d.User.ID,
			Email:    d.User.Email,
			FullName: d.User.FullName,
			HasKYC:   d.KYC != nil,
		}
	}
	return resp
}

func toHistory(p *domain.LoanPage) ([]LoanHistoryItem, PageMeta) {
	items := make([]LoanHistoryItem, 0, len(p.Loans))
	for _, l := range p.Loans {
		items = append(items, LoanHistoryItem{
			ID:        l.ID,
			Amount:    l.Amount,
			Duration:  l.Duration,
			Status:    string(l.Status),
			Reason:    l.Reason,
			CreatedAt: l.CreatedAt,
		})
	}
	return items, PageMeta{
		TotalCount:  p.TotalCount,
		CurrentPage: p.Page,
		Limit:       p.Limit,
		TotalPages:  p.TotalPages,
	}
}
