package decision

import (
	"strconv"

	"loandesk/internal/domain"
)

// Rejection and approval reasons surfaced to clients verbatim.
const (
	ReasonUserNotFound       = "User not found"
	ReasonKYCRequired        = "KYC information required"
	ReasonIncomeBelowMinimum = "Income below minimum threshold of $50,000"
	ReasonEmploymentRequired = "Employment information required"
	ReasonEvaluationError    = "Error processing application"
)

const cacheKeyPrefix = "loan_decision:"

// CacheKeyPattern matches every decision key.
const CacheKeyPattern = cacheKeyPrefix + "*"

// Decision is the immutable outcome of evaluating one loan request.
// Approved is true exactly when Status is approved.
type Decision struct {
	Approved bool              `json:"approved"`
	Status   domain.LoanStatus `json:"status"`
	Reason   string            `json:"reason"`
}

// Request identifies one decision. Identical requests share a cache entry.
type Request struct {
	UserID          string
	RequestedAmount float64
	Duration        int
}

// CacheKey renders the request fingerprint as
// loan_decision:<userId>:<amount>:<duration>, with the amount in its
// shortest decimal form.
func CacheKey(req Request) string {
	return cacheKeyPrefix + req.UserID +
		":" + strconv.FormatFloat(req.RequestedAmount, 'f', -1, 64) +
		":" + strconv.Itoa(req.Duration)
}

func approve(reason string) Decision {
	return Decision{Approved: true, Status: domain.LoanStatusApproved, Reason: reason}
}

func reject(reason string) Decision {
	return Decision{Approved: false, Status: domain.LoanStatusRejected, Reason: reason}
}

// errorDecision is the fail-closed outcome for any internal evaluation fault.
func errorDecision() Decision {
	return reject(ReasonEvaluationError)
}
