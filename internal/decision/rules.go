package decision

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"loandesk/internal/domain"
)

// Business thresholds. Income exactly at the floor and a ratio exactly at the
// ceiling both pass.
const (
	MinimumIncome      = 50000
	MaxDebtToIncomePct = 40
)

var (
	minimumIncome   = decimal.NewFromInt(MinimumIncome)
	maxDebtToIncome = decimal.New(MaxDebtToIncomePct, -2)
	hundred         = decimal.NewFromInt(100)
)

// EvaluateDecision applies the loan rule chain to an applicant snapshot.
// This is pure domain logic - no I/O, no side effects. A nil applicant means
// the user does not exist.
//
// Rule priority (fail-fast, nothing after the first failure runs):
//  1. Existence
//  2. KYC presence
//  3. Minimum income
//  4. Employment
//  5. Debt-to-income ratio
func EvaluateDecision(applicant *domain.Applicant, requestedAmount float64) Decision {
	// Rule 1: Existence
	if applicant == nil {
		return reject(ReasonUserNotFound)
	}

	// Rule 2: KYC presence
	kyc := applicant.KYC
	if kyc == nil {
		return reject(ReasonKYCRequired)
	}

	// Rule 3: Minimum income
	income := decimal.NewFromFloat(kyc.Income)
	if income.LessThan(minimumIncome) {
		return reject(ReasonIncomeBelowMinimum)
	}

	// Rule 4: Employment
	if strings.TrimSpace(kyc.Employer) == "" {
		return reject(ReasonEmploymentRequired)
	}

	// Rule 5: Debt-to-income ratio. Income is at least the floor here, so the
	// division is safe.
	dti := DebtToIncome(applicant.ApprovedLoans, requestedAmount, income)
	if dti.GreaterThan(maxDebtToIncome) {
		return reject(fmt.Sprintf("Debt-to-income ratio (%s%%) exceeds maximum of %d%%", FormatPercent(dti), MaxDebtToIncomePct))
	}

	return approve(fmt.Sprintf("Loan approved. DTI ratio: %s%%", FormatPercent(dti)))
}

// DebtToIncome returns (sum(approved) + requested) / income.
func DebtToIncome(approved []float64, requestedAmount float64, income decimal.Decimal) decimal.Decimal {
	total := decimal.NewFromFloat(requestedAmount)
	for _, amount := range approved {
		total = total.Add(decimal.NewFromFloat(amount))
	}
	return total.Div(income)
}

// FormatPercent renders a ratio as a percentage with one fractional digit,
// rounding half up.
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(1)
}
