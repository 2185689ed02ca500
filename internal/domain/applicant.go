package domain

// Applicant is the read-only snapshot the decision rules run against: the
// user, their KYC (nil when not submitted), and the amounts of loans already
// in approved status. Pending and rejected loans never appear here.
type Applicant struct {
	UserID        string
	KYC           *KYC
	ApprovedLoans []float64
}
