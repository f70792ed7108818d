package approval

import (
	"time"

	"coop-lending/pkg/money"
)

type ApproveInput struct {
	LoanID  string
	AdminID string
	Note    string
}

type RejectInput struct {
	LoanID  string
	AdminID string
	Reason  string
}

type ApprovalDTO struct {
	ApprovalID      string       `json:"approval_id"`
	LoanID          string       `json:"loan_id"`
	Decision        string       `json:"decision"`
	AdminID         string       `json:"admin_id"`
	Note            string       `json:"note,omitempty"`
	DecidedAt       time.Time    `json:"decided_at"`
	LoanStatus      string       `json:"loan_status"`
	TotalAmount     money.Amount `json:"total_amount,omitempty"`
	WeeklyPayment   money.Amount `json:"weekly_payment,omitempty"`
	WeeksTotal      int          `json:"weeks_total,omitempty"`
	NextPaymentDate *time.Time   `json:"next_payment_date,omitempty"`
	MaturityDate    *time.Time   `json:"maturity_date,omitempty"`
}
