package lifecycle

import (
	"time"

	"coop-lending/pkg/money"
)

type RepaymentInput struct {
	LoanID     string
	Amount     money.Amount
	RecordedBy string
}

type RepaymentDTO struct {
	LoanID          string       `json:"loan_id"`
	Amount          money.Amount `json:"amount"`
	WeekNumber      int          `json:"week_number"`
	RemainingAmount money.Amount `json:"remaining_amount"`
	WeeksRemaining  int          `json:"weeks_remaining"`
	NextPaymentDate *time.Time   `json:"next_payment_date,omitempty"`
	LoanStatus      string       `json:"loan_status"`
	PaidAt          time.Time    `json:"paid_at"`
}

// FineRunResult summarises one pass of the automated fines job.
type FineRunResult struct {
	Scanned    int          `json:"scanned"`
	Fined      int          `json:"fined"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	TotalFined money.Amount `json:"total_fined"`
}

type DefaultRunResult struct {
	Scanned   int      `json:"scanned"`
	Defaulted int      `json:"defaulted"`
	Failed    int      `json:"failed"`
	LoanIDs   []string `json:"loan_ids"`
}
