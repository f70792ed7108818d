package loan

import (
	"time"

	"coop-lending/internal/domain/loan"
	"coop-lending/pkg/money"
)

type ApplyInput struct {
	MemberID       string
	Amount         money.Amount
	Purpose        string
	DurationMonths int
	Guarantor1ID   string
	Guarantor2ID   string // optional unless the combined savings rule demands it
}

type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	// MaxAmount is the savings-based ceiling; zero when no cap is configured.
	MaxAmount money.Amount `json:"max_amount,omitempty"`
}

type GuarantorDTO struct {
	MemberID    string     `json:"member_id"`
	MemberName  string     `json:"member_name"`
	Position    int        `json:"position"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type RepaymentDTO struct {
	Amount     money.Amount `json:"amount"`
	WeekNumber int          `json:"week_number"`
	RecordedBy string       `json:"recorded_by"`
	PaidAt     time.Time    `json:"paid_at"`
}

type LoanDTO struct {
	LoanID             string         `json:"loan_id"`
	MemberID           string         `json:"member_id"`
	MemberName         string         `json:"member_name"`
	Amount             money.Amount   `json:"amount"`
	Purpose            string         `json:"purpose"`
	DurationMonths     int            `json:"duration_months"`
	Status             string         `json:"status"`
	InterestAmount     money.Amount   `json:"interest_amount"`
	TotalAmount        money.Amount   `json:"total_amount"`
	MonthlyPayment     money.Amount   `json:"monthly_payment"`
	WeeklyPayment      money.Amount   `json:"weekly_payment"`
	WeeksRemaining     int            `json:"weeks_remaining"`
	RemainingAmount    money.Amount   `json:"remaining_amount"`
	Fines              money.Amount   `json:"fines"`
	NextPaymentDate    *time.Time     `json:"next_payment_date,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	MaturityDate       *time.Time     `json:"maturity_date,omitempty"`
	Overdue            bool           `json:"overdue"`
	RequiredGuarantors int            `json:"required_guarantors,omitempty"`
	Guarantors         []GuarantorDTO `json:"guarantors"`
	RepaymentHistory   []RepaymentDTO `json:"repayment_history"`
	CreatedAt          time.Time      `json:"created_at"`
}

func toDTO(l *loan.Loan, now time.Time, grace time.Duration) *LoanDTO {
	dto := &LoanDTO{
		LoanID:           l.LoanID,
		MemberID:         l.MemberID,
		MemberName:       l.MemberName,
		Amount:           l.Amount,
		Purpose:          l.Purpose,
		DurationMonths:   l.DurationMonths,
		Status:           string(l.Status),
		InterestAmount:   l.InterestAmount,
		TotalAmount:      l.TotalAmount,
		MonthlyPayment:   l.MonthlyPayment,
		WeeklyPayment:    l.WeeklyPayment,
		WeeksRemaining:   l.WeeksRemaining,
		RemainingAmount:  l.RemainingAmount,
		Fines:            l.Fines,
		NextPaymentDate:  l.NextPaymentDate,
		ApprovedAt:       l.ApprovedAt,
		MaturityDate:     l.MaturityDate,
		Overdue:          l.IsOverdue(now, grace),
		Guarantors:       make([]GuarantorDTO, 0, len(l.Guarantors)),
		RepaymentHistory: make([]RepaymentDTO, 0, len(l.Repayments)),
		CreatedAt:        l.CreatedAt,
	}
	for _, g := range l.Guarantors {
		dto.Guarantors = append(dto.Guarantors, GuarantorDTO{
			MemberID:    g.MemberID,
			MemberName:  g.MemberName,
			Position:    g.Position,
			Status:      string(g.Status),
			RespondedAt: g.RespondedAt,
		})
	}
	for _, r := range l.Repayments {
		dto.RepaymentHistory = append(dto.RepaymentHistory, RepaymentDTO{
			Amount:     r.Amount,
			WeekNumber: r.WeekNumber,
			RecordedBy: r.RecordedBy,
			PaidAt:     r.PaidAt,
		})
	}
	return dto
}
