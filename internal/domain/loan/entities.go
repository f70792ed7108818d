package loan

import (
	"time"

	"coop-lending/pkg/money"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

type GuarantorStatus string

const (
	GuarantorPending  GuarantorStatus = "pending"
	GuarantorAccepted GuarantorStatus = "accepted"
	GuarantorRejected GuarantorStatus = "rejected"
)

type Loan struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	MemberID        string         `gorm:"size:32;not null;index:idx_loans_member" json:"member_id"`
	MemberName      string         `gorm:"size:128" json:"member_name"`
	Amount          money.Amount   `gorm:"not null" json:"amount"`
	Purpose         string         `gorm:"type:text" json:"purpose"`
	DurationMonths  int            `gorm:"not null" json:"duration_months"`
	Status          Status         `gorm:"size:16;not null;default:'pending';index:idx_loans_status" json:"status"`
	InterestAmount  money.Amount   `json:"interest_amount"`
	TotalAmount     money.Amount   `json:"total_amount"`
	MonthlyPayment  money.Amount   `json:"monthly_payment"`
	WeeklyPayment   money.Amount   `json:"weekly_payment"`
	WeeksTotal      int            `json:"weeks_total"`
	WeeksRemaining  int            `json:"weeks_remaining"`
	RemainingAmount money.Amount   `json:"remaining_amount"`
	Fines           money.Amount   `gorm:"not null;default:0" json:"fines"`
	NextPaymentDate *time.Time     `json:"next_payment_date,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	MaturityDate    *time.Time     `json:"maturity_date,omitempty"`
	Guarantors      []Guarantor    `gorm:"foreignKey:LoanRef" json:"guarantors"`
	Repayments      []Repayment    `gorm:"foreignKey:LoanRef" json:"repayment_history"`
	StatusUpdatedAt time.Time      `json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Guarantor returns the entry pledged by memberID, or nil.
func (l *Loan) Guarantor(memberID string) *Guarantor {
	for i := range l.Guarantors {
		if l.Guarantors[i].MemberID == memberID {
			return &l.Guarantors[i]
		}
	}
	return nil
}

// AllGuarantorsAccepted is false for a loan without guarantors.
func (l *Loan) AllGuarantorsAccepted() bool {
	if len(l.Guarantors) == 0 {
		return false
	}
	for _, g := range l.Guarantors {
		if g.Status != GuarantorAccepted {
			return false
		}
	}
	return true
}

// IsOverdue: an approved loan whose next installment is more than grace past due.
func (l *Loan) IsOverdue(now time.Time, grace time.Duration) bool {
	if l.Status != StatusApproved || l.NextPaymentDate == nil {
		return false
	}
	return l.NextPaymentDate.Add(grace).Before(now)
}

type Guarantor struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanRef     uint64          `gorm:"not null;index" json:"-"`
	MemberID    string          `gorm:"size:32;not null;index" json:"member_id"`
	MemberName  string          `gorm:"size:128" json:"member_name"`
	Position    int             `gorm:"not null" json:"position"`
	Status      GuarantorStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Guarantor) TableName() string { return "loan_guarantors" }

type Repayment struct {
	ID         uint64       `gorm:"primaryKey;column:id" json:"-"`
	LoanRef    uint64       `gorm:"not null;index" json:"-"`
	Amount     money.Amount `gorm:"not null" json:"amount"`
	WeekNumber int          `json:"week_number"`
	RecordedBy string       `gorm:"size:64" json:"recorded_by"`
	PaidAt     time.Time    `json:"paid_at"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "loan_repayments" }

// Fine is one late-payment charge. (LoanRef, DueDate, Period) is unique so a
// batch run can never charge the same overdue week twice.
type Fine struct {
	ID        uint64       `gorm:"primaryKey;column:id" json:"-"`
	LoanRef   uint64       `gorm:"not null;uniqueIndex:ux_loan_fines_period" json:"-"`
	MemberID  string       `gorm:"size:32;not null;index" json:"member_id"`
	Amount    money.Amount `gorm:"not null" json:"amount"`
	DueDate   time.Time    `gorm:"not null;uniqueIndex:ux_loan_fines_period" json:"due_date"`
	Period    int          `gorm:"not null;uniqueIndex:ux_loan_fines_period" json:"period"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Fine) TableName() string { return "loan_fines" }
