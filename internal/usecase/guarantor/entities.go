package guarantor

import (
	"errors"
	"time"

	"coop-lending/internal/domain/loan"
	"coop-lending/pkg/money"
)

var (
	ErrInvalidResponse  = errors.New("response must be accepted or rejected")
	ErrTermsNotAccepted = errors.New("guarantor terms must be accepted")
	ErrAlreadyResponded = errors.New("guarantor has already responded")
	ErrLoanNotPending   = errors.New("loan is no longer awaiting guarantors")
)

type RespondInput struct {
	NotificationID string
	MemberID       string
	Response       loan.GuarantorStatus
	AgreedToTerms  bool
}

type ResponseDTO struct {
	NotificationID string    `json:"notification_id"`
	LoanID         string    `json:"loan_id"`
	MemberID       string    `json:"member_id"`
	Response       string    `json:"response"`
	RespondedAt    time.Time `json:"responded_at"`
	LoanStatus     string    `json:"loan_status"`
	// AllAccepted reports whether the loan is ready for admin review.
	AllAccepted bool `json:"all_accepted"`
}

// RequestDTO is an open guarantor request as shown to the guarantor.
type RequestDTO struct {
	NotificationID       string       `json:"notification_id"`
	LoanID               string       `json:"loan_id"`
	BorrowerID           string       `json:"borrower_id"`
	BorrowerName         string       `json:"borrower_name"`
	BorrowerMembershipNo string       `json:"borrower_membership_no"`
	Amount               money.Amount `json:"amount"`
	Purpose              string       `json:"purpose"`
	DurationMonths       int          `json:"duration_months"`
	Message              string       `json:"message"`
	RequestedAt          time.Time    `json:"requested_at"`
}
