package loan

import "errors"

var (
	ErrNotFound              = errors.New("loan not found")
	ErrInvalidTransition     = errors.New("invalid loan state transition")
	ErrAlreadyApproved       = errors.New("loan already approved")
	ErrGuarantorsNotAccepted = errors.New("all guarantors must accept before approval")
	ErrSecondGuarantor       = errors.New("a second guarantor is required: combined savings do not cover the loan amount")
	ErrSelfGuarantee         = errors.New("borrower cannot guarantee own loan")
	ErrDuplicateGuarantor    = errors.New("the same member cannot be selected twice as guarantor")
	ErrInvalidDuration       = errors.New("duration must be 6, 12, 18 or 24 months")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrPurposeRequired       = errors.New("purpose is required")
	ErrGuarantorRequired     = errors.New("at least one guarantor is required")
	ErrNotRepayable          = errors.New("only approved loans accept repayments")
	ErrOverpayment           = errors.New("repayment exceeds remaining amount")
	ErrBorrowerIsGuarantor   = errors.New("borrower is guaranteeing an active loan")
)

// IneligibleError carries the reason reported by the eligibility check.
type IneligibleError struct{ Reason string }

func (e *IneligibleError) Error() string { return "not eligible: " + e.Reason }
