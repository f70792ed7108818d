package loan

import (
	"context"
	"time"
)

type Repository interface {
	// Creates the loan together with its guarantor rows
	Create(ctx context.Context, l *Loan) error
	// Persists loan columns only; associations have their own writers
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetPendingLoanByMemberID(ctx context.Context, memberID string) (*Loan, error)
	ListByMemberID(ctx context.Context, memberID string) ([]Loan, error)

	SaveGuarantor(ctx context.Context, g *Guarantor) error
	AddRepayment(ctx context.Context, r *Repayment) error

	// Approved loans whose next payment date is before cutoff
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]Loan, error)
	// Approved loans with an unpaid balance whose maturity date is before cutoff
	ListMaturedBefore(ctx context.Context, cutoff time.Time) ([]Loan, error)

	FineExists(ctx context.Context, loanRef uint64, due time.Time, period int) (bool, error)
	CreateFine(ctx context.Context, f *Fine) error
}
