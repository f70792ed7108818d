package loanmock

import (
	"context"
	"time"

	domain "coop-lending/internal/domain/loan"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Lookups default to gorm.ErrRecordNotFound, writes to success.
type Repo struct {
	CreateFn                   func(ctx context.Context, l *domain.Loan) error
	SaveFn                     func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn              func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn     func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingLoanByMemberIDFn func(ctx context.Context, memberID string) (*domain.Loan, error)
	ListByMemberIDFn           func(ctx context.Context, memberID string) ([]domain.Loan, error)
	SaveGuarantorFn            func(ctx context.Context, g *domain.Guarantor) error
	AddRepaymentFn             func(ctx context.Context, r *domain.Repayment) error
	ListDueBeforeFn            func(ctx context.Context, cutoff time.Time) ([]domain.Loan, error)
	ListMaturedBeforeFn        func(ctx context.Context, cutoff time.Time) ([]domain.Loan, error)
	FineExistsFn               func(ctx context.Context, loanRef uint64, due time.Time, period int) (bool, error)
	CreateFineFn               func(ctx context.Context, f *domain.Fine) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) GetPendingLoanByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetPendingLoanByMemberIDFn != nil {
		return m.GetPendingLoanByMemberIDFn(ctx, memberID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) ListByMemberID(ctx context.Context, memberID string) ([]domain.Loan, error) {
	if m.ListByMemberIDFn != nil {
		return m.ListByMemberIDFn(ctx, memberID)
	}
	return nil, nil
}
func (m *Repo) SaveGuarantor(ctx context.Context, g *domain.Guarantor) error {
	if m.SaveGuarantorFn != nil {
		return m.SaveGuarantorFn(ctx, g)
	}
	return nil
}
func (m *Repo) AddRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.AddRepaymentFn != nil {
		return m.AddRepaymentFn(ctx, r)
	}
	return nil
}
func (m *Repo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
	if m.ListDueBeforeFn != nil {
		return m.ListDueBeforeFn(ctx, cutoff)
	}
	return nil, nil
}
func (m *Repo) ListMaturedBefore(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
	if m.ListMaturedBeforeFn != nil {
		return m.ListMaturedBeforeFn(ctx, cutoff)
	}
	return nil, nil
}
func (m *Repo) FineExists(ctx context.Context, loanRef uint64, due time.Time, period int) (bool, error) {
	if m.FineExistsFn != nil {
		return m.FineExistsFn(ctx, loanRef, due, period)
	}
	return false, nil
}
func (m *Repo) CreateFine(ctx context.Context, f *domain.Fine) error {
	if m.CreateFineFn != nil {
		return m.CreateFineFn(ctx, f)
	}
	return nil
}
