package approvalmock

import (
	"context"

	domain "coop-lending/internal/domain/approval"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, a *domain.Approval) error
	GetByLoanRefFn    func(ctx context.Context, loanRef uint64) (*domain.Approval, error)
	GetByApprovalIDFn func(ctx context.Context, approvalID string) (*domain.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByLoanRef(ctx context.Context, loanRef uint64) (*domain.Approval, error) {
	if m.GetByLoanRefFn != nil {
		return m.GetByLoanRefFn(ctx, loanRef)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByApprovalID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	if m.GetByApprovalIDFn != nil {
		return m.GetByApprovalIDFn(ctx, approvalID)
	}
	return nil, gorm.ErrRecordNotFound
}
