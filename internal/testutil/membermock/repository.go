package membermock

import (
	"context"
	"time"

	domain "coop-lending/internal/domain/member"
	"coop-lending/pkg/money"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Lookups default to gorm.ErrRecordNotFound, writes to success.
type Repo struct {
	CreateFn                  func(ctx context.Context, m *domain.Member) error
	SaveFn                    func(ctx context.Context, m *domain.Member) error
	GetByMemberIDFn           func(ctx context.Context, memberID string) (*domain.Member, error)
	GetByMemberIDForUpdateFn  func(ctx context.Context, memberID string) (*domain.Member, error)
	SearchFn                  func(ctx context.Context, query, excludeMemberID string, limit int) ([]domain.Member, error)
	NextSequenceFn            func(ctx context.Context) (uint64, error)
	ListInactiveSinceFn       func(ctx context.Context, cutoff time.Time) ([]domain.Member, error)
	CreateCommitmentFn        func(ctx context.Context, c *domain.Commitment) error
	ListActiveCommitmentsFn   func(ctx context.Context, guarantorID uint64) ([]domain.Commitment, error)
	UpdateCommitmentsByLoanFn func(ctx context.Context, loanID string, remaining money.Amount, status domain.CommitmentStatus) error
}

func (m *Repo) Create(ctx context.Context, v *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, v *domain.Member) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, v)
	}
	return nil
}
func (m *Repo) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDFn != nil {
		return m.GetByMemberIDFn(ctx, memberID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDForUpdateFn != nil {
		return m.GetByMemberIDForUpdateFn(ctx, memberID)
	}
	if m.GetByMemberIDFn != nil {
		return m.GetByMemberIDFn(ctx, memberID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) Search(ctx context.Context, query, excludeMemberID string, limit int) ([]domain.Member, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, excludeMemberID, limit)
	}
	return nil, nil
}
func (m *Repo) NextSequence(ctx context.Context) (uint64, error) {
	if m.NextSequenceFn != nil {
		return m.NextSequenceFn(ctx)
	}
	return 1, nil
}
func (m *Repo) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]domain.Member, error) {
	if m.ListInactiveSinceFn != nil {
		return m.ListInactiveSinceFn(ctx, cutoff)
	}
	return nil, nil
}
func (m *Repo) CreateCommitment(ctx context.Context, c *domain.Commitment) error {
	if m.CreateCommitmentFn != nil {
		return m.CreateCommitmentFn(ctx, c)
	}
	return nil
}
func (m *Repo) ListActiveCommitments(ctx context.Context, guarantorID uint64) ([]domain.Commitment, error) {
	if m.ListActiveCommitmentsFn != nil {
		return m.ListActiveCommitmentsFn(ctx, guarantorID)
	}
	return nil, nil
}
func (m *Repo) UpdateCommitmentsByLoan(ctx context.Context, loanID string, remaining money.Amount, status domain.CommitmentStatus) error {
	if m.UpdateCommitmentsByLoanFn != nil {
		return m.UpdateCommitmentsByLoanFn(ctx, loanID, remaining, status)
	}
	return nil
}
