package member

import (
	"context"
	"time"

	"coop-lending/pkg/money"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	Save(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	// Locks the member row for the rest of the transaction
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
	// Case-insensitive substring match on name or membership number, borrower excluded
	Search(ctx context.Context, query, excludeMemberID string, limit int) ([]Member, error)
	NextSequence(ctx context.Context) (uint64, error)
	ListInactiveSince(ctx context.Context, cutoff time.Time) ([]Member, error)

	CreateCommitment(ctx context.Context, c *Commitment) error
	ListActiveCommitments(ctx context.Context, guarantorID uint64) ([]Commitment, error)
	UpdateCommitmentsByLoan(ctx context.Context, loanID string, remaining money.Amount, status CommitmentStatus) error
}
