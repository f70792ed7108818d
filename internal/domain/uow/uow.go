package uow

import (
	"context"

	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/domain/approval"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
)

// Repos bundles every repository bound to the same transaction.
type Repos struct {
	Members       member.Repository
	Loans         loan.Repository
	Notifications notification.Repository
	Approvals     approval.Repository
	AdminLogs     adminlog.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
