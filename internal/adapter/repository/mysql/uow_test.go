package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	adminlogDomain "coop-lending/internal/domain/adminlog"
	loanDomain "coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/uow"
	"coop-lending/internal/testutil/sqlitedb"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	var loanID string
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan("m1", loanDomain.StatusPending)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		loanID = l.LoanID
		return r.Approvals.Create(ctx, makeApproval("APR-COMMIT", l.ID, time.Now()))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	repos := guow.Repos()
	if _, err := repos.Loans.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := repos.Approvals.GetByApprovalID(ctx, "APR-COMMIT"); err != nil {
		t.Fatalf("approval not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("boom")

	var loanID string
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan("m1", loanDomain.StatusPending)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		loanID = l.LoanID
		if err := r.AdminLogs.Create(ctx, adminlogDomain.NewEntry("admin", "test", "loan", l.LoanID, "x")); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := guow.Repos().Loans.GetByLoanID(ctx, loanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("loan should be rolled back, got %v", err)
	}
	logs, _ := guow.Repos().AdminLogs.List(ctx, 10)
	if len(logs) != 0 {
		t.Fatalf("admin log should be rolled back: %+v", logs)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	l := makeLoan("m1", loanDomain.StatusPending)
	if err := guow.Repos().Loans.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *loanDomain.Loan) error {
		if locked.ID != l.ID {
			t.Fatalf("wrong loan locked: %d", locked.ID)
		}
		locked.Status = loanDomain.StatusRejected
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	got, _ := guow.Repos().Loans.GetByLoanID(ctx, l.LoanID)
	if got.Status != loanDomain.StatusRejected {
		t.Fatalf("status = %s", got.Status)
	}

	err = guow.WithinLoanTx(ctx, "missing", func(uow.Repos, *loanDomain.Loan) error {
		t.Fatalf("callback must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}
