package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDomain "coop-lending/internal/domain/approval"
	"coop-lending/internal/testutil/sqlitedb"

	"gorm.io/gorm"
)

func makeApproval(approvalID string, loanRef uint64, when time.Time) *approvalDomain.Approval {
	return &approvalDomain.Approval{
		ApprovalID: approvalID,
		LoanRef:    loanRef,
		AdminID:    "admin-1",
		Decision:   approvalDomain.DecisionApproved,
		DecidedAt:  when.UTC(),
	}
}

func TestApproval_CreateAndGet(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := repo.Create(ctx, makeApproval("APR-001", 777, now)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	gotByLoan, err := repo.GetByLoanRef(ctx, 777)
	if err != nil {
		t.Fatalf("GetByLoanRef: %v", err)
	}
	if gotByLoan.ApprovalID != "APR-001" || !gotByLoan.DecidedAt.Equal(now) {
		t.Errorf("unexpected row by loan: %+v", gotByLoan)
	}

	gotByID, err := repo.GetByApprovalID(ctx, "APR-001")
	if err != nil || gotByID.LoanRef != 777 {
		t.Fatalf("GetByApprovalID: %+v %v", gotByID, err)
	}

	if _, err := repo.GetByApprovalID(ctx, "NOPE"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestApproval_OneDecisionPerLoan(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeApproval("APR-A", 1, time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeApproval("APR-B", 1, time.Now())); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("want ErrDuplicatedKey, got %v", err)
	}
}
