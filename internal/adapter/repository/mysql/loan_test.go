package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "coop-lending/internal/domain/loan"
	"coop-lending/internal/testutil/sqlitedb"
	"coop-lending/pkg/id"

	"gorm.io/gorm"
)

func makeLoan(memberID string, status loanDomain.Status) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:          id.NewID32(),
		MemberID:        memberID,
		MemberName:      "Ada",
		Amount:          100_000,
		Purpose:         "stock",
		DurationMonths:  6,
		Status:          status,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func TestLoan_CreateWithGuarantorsAndGet(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan("m1", loanDomain.StatusPending)
	l.Guarantors = []loanDomain.Guarantor{
		{MemberID: "g2", Position: 2, Status: loanDomain.GuarantorPending},
		{MemberID: "g1", Position: 1, Status: loanDomain.GuarantorPending},
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByLoanIDForUpdate(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if len(got.Guarantors) != 2 || got.Guarantors[0].MemberID != "g1" {
		t.Fatalf("guarantors not preloaded in position order: %+v", got.Guarantors)
	}

	g := got.Guarantor("g2")
	g.Status = loanDomain.GuarantorAccepted
	if err := repo.SaveGuarantor(ctx, g); err != nil {
		t.Fatalf("SaveGuarantor: %v", err)
	}
	if err := repo.AddRepayment(ctx, &loanDomain.Repayment{LoanRef: got.ID, Amount: 500, WeekNumber: 1, PaidAt: time.Now().UTC()}); err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}

	got, _ = repo.GetByLoanID(ctx, l.LoanID)
	if got.Guarantor("g2").Status != loanDomain.GuarantorAccepted || len(got.Repayments) != 1 {
		t.Fatalf("children not persisted: %+v", got)
	}

	if _, err := repo.GetByLoanID(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestLoan_PendingAndList(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	if _, err := repo.GetPendingLoanByMemberID(ctx, "m1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
	_ = repo.Create(ctx, makeLoan("m1", loanDomain.StatusRepaid))
	pending := makeLoan("m1", loanDomain.StatusPending)
	_ = repo.Create(ctx, pending)
	_ = repo.Create(ctx, makeLoan("m2", loanDomain.StatusPending))

	got, err := repo.GetPendingLoanByMemberID(ctx, "m1")
	if err != nil || got.LoanID != pending.LoanID {
		t.Fatalf("GetPendingLoanByMemberID: %+v %v", got, err)
	}

	list, err := repo.ListByMemberID(ctx, "m1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByMemberID: %d %v", len(list), err)
	}
}

func TestLoan_Schedules(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	past, future := now.Add(-48*time.Hour), now.Add(48*time.Hour)

	due := makeLoan("m1", loanDomain.StatusApproved)
	due.NextPaymentDate, due.MaturityDate, due.RemainingAmount = &past, &past, 100
	notDue := makeLoan("m2", loanDomain.StatusApproved)
	notDue.NextPaymentDate, notDue.MaturityDate, notDue.RemainingAmount = &future, &future, 100
	settled := makeLoan("m3", loanDomain.StatusApproved)
	settled.NextPaymentDate, settled.MaturityDate = &past, &past
	for _, l := range []*loanDomain.Loan{due, notDue, settled} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	dueList, err := repo.ListDueBefore(ctx, now)
	if err != nil || len(dueList) != 2 {
		t.Fatalf("ListDueBefore: %d %v", len(dueList), err)
	}
	matured, err := repo.ListMaturedBefore(ctx, now)
	if err != nil || len(matured) != 1 || matured[0].LoanID != due.LoanID {
		t.Fatalf("ListMaturedBefore: %+v %v", matured, err)
	}
}

func TestLoan_FinesAreUniquePerPeriod(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	dueDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	l := makeLoan("m1", loanDomain.StatusApproved)
	_ = repo.Create(ctx, l)

	ok, err := repo.FineExists(ctx, l.ID, dueDate, 0)
	if err != nil || ok {
		t.Fatalf("FineExists before insert: %v %v", ok, err)
	}
	if err := repo.CreateFine(ctx, &loanDomain.Fine{LoanRef: l.ID, MemberID: "m1", Amount: 10, DueDate: dueDate, Period: 0}); err != nil {
		t.Fatalf("CreateFine: %v", err)
	}
	ok, _ = repo.FineExists(ctx, l.ID, dueDate, 0)
	if !ok {
		t.Fatalf("fine not found after insert")
	}
	if ok, _ := repo.FineExists(ctx, l.ID, dueDate, 1); ok {
		t.Fatalf("next period must be free")
	}

	err = repo.CreateFine(ctx, &loanDomain.Fine{LoanRef: l.ID, MemberID: "m1", Amount: 10, DueDate: dueDate, Period: 0})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("want ErrDuplicatedKey, got %v", err)
	}
}
