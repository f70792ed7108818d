package approval

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"coop-lending/internal/adapter/repository/mysql"
	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/domain/approval"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	"coop-lending/internal/domain/uow"
	"coop-lending/internal/testutil/approvalmock"
	"coop-lending/internal/testutil/loanmock"
	"coop-lending/internal/testutil/membermock"
	"coop-lending/internal/testutil/notificationmock"
	"coop-lending/internal/testutil/sqlitedb"
	"coop-lending/internal/testutil/uowmock"
	"coop-lending/pkg/id"
	"coop-lending/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var now = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestUsecase_Approve(t *testing.T) {
	in := ApproveInput{LoanID: "LN-123", AdminID: "admin-1", Note: "ok"}

	newPendingLoan := func(statuses ...loan.GuarantorStatus) *loan.Loan {
		l := &loan.Loan{ID: 777, LoanID: "LN-123", MemberID: "M-1", Amount: money.FromNaira(120_000), DurationMonths: 12, Status: loan.StatusPending}
		for i, s := range statuses {
			l.Guarantors = append(l.Guarantors, loan.Guarantor{MemberID: "G", Position: i + 1, Status: s})
		}
		return l
	}

	tests := []struct {
		name    string
		loan    *loan.Loan
		loanErr error
		prior   *approval.Approval
		pledges []member.Commitment
		wantErr error
		check   func(*testing.T, *ApprovalDTO, *member.Member, *notificationmock.Repo)
	}{
		{
			name: "happy path pending -> approved",
			loan: newPendingLoan(loan.GuarantorAccepted, loan.GuarantorAccepted),
			check: func(t *testing.T, dto *ApprovalDTO, borrower *member.Member, notes *notificationmock.Repo) {
				if dto.LoanStatus != "approved" || dto.TotalAmount != money.FromNaira(126_000) || dto.WeeksTotal != 52 {
					t.Fatalf("dto mismatch: %+v", dto)
				}
				if !dto.NextPaymentDate.Equal(now.Add(loan.Week)) || !dto.MaturityDate.Equal(now.Add(52*loan.Week)) {
					t.Fatalf("schedule mismatch: next=%v maturity=%v", dto.NextPaymentDate, dto.MaturityDate)
				}
				if borrower.LoanBalance != money.FromNaira(126_000) {
					t.Fatalf("borrower loan balance = %s", borrower.LoanBalance)
				}
				if len(notes.Created) != 1 || notes.Created[0].Type != notification.TypeLoan {
					t.Fatalf("expected one loan notification, got %+v", notes.Created)
				}
			},
		},
		{name: "loan not found", loanErr: gorm.ErrRecordNotFound, wantErr: loan.ErrNotFound},
		{name: "already approved", loan: &loan.Loan{ID: 1, Status: loan.StatusApproved}, wantErr: loan.ErrAlreadyApproved},
		{name: "rejected loan", loan: &loan.Loan{ID: 1, Status: loan.StatusRejected}, wantErr: loan.ErrInvalidTransition},
		{name: "decision already recorded", loan: newPendingLoan(loan.GuarantorAccepted), prior: &approval.Approval{ID: 9}, wantErr: approval.ErrAlreadyDecided},
		{name: "guarantor still pending", loan: newPendingLoan(loan.GuarantorAccepted, loan.GuarantorPending), wantErr: loan.ErrGuarantorsNotAccepted},
		{name: "no guarantors", loan: newPendingLoan(), wantErr: loan.ErrGuarantorsNotAccepted},
		{
			name:    "borrower pledged to an open loan",
			loan:    newPendingLoan(loan.GuarantorAccepted),
			pledges: []member.Commitment{{BorrowerName: "Efe", RemainingAmount: money.FromNaira(10_000), Status: member.CommitmentActive}},
			wantErr: loan.ErrBorrowerIsGuarantor,
		},
		{
			name:    "settled pledge does not block",
			loan:    newPendingLoan(loan.GuarantorAccepted),
			pledges: []member.Commitment{{BorrowerName: "Efe", RemainingAmount: 0, Status: member.CommitmentActive}},
			check: func(t *testing.T, dto *ApprovalDTO, borrower *member.Member, notes *notificationmock.Repo) {
				if dto.LoanStatus != "approved" {
					t.Fatalf("dto mismatch: %+v", dto)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			borrower := &member.Member{MemberID: "M-1", Status: member.StatusActive}
			loans := &loanmock.Repo{
				GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*loan.Loan, error) {
					if tt.loanErr != nil {
						return nil, tt.loanErr
					}
					return tt.loan, nil
				},
				SaveFn: func(ctx context.Context, l *loan.Loan) error {
					if l.Status != loan.StatusApproved {
						t.Fatalf("expected status=approved, got %s", l.Status)
					}
					return nil
				},
			}
			apprs := &approvalmock.Repo{
				GetByLoanRefFn: func(ctx context.Context, ref uint64) (*approval.Approval, error) {
					if tt.prior != nil {
						return tt.prior, nil
					}
					return nil, gorm.ErrRecordNotFound
				},
				CreateFn: func(ctx context.Context, a *approval.Approval) error {
					if a.LoanRef != 777 || a.AdminID != "admin-1" || a.Decision != approval.DecisionApproved {
						t.Fatalf("approval mismatch: %+v", a)
					}
					return nil
				},
			}
			var commitmentTotal money.Amount
			members := &membermock.Repo{
				GetByMemberIDForUpdateFn: func(ctx context.Context, memberID string) (*member.Member, error) { return borrower, nil },
				ListActiveCommitmentsFn: func(ctx context.Context, guarantorID uint64) ([]member.Commitment, error) {
					return tt.pledges, nil
				},
				UpdateCommitmentsByLoanFn: func(ctx context.Context, loanID string, remaining money.Amount, status member.CommitmentStatus) error {
					commitmentTotal = remaining
					return nil
				},
			}
			notes := &notificationmock.Repo{}
			logs := &adminLogs{}
			tx := uowmock.Passthrough(uow.Repos{Loans: loans, Approvals: apprs, Members: members, Notifications: notes, AdminLogs: logs})

			u := NewUsecase(tx, decimal.NewFromInt(5), quietLog()).WithClock(func() time.Time { return now })
			dto, err := u.Approve(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want err %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if dto != nil {
					t.Fatalf("expected nil dto on error")
				}
				return
			}
			if commitmentTotal != dto.TotalAmount {
				t.Fatalf("commitments not moved to total repayable: %s", commitmentTotal)
			}
			if len(logs.entries) != 1 || logs.entries[0].Action != adminlog.ActionLoanApprove {
				t.Fatalf("admin log: %+v", logs.entries)
			}
			tt.check(t, dto, borrower, notes)
		})
	}
}

type adminLogs struct{ entries []adminlog.Entry }

func (a *adminLogs) Create(ctx context.Context, e *adminlog.Entry) error {
	a.entries = append(a.entries, *e)
	return nil
}
func (a *adminLogs) List(ctx context.Context, limit int) ([]adminlog.Entry, error) {
	return a.entries, nil
}

func TestUsecase_Approve_PropagatesTxError(t *testing.T) {
	boom := errors.New("deadlock")
	tx := uowmock.New().WithWithinLoanTx(func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
		return boom
	})
	u := NewUsecase(tx, decimal.NewFromInt(5), quietLog())
	if _, err := u.Approve(context.Background(), ApproveInput{LoanID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func seedPending(t *testing.T, db *gorm.DB) (*loan.Loan, *member.Member, *member.Member) {
	t.Helper()
	borrower := &member.Member{MemberID: id.NewID32(), MembershipNo: "COOP-000001", Name: "Ada", Status: member.StatusActive, Balance: money.FromNaira(100_000)}
	g := &member.Member{MemberID: id.NewID32(), MembershipNo: "COOP-000002", Name: "Bola", Status: member.StatusActive}
	for _, m := range []*member.Member{borrower, g} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	l := &loan.Loan{
		LoanID: id.NewID32(), MemberID: borrower.MemberID, MemberName: borrower.Name,
		Amount: money.FromNaira(60_000), DurationMonths: 6, Status: loan.StatusPending,
		Guarantors: []loan.Guarantor{{MemberID: g.MemberID, MemberName: g.Name, Position: 1, Status: loan.GuarantorAccepted}},
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	if err := db.Create(&member.Commitment{GuarantorID: g.ID, BorrowerID: borrower.MemberID, LoanID: l.LoanID, LoanAmount: l.Amount, RemainingAmount: l.Amount, Status: member.CommitmentActive}).Error; err != nil {
		t.Fatalf("seed commitment: %v", err)
	}
	return l, borrower, g
}

func TestUsecase_Approve_Persists(t *testing.T) {
	db := sqlitedb.Open(t)
	l, borrower, g := seedPending(t, db)
	u := NewUsecase(mysql.NewGormUoW(db), decimal.NewFromInt(5), quietLog()).WithClock(func() time.Time { return now })

	if _, err := u.Approve(context.Background(), ApproveInput{LoanID: l.LoanID, AdminID: "admin-1"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var got loan.Loan
	db.Where("loan_id = ?", l.LoanID).First(&got)
	// 60,000 + 5% = 63,000 over 26 weeks
	if got.Status != loan.StatusApproved || got.TotalAmount != money.FromNaira(63_000) || got.WeeksRemaining != 26 || got.RemainingAmount != money.FromNaira(63_000) {
		t.Fatalf("loan not activated: %+v", got)
	}

	var b member.Member
	db.Where("member_id = ?", borrower.MemberID).First(&b)
	if b.LoanBalance != money.FromNaira(63_000) {
		t.Fatalf("borrower loan balance = %s", b.LoanBalance)
	}

	var c member.Commitment
	db.Where("guarantor_id = ?", g.ID).First(&c)
	if c.RemainingAmount != money.FromNaira(63_000) {
		t.Fatalf("commitment remaining = %s", c.RemainingAmount)
	}

	if _, err := u.Approve(context.Background(), ApproveInput{LoanID: l.LoanID, AdminID: "admin-1"}); !errors.Is(err, loan.ErrAlreadyApproved) {
		t.Fatalf("second approve: want ErrAlreadyApproved, got %v", err)
	}
}

func TestUsecase_Approve_BorrowerGuaranteesAnotherLoan(t *testing.T) {
	db := sqlitedb.Open(t)
	l, borrower, _ := seedPending(t, db)
	if err := db.Create(&member.Commitment{GuarantorID: borrower.ID, BorrowerID: id.NewID32(), BorrowerName: "Efe", LoanID: id.NewID32(), LoanAmount: 500, RemainingAmount: 500, Status: member.CommitmentActive}).Error; err != nil {
		t.Fatalf("seed commitment: %v", err)
	}
	u := NewUsecase(mysql.NewGormUoW(db), decimal.NewFromInt(5), quietLog()).WithClock(func() time.Time { return now })

	if _, err := u.Approve(context.Background(), ApproveInput{LoanID: l.LoanID, AdminID: "admin-1"}); !errors.Is(err, loan.ErrBorrowerIsGuarantor) {
		t.Fatalf("want ErrBorrowerIsGuarantor, got %v", err)
	}

	var got loan.Loan
	db.Where("loan_id = ?", l.LoanID).First(&got)
	var b member.Member
	db.Where("member_id = ?", borrower.MemberID).First(&b)
	var decisions int64
	db.Model(&approval.Approval{}).Count(&decisions)
	if got.Status != loan.StatusPending || b.LoanBalance != 0 || decisions != 0 {
		t.Fatalf("blocked approval changed state: loan=%s balance=%s decisions=%d", got.Status, b.LoanBalance, decisions)
	}
}

func TestUsecase_Reject(t *testing.T) {
	db := sqlitedb.Open(t)
	l, borrower, g := seedPending(t, db)
	u := NewUsecase(mysql.NewGormUoW(db), decimal.NewFromInt(5), quietLog()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	open := notification.New(g.MemberID, borrower.MemberID, notification.TypeGuarantor, "Guarantor request", "", l.LoanID)
	db.Create(open)

	if _, err := u.Reject(ctx, RejectInput{LoanID: l.LoanID, AdminID: "admin-1", Reason: " "}); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("want ErrReasonRequired, got %v", err)
	}
	if _, err := u.Reject(ctx, RejectInput{LoanID: "missing", AdminID: "admin-1", Reason: "x"}); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	dto, err := u.Reject(ctx, RejectInput{LoanID: l.LoanID, AdminID: "admin-1", Reason: "insufficient history"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if dto.Decision != "rejected" || dto.LoanStatus != "rejected" || dto.Note != "insufficient history" {
		t.Fatalf("unexpected dto: %+v", dto)
	}

	var c member.Commitment
	db.Where("guarantor_id = ?", g.ID).First(&c)
	if c.Status != member.CommitmentReleased || c.RemainingAmount != 0 {
		t.Fatalf("commitment should be released: %+v", c)
	}

	var n notification.Notification
	db.Where("notification_id = ?", open.NotificationID).First(&n)
	if n.ActionRequired {
		t.Fatalf("guarantor request should be closed")
	}

	var count int64
	db.Model(&notification.Notification{}).Where("member_id = ? AND type = ?", borrower.MemberID, notification.TypeLoan).Count(&count)
	if count != 1 {
		t.Fatalf("borrower should be notified once, got %d", count)
	}

	if _, err := u.Reject(ctx, RejectInput{LoanID: l.LoanID, AdminID: "admin-1", Reason: "again"}); !errors.Is(err, loan.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}
