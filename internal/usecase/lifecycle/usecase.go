package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// errSkip ends a per-loan transaction without writing anything.
var errSkip = errors.New("nothing to do")

type Settings struct {
	GracePeriod time.Duration
	// FineRate is the percentage of the weekly installment charged per missed week.
	FineRate decimal.Decimal
}

type Usecase struct {
	loans loan.Repository
	uow   uow.UnitOfWork
	cfg   Settings
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewUsecase(loans loan.Repository, tx uow.UnitOfWork, cfg Settings, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		loans: loans,
		uow:   tx,
		cfg:   cfg,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// RecordRepayment books one installment against an approved loan. Paying the
// last kobo marks the loan repaid and releases its guarantors.
func (u *Usecase) RecordRepayment(ctx context.Context, in RepaymentInput) (*RepaymentDTO, error) {
	if in.Amount <= 0 {
		return nil, loan.ErrInvalidAmount
	}
	var dto *RepaymentDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusApproved {
			return loan.ErrNotRepayable
		}
		if in.Amount > l.RemainingAmount {
			return fmt.Errorf("%w: %s outstanding", loan.ErrOverpayment, l.RemainingAmount)
		}
		now := u.now()

		week := l.WeeksTotal - l.WeeksRemaining + 1
		l.RemainingAmount -= in.Amount
		if l.WeeksRemaining > 0 {
			l.WeeksRemaining--
		}
		if l.NextPaymentDate != nil {
			next := l.NextPaymentDate.Add(loan.Week)
			l.NextPaymentDate = &next
		}

		commitmentStatus := member.CommitmentActive
		if l.RemainingAmount == 0 {
			l.Status = loan.StatusRepaid
			l.StatusUpdatedAt = now
			l.WeeksRemaining = 0
			l.NextPaymentDate = nil
			commitmentStatus = member.CommitmentReleased
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		p := &loan.Repayment{LoanRef: l.ID, Amount: in.Amount, WeekNumber: week, RecordedBy: in.RecordedBy, PaidAt: now}
		if err := r.Loans.AddRepayment(ctx, p); err != nil {
			return err
		}
		if err := r.Members.UpdateCommitmentsByLoan(ctx, l.LoanID, l.RemainingAmount, commitmentStatus); err != nil {
			return err
		}

		borrower, err := r.Members.GetByMemberIDForUpdate(ctx, l.MemberID)
		if err != nil {
			return err
		}
		borrower.LoanBalance -= money.Min(in.Amount, borrower.LoanBalance)
		borrower.LastActivityAt = now
		if err := r.Members.Save(ctx, borrower); err != nil {
			return err
		}

		desc := fmt.Sprintf("recorded %s repayment (week %d) for %s; %s outstanding", in.Amount, week, l.MemberName, l.RemainingAmount)
		if err := r.AdminLogs.Create(ctx, adminlog.NewEntry(in.RecordedBy, adminlog.ActionLoanRepayment, "loan", l.LoanID, desc)); err != nil {
			return err
		}
		if l.Status == loan.StatusRepaid {
			if err := r.Notifications.Create(ctx, notification.New(l.MemberID, "", notification.TypeLoan, "Loan fully repaid",
				fmt.Sprintf("Your loan of %s is fully repaid. Your guarantors have been released.", l.Amount), l.LoanID)); err != nil {
				return err
			}
		}

		dto = &RepaymentDTO{
			LoanID:          l.LoanID,
			Amount:          in.Amount,
			WeekNumber:      week,
			RemainingAmount: l.RemainingAmount,
			WeeksRemaining:  l.WeeksRemaining,
			NextPaymentDate: l.NextPaymentDate,
			LoanStatus:      string(l.Status),
			PaidAt:          now,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// ApplyFines charges every approved loan whose installment is past the grace
// period. Each (loan, due date, overdue week) is charged at most once, so the
// job can run as often as the scheduler likes.
func (u *Usecase) ApplyFines(ctx context.Context, actorID string) (*FineRunResult, error) {
	now := u.now()
	due, err := u.loans.ListDueBefore(ctx, now.Add(-u.cfg.GracePeriod))
	if err != nil {
		return nil, err
	}
	res := &FineRunResult{Scanned: len(due)}

	for _, candidate := range due {
		var charged money.Amount
		err := u.uow.WithinLoanTx(ctx, candidate.LoanID, func(r uow.Repos, l *loan.Loan) error {
			if !l.IsOverdue(now, u.cfg.GracePeriod) {
				return errSkip
			}
			dueDate := l.NextPaymentDate.UTC()
			period := loan.FinePeriod(dueDate, u.cfg.GracePeriod, now)
			exists, err := r.Loans.FineExists(ctx, l.ID, dueDate, period)
			if err != nil {
				return err
			}
			if exists {
				return errSkip
			}
			fine := l.WeeklyPayment.Percent(u.cfg.FineRate)
			if fine <= 0 {
				return errSkip
			}

			if err := r.Loans.CreateFine(ctx, &loan.Fine{LoanRef: l.ID, MemberID: l.MemberID, Amount: fine, DueDate: dueDate, Period: period}); err != nil {
				return err
			}
			l.Fines += fine
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			borrower, err := r.Members.GetByMemberIDForUpdate(ctx, l.MemberID)
			if err != nil {
				return err
			}
			borrower.Fines += fine
			if err := r.Members.Save(ctx, borrower); err != nil {
				return err
			}
			msg := fmt.Sprintf("A late payment fine of %s was added to your loan. The installment of %s was due on %s.",
				fine, l.WeeklyPayment, dueDate.Format("2 Jan 2006"))
			if err := r.Notifications.Create(ctx, notification.New(l.MemberID, "", notification.TypeFine, "Late payment fine", msg, l.LoanID)); err != nil {
				return err
			}
			charged = fine
			return nil
		})
		switch {
		case errors.Is(err, errSkip), errors.Is(err, gorm.ErrDuplicatedKey):
			res.Skipped++
		case err != nil:
			res.Failed++
			u.log.WithError(err).WithField("loan_id", candidate.LoanID).Error("apply fine")
		default:
			res.Fined++
			res.TotalFined += charged
		}
	}

	if res.Fined > 0 {
		desc := fmt.Sprintf("applied %d late payment fine(s) totalling %s", res.Fined, res.TotalFined)
		if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			return r.AdminLogs.Create(ctx, adminlog.NewEntry(actorID, adminlog.ActionFinesApplied, "loan", "", desc))
		}); err != nil {
			return res, err
		}
	}
	u.log.WithFields(logrus.Fields{
		"scanned": res.Scanned, "fined": res.Fined, "skipped": res.Skipped, "failed": res.Failed,
	}).Info("fines run finished")
	return res, nil
}

// SweepDefaults moves approved loans still owing after maturity plus grace to defaulted.
func (u *Usecase) SweepDefaults(ctx context.Context, actorID string) (*DefaultRunResult, error) {
	now := u.now()
	matured, err := u.loans.ListMaturedBefore(ctx, now.Add(-u.cfg.GracePeriod))
	if err != nil {
		return nil, err
	}
	res := &DefaultRunResult{Scanned: len(matured), LoanIDs: []string{}}

	for _, candidate := range matured {
		err := u.uow.WithinLoanTx(ctx, candidate.LoanID, func(r uow.Repos, l *loan.Loan) error {
			if l.Status != loan.StatusApproved || l.RemainingAmount <= 0 || l.MaturityDate == nil ||
				!l.MaturityDate.Add(u.cfg.GracePeriod).Before(now) {
				return errSkip
			}
			l.Status = loan.StatusDefaulted
			l.StatusUpdatedAt = now
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			msg := fmt.Sprintf("Your loan of %s passed its maturity date with %s unpaid and is now in default.", l.Amount, l.RemainingAmount)
			if err := r.Notifications.Create(ctx, notification.New(l.MemberID, "", notification.TypeLoan, "Loan in default", msg, l.LoanID)); err != nil {
				return err
			}
			return r.AdminLogs.Create(ctx, adminlog.NewEntry(actorID, adminlog.ActionLoanDefault, "loan", l.LoanID,
				fmt.Sprintf("loan for %s defaulted with %s outstanding", l.MemberName, l.RemainingAmount)))
		})
		switch {
		case errors.Is(err, errSkip):
		case err != nil:
			res.Failed++
			u.log.WithError(err).WithField("loan_id", candidate.LoanID).Error("sweep default")
		default:
			res.Defaulted++
			res.LoanIDs = append(res.LoanIDs, candidate.LoanID)
		}
	}
	u.log.WithFields(logrus.Fields{"scanned": res.Scanned, "defaulted": res.Defaulted}).Info("default sweep finished")
	return res, nil
}
