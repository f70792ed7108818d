package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainAdminlog "coop-lending/internal/domain/adminlog"
	domainApproval "coop-lending/internal/domain/approval"
	domainLoan "coop-lending/internal/domain/loan"
	domainMember "coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrReasonRequired = errors.New("a rejection reason is required")

type Usecase struct {
	uow          uow.UnitOfWork
	interestRate decimal.Decimal
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, interestRate decimal.Decimal, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		uow:          tx,
		interestRate: interestRate,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// decidable is the state guard shared by approve and reject.
func decidable(ctx context.Context, r uow.Repos, l *domainLoan.Loan) error {
	if l.Status != domainLoan.StatusPending {
		if l.Status == domainLoan.StatusApproved {
			return domainLoan.ErrAlreadyApproved
		}
		return domainLoan.ErrInvalidTransition
	}
	if _, err := r.Approvals.GetByLoanRef(ctx, l.ID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	}
	return domainApproval.ErrAlreadyDecided
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}

// Approve activates a pending loan once every guarantor has accepted: the
// repayment schedule starts a week from now and the borrower's loan balance
// grows by the total repayable.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*ApprovalDTO, error) {
	var dto *ApprovalDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if err := decidable(ctx, r, l); err != nil {
			return err
		}
		if !l.AllGuarantorsAccepted() {
			return domainLoan.ErrGuarantorsNotAccepted
		}

		borrower, err := r.Members.GetByMemberIDForUpdate(ctx, l.MemberID)
		if err != nil {
			return err
		}
		pledges, err := r.Members.ListActiveCommitments(ctx, borrower.ID)
		if err != nil {
			return err
		}
		for _, c := range pledges {
			if c.RemainingAmount > 0 {
				return fmt.Errorf("%w for %s", domainLoan.ErrBorrowerIsGuarantor, c.BorrowerName)
			}
		}

		now := u.now().Truncate(time.Second)
		terms := domainLoan.CalculateTerms(l.Amount, l.DurationMonths, u.interestRate)
		next := now.Add(domainLoan.Week)
		maturity := now.Add(time.Duration(terms.Weeks) * domainLoan.Week)

		l.Status = domainLoan.StatusApproved
		l.StatusUpdatedAt = now
		l.InterestAmount = terms.InterestAmount
		l.TotalAmount = terms.TotalAmount
		l.MonthlyPayment = terms.MonthlyPayment
		l.WeeklyPayment = terms.WeeklyPayment
		l.WeeksTotal = terms.Weeks
		l.WeeksRemaining = terms.Weeks
		l.RemainingAmount = terms.TotalAmount
		l.ApprovedAt = &now
		l.NextPaymentDate = &next
		l.MaturityDate = &maturity
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		borrower.LoanBalance += terms.TotalAmount
		borrower.LastActivityAt = now
		if err := r.Members.Save(ctx, borrower); err != nil {
			return err
		}
		if err := r.Members.UpdateCommitmentsByLoan(ctx, l.LoanID, terms.TotalAmount, domainMember.CommitmentActive); err != nil {
			return err
		}

		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			LoanRef:    l.ID,
			AdminID:    in.AdminID,
			Decision:   domainApproval.DecisionApproved,
			Note:       strings.TrimSpace(in.Note),
			DecidedAt:  now,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your loan of %s has been approved. Pay %s weekly for %d weeks; the first payment is due on %s.",
			l.Amount, terms.WeeklyPayment, terms.Weeks, next.Format("2 Jan 2006"))
		if err := r.Notifications.Create(ctx, notification.New(l.MemberID, "", notification.TypeLoan, "Loan approved", msg, l.LoanID)); err != nil {
			return err
		}
		if err := r.AdminLogs.Create(ctx, domainAdminlog.NewEntry(in.AdminID, domainAdminlog.ActionLoanApprove, "loan", l.LoanID,
			fmt.Sprintf("approved %s loan for %s; total repayable %s", l.Amount, l.MemberName, terms.TotalAmount))); err != nil {
			return err
		}

		dto = &ApprovalDTO{
			ApprovalID:      a.ApprovalID,
			LoanID:          l.LoanID,
			Decision:        string(a.Decision),
			AdminID:         a.AdminID,
			Note:            a.Note,
			DecidedAt:       a.DecidedAt,
			LoanStatus:      string(l.Status),
			TotalAmount:     l.TotalAmount,
			WeeklyPayment:   l.WeeklyPayment,
			WeeksTotal:      l.WeeksTotal,
			NextPaymentDate: l.NextPaymentDate,
			MaturityDate:    l.MaturityDate,
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.log.WithFields(logrus.Fields{"loan_id": dto.LoanID, "admin_id": in.AdminID}).Info("loan approved")
	return dto, nil
}

// Reject closes a pending application and frees its guarantors.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*ApprovalDTO, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	var dto *ApprovalDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if err := decidable(ctx, r, l); err != nil {
			return err
		}
		now := u.now().Truncate(time.Second)

		l.Status = domainLoan.StatusRejected
		l.StatusUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Members.UpdateCommitmentsByLoan(ctx, l.LoanID, 0, domainMember.CommitmentReleased); err != nil {
			return err
		}
		if err := r.Notifications.CloseGuarantorRequests(ctx, l.LoanID); err != nil {
			return err
		}

		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			LoanRef:    l.ID,
			AdminID:    in.AdminID,
			Decision:   domainApproval.DecisionRejected,
			Note:       reason,
			DecidedAt:  now,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your loan application for %s was not approved. Reason: %s", l.Amount, reason)
		if err := r.Notifications.Create(ctx, notification.New(l.MemberID, "", notification.TypeLoan, "Loan application rejected", msg, l.LoanID)); err != nil {
			return err
		}
		if err := r.AdminLogs.Create(ctx, domainAdminlog.NewEntry(in.AdminID, domainAdminlog.ActionLoanReject, "loan", l.LoanID,
			fmt.Sprintf("rejected %s loan for %s: %s", l.Amount, l.MemberName, reason))); err != nil {
			return err
		}

		dto = &ApprovalDTO{
			ApprovalID: a.ApprovalID,
			LoanID:     l.LoanID,
			Decision:   string(a.Decision),
			AdminID:    a.AdminID,
			Note:       a.Note,
			DecidedAt:  a.DecidedAt,
			LoanStatus: string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.log.WithFields(logrus.Fields{"loan_id": dto.LoanID, "admin_id": in.AdminID}).Info("loan rejected")
	return dto, nil
}
