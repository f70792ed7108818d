package guarantor

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

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// errNoop aborts the transaction for requests that cannot be resolved.
var errNoop = errors.New("guarantor response ignored")

type Usecase struct {
	notifications notification.Repository
	loans         loan.Repository
	members       member.Repository
	uow           uow.UnitOfWork
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewUsecase(notifications notification.Repository, loans loan.Repository, members member.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		notifications: notifications,
		loans:         loans,
		members:       members,
		uow:           tx,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Respond records a guarantor's answer to the request behind NotificationID.
// A request that no longer resolves to a loan and guarantor entry yields (nil, nil).
func (u *Usecase) Respond(ctx context.Context, in RespondInput) (*ResponseDTO, error) {
	if in.Response != loan.GuarantorAccepted && in.Response != loan.GuarantorRejected {
		return nil, ErrInvalidResponse
	}
	if in.Response == loan.GuarantorAccepted && !in.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}

	n, err := u.notifications.GetByNotificationID(ctx, in.NotificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if n.Type != notification.TypeGuarantor || n.RelatedID == "" {
		return nil, nil
	}
	if n.MemberID != in.MemberID {
		return nil, notification.ErrNotRecipient
	}

	var (
		dto        *ResponseDTO
		notPending bool
	)
	err = u.uow.WithinLoanTx(ctx, n.RelatedID, func(r uow.Repos, l *loan.Loan) error {
		req, err := r.Notifications.GetByNotificationID(ctx, in.NotificationID)
		if err != nil {
			return err
		}
		g := l.Guarantor(in.MemberID)
		if g == nil {
			return errNoop
		}
		if g.Status != loan.GuarantorPending {
			return ErrAlreadyResponded
		}
		if l.Status != loan.StatusPending {
			// commit the closed request, report the conflict afterwards
			notPending = true
			req.Close()
			return r.Notifications.Save(ctx, req)
		}

		now := u.now()
		g.Status = in.Response
		g.RespondedAt = &now
		if err := r.Loans.SaveGuarantor(ctx, g); err != nil {
			return err
		}
		req.Close()
		if err := r.Notifications.Save(ctx, req); err != nil {
			return err
		}

		gm, err := r.Members.GetByMemberIDForUpdate(ctx, in.MemberID)
		if err != nil {
			return err
		}
		if in.Response == loan.GuarantorAccepted {
			if !gm.CanBeGuarantor() {
				return fmt.Errorf("%w: %s", member.ErrCannotGuarantee, gm.Name)
			}
			// a member with an open application cannot pledge at the same time
			switch _, err := r.Loans.GetPendingLoanByMemberID(ctx, gm.MemberID); {
			case err == nil:
				return fmt.Errorf("%w: %s has a pending loan application", member.ErrCannotGuarantee, gm.Name)
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
			if err := r.Members.CreateCommitment(ctx, &member.Commitment{
				GuarantorID:     gm.ID,
				BorrowerID:      l.MemberID,
				BorrowerName:    l.MemberName,
				LoanID:          l.LoanID,
				LoanAmount:      l.Amount,
				RemainingAmount: l.Amount,
				Status:          member.CommitmentActive,
			}); err != nil {
				return err
			}
		}
		gm.LastActivityAt = now
		if err := r.Members.Save(ctx, gm); err != nil {
			return err
		}

		verb := "accepted"
		if in.Response == loan.GuarantorRejected {
			verb = "declined"
		}
		reply := notification.New(l.MemberID, in.MemberID, notification.TypeGuarantorResponse,
			fmt.Sprintf("Guarantor request %s", verb),
			fmt.Sprintf("%s has %s your guarantor request for the %s loan.", gm.Name, verb, l.Amount),
			l.LoanID)
		if err := r.Notifications.Create(ctx, reply); err != nil {
			return err
		}
		if in.Response == loan.GuarantorRejected {
			if err := r.AdminLogs.Create(ctx, adminlog.NewEntry(adminlog.SystemActor, adminlog.ActionGuarantorDeclined, "loan", l.LoanID,
				fmt.Sprintf("%s declined to guarantee the %s loan for %s; awaiting admin decision", gm.Name, l.Amount, l.MemberName))); err != nil {
				return err
			}
		}

		dto = &ResponseDTO{
			NotificationID: req.NotificationID,
			LoanID:         l.LoanID,
			MemberID:       in.MemberID,
			Response:       string(in.Response),
			RespondedAt:    now,
			LoanStatus:     string(l.Status),
			AllAccepted:    l.AllGuarantorsAccepted(),
		}
		return nil
	})
	switch {
	case errors.Is(err, errNoop), errors.Is(err, gorm.ErrRecordNotFound):
		u.log.WithFields(logrus.Fields{"notification_id": in.NotificationID, "loan_id": n.RelatedID}).
			Warn("guarantor response did not resolve to a loan entry")
		return nil, nil
	case err != nil:
		return nil, err
	case notPending:
		return nil, ErrLoanNotPending
	}
	return dto, nil
}

// Pending lists the requests memberID still has to answer.
func (u *Usecase) Pending(ctx context.Context, memberID string) ([]RequestDTO, error) {
	open, err := u.notifications.ListOpenGuarantorRequests(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(open))
	for _, n := range open {
		l, err := u.loans.GetByLoanID(ctx, n.RelatedID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		req := RequestDTO{
			NotificationID: n.NotificationID,
			LoanID:         l.LoanID,
			BorrowerID:     l.MemberID,
			BorrowerName:   l.MemberName,
			Amount:         l.Amount,
			Purpose:        l.Purpose,
			DurationMonths: l.DurationMonths,
			Message:        n.Message,
			RequestedAt:    n.CreatedAt,
		}
		if b, err := u.members.GetByMemberID(ctx, n.SenderMemberID); err == nil {
			req.BorrowerMembershipNo = b.MembershipNo
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}
