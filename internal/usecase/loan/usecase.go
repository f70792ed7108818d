package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"
	"coop-lending/internal/domain/uow"
	"coop-lending/pkg/id"
	"coop-lending/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Settings struct {
	InterestRate decimal.Decimal
	// SavingsMultiplier caps a loan at balance × multiplier; 0 disables the cap.
	SavingsMultiplier int64
	GracePeriod       time.Duration
}

type Usecase struct {
	repo    loan.Repository
	members member.Repository
	uow     uow.UnitOfWork
	cfg     Settings
	now     func() time.Time
}

func NewUsecase(loans loan.Repository, members member.Repository, tx uow.UnitOfWork, cfg Settings) *Usecase {
	return &Usecase{
		repo:    loans,
		members: members,
		uow:     tx,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Terms(amount money.Amount, months int) (*loan.Terms, error) {
	if amount <= 0 {
		return nil, loan.ErrInvalidAmount
	}
	if !loan.ValidDuration(months) {
		return nil, loan.ErrInvalidDuration
	}
	t := loan.CalculateTerms(amount, months, u.cfg.InterestRate)
	return &t, nil
}

func validateApply(in ApplyInput) error {
	switch {
	case in.Amount <= 0:
		return loan.ErrInvalidAmount
	case strings.TrimSpace(in.Purpose) == "":
		return loan.ErrPurposeRequired
	case !loan.ValidDuration(in.DurationMonths):
		return loan.ErrInvalidDuration
	case in.Guarantor1ID == "":
		return loan.ErrGuarantorRequired
	}
	return nil
}

// guarantorFor resolves a nominated guarantor and checks they may pledge for borrower.
func guarantorFor(ctx context.Context, members member.Repository, borrower *member.Member, memberID string) (*member.Member, error) {
	if memberID == borrower.MemberID {
		return nil, loan.ErrSelfGuarantee
	}
	g, err := members.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("guarantor %s: %w", memberID, member.ErrNotFound)
		}
		return nil, err
	}
	if !g.CanBeGuarantor() {
		return nil, fmt.Errorf("%w: %s", member.ErrCannotGuarantee, g.Name)
	}
	return g, nil
}

// Apply files a pending application and sends a request to every guarantor.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if err := validateApply(in); err != nil {
		return nil, err
	}
	in.Purpose = strings.TrimSpace(in.Purpose)

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Members.GetByMemberIDForUpdate(ctx, in.MemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &loan.IneligibleError{Reason: "member not found"}
			}
			return err
		}

		elig, err := u.eligibility(ctx, r.Members, r.Loans, borrower, in.Amount)
		if err != nil {
			return err
		}
		if !elig.Eligible {
			return &loan.IneligibleError{Reason: elig.Reason}
		}

		g1, err := guarantorFor(ctx, r.Members, borrower, in.Guarantor1ID)
		if err != nil {
			return err
		}
		guarantors := []*member.Member{g1}
		if in.Guarantor2ID != "" {
			if in.Guarantor2ID == in.Guarantor1ID {
				return loan.ErrDuplicateGuarantor
			}
			g2, err := guarantorFor(ctx, r.Members, borrower, in.Guarantor2ID)
			if err != nil {
				return err
			}
			guarantors = append(guarantors, g2)
		}

		required := loan.RequiredGuarantors(borrower.Balance, g1.Balance, in.Amount)
		if len(guarantors) < required {
			return loan.ErrSecondGuarantor
		}

		now := u.now()
		l := &loan.Loan{
			LoanID:          id.NewID32(),
			MemberID:        borrower.MemberID,
			MemberName:      borrower.Name,
			Amount:          in.Amount,
			Purpose:         in.Purpose,
			DurationMonths:  in.DurationMonths,
			Status:          loan.StatusPending,
			StatusUpdatedAt: now,
		}
		for i, g := range guarantors {
			l.Guarantors = append(l.Guarantors, loan.Guarantor{
				MemberID:   g.MemberID,
				MemberName: g.Name,
				Position:   i + 1,
				Status:     loan.GuarantorPending,
			})
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		for _, g := range guarantors {
			n := notification.New(g.MemberID, borrower.MemberID, notification.TypeGuarantor,
				"Guarantor request",
				fmt.Sprintf("%s has requested you to guarantee a loan of %s for %d months. Purpose: %s",
					borrower.Name, in.Amount, in.DurationMonths, in.Purpose),
				l.LoanID)
			if err := r.Notifications.Create(ctx, n); err != nil {
				return err
			}
		}

		borrower.LastActivityAt = now
		if err := r.Members.Save(ctx, borrower); err != nil {
			return err
		}

		dto = toDTO(l, now, u.cfg.GracePeriod)
		dto.RequiredGuarantors = required
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l, u.now(), u.cfg.GracePeriod), nil
}

func (u *Usecase) ListByMember(ctx context.Context, memberID string) ([]LoanDTO, error) {
	loans, err := u.repo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i], now, u.cfg.GracePeriod))
	}
	return out, nil
}
