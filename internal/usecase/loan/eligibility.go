package loan

import (
	"context"
	"errors"
	"fmt"

	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/pkg/money"

	"gorm.io/gorm"
)

// eligibility walks the borrower checks in a fixed order and reports the first
// one that fails. Repository errors other than not-found are returned as is.
func (u *Usecase) eligibility(ctx context.Context, members member.Repository, loans loan.Repository, m *member.Member, amount money.Amount) (*Eligibility, error) {
	capped := u.cfg.SavingsMultiplier > 0
	var maxAmount money.Amount
	if capped {
		maxAmount = m.Balance * money.Amount(u.cfg.SavingsMultiplier)
	}
	res := &Eligibility{MaxAmount: maxAmount}

	if m.Status != member.StatusActive {
		res.Reason = fmt.Sprintf("member account is %s", m.Status)
		return res, nil
	}
	if m.LoanBalance > 0 {
		res.Reason = fmt.Sprintf("member has an outstanding loan balance of %s", m.LoanBalance)
		return res, nil
	}

	pending, err := loans.GetPendingLoanByMemberID(ctx, m.MemberID)
	switch {
	case err == nil:
		res.Reason = fmt.Sprintf("member already has a pending loan application (%s)", pending.LoanID)
		return res, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	commitments, err := members.ListActiveCommitments(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range commitments {
		if c.RemainingAmount > 0 {
			res.Reason = fmt.Sprintf("member is guaranteeing an active loan for %s", c.BorrowerName)
			return res, nil
		}
	}

	if m.Fines > 0 {
		res.Reason = fmt.Sprintf("member has unpaid fines of %s", m.Fines)
		return res, nil
	}
	if capped && amount > maxAmount {
		res.Reason = fmt.Sprintf("requested amount exceeds %dx savings (maximum %s)", u.cfg.SavingsMultiplier, maxAmount)
		return res, nil
	}

	res.Eligible = true
	return res, nil
}

// CheckEligibility reports whether memberID may borrow amount right now.
func (u *Usecase) CheckEligibility(ctx context.Context, memberID string, amount money.Amount) (*Eligibility, error) {
	if amount <= 0 {
		return nil, loan.ErrInvalidAmount
	}
	m, err := u.members.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Eligibility{Reason: "member not found"}, nil
		}
		return nil, err
	}
	return u.eligibility(ctx, u.members, u.repo, m, amount)
}
