package mysql

import (
	"context"
	"time"

	loanDomain "coop-lending/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit("Repayments").Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Guarantors", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.withChildren(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.withChildren(r.db.WithContext(ctx)).
		Clauses(forUpdate).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetPendingLoanByMemberID(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, loanDomain.StatusPending).
		Order("status_updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByMemberID(ctx context.Context, memberID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.withChildren(r.db.WithContext(ctx)).
		Where("member_id = ?", memberID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) SaveGuarantor(ctx context.Context, g *loanDomain.Guarantor) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *LoanRepository) AddRepayment(ctx context.Context, p *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *LoanRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_date IS NOT NULL AND next_payment_date < ?", loanDomain.StatusApproved, cutoff).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListMaturedBefore(ctx context.Context, cutoff time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ? AND remaining_amount > 0 AND maturity_date IS NOT NULL AND maturity_date < ?", loanDomain.StatusApproved, cutoff).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) FineExists(ctx context.Context, loanRef uint64, due time.Time, period int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Fine{}).
		Where("loan_ref = ? AND due_date = ? AND period = ?", loanRef, due, period).
		Count(&n).Error
	return n > 0, err
}

func (r *LoanRepository) CreateFine(ctx context.Context, f *loanDomain.Fine) error {
	return r.db.WithContext(ctx).Create(f).Error
}
