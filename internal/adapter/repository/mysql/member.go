package mysql

import (
	"context"
	"time"

	memberDomain "coop-lending/internal/domain/member"
	"coop-lending/pkg/money"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *MemberRepository) Save(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *MemberRepository) GetByMemberID(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).
		Preload("GuarantorFor", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("member_id = ?", memberID).
		First(&out)
	return &out, res.Error
}

func (r *MemberRepository) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("member_id = ?", memberID).
		First(&out)
	return &out, res.Error
}

func (r *MemberRepository) Search(ctx context.Context, query, excludeMemberID string, limit int) ([]memberDomain.Member, error) {
	var out []memberDomain.Member
	pattern := likeContains(query)
	res := r.db.WithContext(ctx).
		Where("member_id <> ?", excludeMemberID).
		Where("(name_folded LIKE ? ESCAPE '!' OR LOWER(membership_no) LIKE ? ESCAPE '!')", pattern, pattern).
		Order("name ASC, id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

// NextSequence counts soft-deleted rows too so membership numbers are never reused.
func (r *MemberRepository) NextSequence(ctx context.Context) (uint64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&memberDomain.Member{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return uint64(n) + 1, nil
}

func (r *MemberRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]memberDomain.Member, error) {
	var out []memberDomain.Member
	res := r.db.WithContext(ctx).
		Where("status = ? AND last_activity_at < ?", memberDomain.StatusActive, cutoff).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *MemberRepository) CreateCommitment(ctx context.Context, c *memberDomain.Commitment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *MemberRepository) ListActiveCommitments(ctx context.Context, guarantorID uint64) ([]memberDomain.Commitment, error) {
	var out []memberDomain.Commitment
	res := r.db.WithContext(ctx).
		Where("guarantor_id = ? AND status = ?", guarantorID, memberDomain.CommitmentActive).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *MemberRepository) UpdateCommitmentsByLoan(ctx context.Context, loanID string, remaining money.Amount, status memberDomain.CommitmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&memberDomain.Commitment{}).
		Where("loan_id = ? AND status = ?", loanID, memberDomain.CommitmentActive).
		Updates(map[string]any{"remaining_amount": remaining, "status": status}).Error
}
