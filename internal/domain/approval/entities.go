package approval

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

var (
	ErrNotFound       = errors.New("approval not found")
	ErrAlreadyDecided = errors.New("loan already has an admin decision")
)

// Approval is the admin decision taken on a loan application; at most one per loan.
type Approval struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApprovalID string         `gorm:"column:approval_id;size:32;not null;uniqueIndex:ux_approvals_approval_id" json:"approval_id"`
	LoanRef    uint64         `gorm:"column:loan_ref;not null;uniqueIndex:ux_approvals_loan" json:"-"`
	AdminID    string         `gorm:"column:admin_id;size:64;not null" json:"admin_id"`
	Decision   Decision       `gorm:"column:decision;size:16;not null" json:"decision"`
	Note       string         `gorm:"column:note;type:text" json:"note"`
	DecidedAt  time.Time      `gorm:"column:decided_at;not null" json:"decided_at"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Approval) TableName() string { return "approvals" }
