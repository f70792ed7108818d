package member

import (
	"errors"
	"strings"
	"time"

	"coop-lending/pkg/money"

	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusDormant   Status = "dormant"
)

type CommitmentStatus string

const (
	CommitmentActive   CommitmentStatus = "active"
	CommitmentReleased CommitmentStatus = "released"
)

var (
	ErrNotFound        = errors.New("member not found")
	ErrDuplicateMember = errors.New("membership number already registered")
	ErrCannotGuarantee = errors.New("member cannot act as guarantor")
)

type Member struct {
	ID                uint64         `gorm:"primaryKey;column:id" json:"-"`
	MemberID          string         `gorm:"size:32;uniqueIndex:ux_members_member_id" json:"member_id"`
	MembershipNo      string         `gorm:"size:32;uniqueIndex:ux_members_membership_no" json:"membership_no"`
	Name              string         `gorm:"size:128;index" json:"name"`
	NameFolded        string         `gorm:"size:128;index" json:"-"`
	Email             string         `gorm:"size:128" json:"email"`
	Phone             string         `gorm:"size:32" json:"phone"`
	Balance           money.Amount   `gorm:"not null;default:0" json:"balance"`
	LoanBalance       money.Amount   `gorm:"not null;default:0" json:"loan_balance"`
	InvestmentBalance money.Amount   `gorm:"not null;default:0" json:"investment_balance"`
	Fines             money.Amount   `gorm:"not null;default:0" json:"fines"`
	Status            Status         `gorm:"size:16;not null;default:'active';index" json:"status"`
	LastActivityAt    time.Time      `json:"last_activity_at"`
	GuarantorFor      []Commitment   `gorm:"foreignKey:GuarantorID" json:"guarantor_for"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }

// BeforeSave keeps the lower-cased name that search matches against. SQL
// LOWER() only folds ASCII on sqlite, so folding happens here.
func (m *Member) BeforeSave(tx *gorm.DB) error {
	m.NameFolded = strings.ToLower(m.Name)
	return nil
}

// CanBeGuarantor: only active members without an outstanding loan may pledge.
func (m *Member) CanBeGuarantor() bool {
	return m.Status == StatusActive && m.LoanBalance == 0
}

// Commitment is one entry of a member's guarantorFor list.
type Commitment struct {
	ID              uint64           `gorm:"primaryKey;column:id" json:"-"`
	GuarantorID     uint64           `gorm:"not null;index" json:"-"`
	BorrowerID      string           `gorm:"size:32;not null" json:"member_id"`
	BorrowerName    string           `gorm:"size:128" json:"member_name"`
	LoanID          string           `gorm:"size:32;not null;index" json:"loan_id"`
	LoanAmount      money.Amount     `gorm:"not null" json:"loan_amount"`
	RemainingAmount money.Amount     `gorm:"not null" json:"remaining_amount"`
	Status          CommitmentStatus `gorm:"size:16;not null;default:'active'" json:"status"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Commitment) TableName() string { return "guarantor_commitments" }
