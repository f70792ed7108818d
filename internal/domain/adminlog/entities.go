package adminlog

import (
	"context"
	"time"
)

const (
	ActionLoanApprove   = "loan.approve"
	ActionLoanReject    = "loan.reject"
	ActionLoanRepayment = "loan.repayment"
	ActionLoanDefault   = "loan.default"
	ActionFinesApplied  = "fines.apply"
	ActionMemberCreate  = "member.create"
	ActionMemberDormant = "member.dormant"
	// a guarantor declined; the loan stays pending until an admin decides
	ActionGuarantorDeclined = "guarantor.decline"
)

// SystemActor is recorded for entries no admin initiated.
const SystemActor = "system"

type Entry struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	AdminID     string    `gorm:"size:64;not null;index" json:"admin_id"`
	Action      string    `gorm:"size:64;not null;index" json:"action"`
	Entity      string    `gorm:"size:32" json:"entity"`
	EntityID    string    `gorm:"size:32" json:"entity_id"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "admin_logs" }

func NewEntry(adminID, action, entity, entityID, description string) *Entry {
	return &Entry{AdminID: adminID, Action: action, Entity: entity, EntityID: entityID, Description: description}
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}
