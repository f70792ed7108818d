package notification

import (
	"errors"
	"time"

	"coop-lending/pkg/id"
)

type Type string

const (
	TypeGuarantor         Type = "guarantor"
	TypeGuarantorResponse Type = "guarantor_response"
	TypeLoan              Type = "loan"
	TypeFine              Type = "fine"
	TypeSystem            Type = "system"
)

var (
	ErrNotFound     = errors.New("notification not found")
	ErrNotRecipient = errors.New("notification belongs to another member")
)

// Notification is an inbox entry. Guarantor requests carry the borrower in
// SenderMemberID and the loan in RelatedID.
type Notification struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string    `gorm:"size:32;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	MemberID       string    `gorm:"size:32;not null;index:idx_notifications_member" json:"member_id"`
	SenderMemberID string    `gorm:"size:32" json:"sender_member_id,omitempty"`
	Type           Type      `gorm:"size:32;not null" json:"type"`
	Title          string    `gorm:"size:255" json:"title"`
	Message        string    `gorm:"type:text" json:"message"`
	RelatedID      string    `gorm:"size:32;index" json:"related_id,omitempty"`
	ActionRequired bool      `gorm:"not null;default:false" json:"action_required"`
	Read           bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }

// Close marks the entry read and no longer actionable.
func (n *Notification) Close() {
	n.Read = true
	n.ActionRequired = false
}

// New builds an unread entry for memberID. Guarantor requests are the only
// type that require an answer.
func New(memberID, senderID string, typ Type, title, message, relatedID string) *Notification {
	return &Notification{
		NotificationID: id.NewID32(),
		MemberID:       memberID,
		SenderMemberID: senderID,
		Type:           typ,
		Title:          title,
		Message:        message,
		RelatedID:      relatedID,
		ActionRequired: typ == TypeGuarantor,
	}
}
