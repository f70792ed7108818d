package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Save(ctx context.Context, n *Notification) error
	GetByNotificationID(ctx context.Context, notificationID string) (*Notification, error)
	ListByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]Notification, error)
	ListOpenGuarantorRequests(ctx context.Context, memberID string) ([]Notification, error)
	// Marks every open guarantor request for the loan read and non-actionable
	CloseGuarantorRequests(ctx context.Context, loanID string) error
}
