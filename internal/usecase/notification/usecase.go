package notification

import (
	"context"
	"errors"

	"coop-lending/internal/domain/notification"

	"gorm.io/gorm"
)

type Usecase struct{ repo notification.Repository }

func NewUsecase(r notification.Repository) *Usecase { return &Usecase{repo: r} }

type InboxDTO struct {
	Unread        int                         `json:"unread"`
	Notifications []notification.Notification `json:"notifications"`
}

func (u *Usecase) Inbox(ctx context.Context, memberID string, unreadOnly bool) (*InboxDTO, error) {
	list, err := u.repo.ListByMemberID(ctx, memberID, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := &InboxDTO{Notifications: list}
	if out.Notifications == nil {
		out.Notifications = []notification.Notification{}
	}
	for _, n := range list {
		if !n.Read {
			out.Unread++
		}
	}
	return out, nil
}

// MarkRead flags one of memberID's notifications as read. Guarantor requests
// stay actionable until answered.
func (u *Usecase) MarkRead(ctx context.Context, notificationID, memberID string) (*notification.Notification, error) {
	n, err := u.repo.GetByNotificationID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}
	if n.MemberID != memberID {
		return nil, notification.ErrNotRecipient
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := u.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
