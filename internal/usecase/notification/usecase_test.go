package notification

import (
	"context"
	"errors"
	"testing"

	"coop-lending/internal/domain/notification"
	"coop-lending/internal/testutil/notificationmock"

	"gorm.io/gorm"
)

func TestUsecase_Inbox(t *testing.T) {
	repo := &notificationmock.Repo{
		ListByMemberIDFn: func(ctx context.Context, memberID string, unreadOnly bool) ([]notification.Notification, error) {
			if memberID != "m1" || unreadOnly {
				t.Fatalf("unexpected args %s %v", memberID, unreadOnly)
			}
			return []notification.Notification{{Read: true}, {}, {}}, nil
		},
	}
	got, err := NewUsecase(repo).Inbox(context.Background(), "m1", false)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if got.Unread != 2 || len(got.Notifications) != 3 {
		t.Fatalf("unexpected inbox: %+v", got)
	}

	empty, err := NewUsecase(&notificationmock.Repo{}).Inbox(context.Background(), "m1", false)
	if err != nil || empty.Notifications == nil {
		t.Fatalf("empty inbox should serialise as a list: %+v %v", empty, err)
	}
}

func TestUsecase_MarkRead(t *testing.T) {
	stored := &notification.Notification{NotificationID: "n1", MemberID: "m1", Type: notification.TypeGuarantor, ActionRequired: true}
	saved := 0
	repo := &notificationmock.Repo{
		GetByNotificationIDFn: func(ctx context.Context, id string) (*notification.Notification, error) {
			if id != "n1" {
				return nil, gorm.ErrRecordNotFound
			}
			return stored, nil
		},
		SaveFn: func(ctx context.Context, n *notification.Notification) error {
			saved++
			return nil
		},
	}
	u := NewUsecase(repo)
	ctx := context.Background()

	if _, err := u.MarkRead(ctx, "zz", "m1"); !errors.Is(err, notification.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := u.MarkRead(ctx, "n1", "m2"); !errors.Is(err, notification.ErrNotRecipient) {
		t.Fatalf("want ErrNotRecipient, got %v", err)
	}

	got, err := u.MarkRead(ctx, "n1", "m1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !got.Read || !got.ActionRequired {
		t.Fatalf("guarantor request must stay actionable: %+v", got)
	}
	if _, err := u.MarkRead(ctx, "n1", "m1"); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if saved != 1 {
		t.Fatalf("expected a single save, got %d", saved)
	}
}
