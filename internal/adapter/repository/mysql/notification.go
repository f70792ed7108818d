package mysql

import (
	"context"

	notificationDomain "coop-lending/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) Save(ctx context.Context, n *notificationDomain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NotificationRepository) GetByNotificationID(ctx context.Context, notificationID string) (*notificationDomain.Notification, error) {
	var out notificationDomain.Notification
	res := r.db.WithContext(ctx).Where("notification_id = ?", notificationID).First(&out)
	return &out, res.Error
}

func (r *NotificationRepository) ListByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	q := r.db.WithContext(ctx).Where("member_id = ?", memberID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) ListOpenGuarantorRequests(ctx context.Context, memberID string) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND type = ? AND action_required = ?", memberID, notificationDomain.TypeGuarantor, true).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) CloseGuarantorRequests(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).
		Model(&notificationDomain.Notification{}).
		Where("related_id = ? AND type = ? AND action_required = ?", loanID, notificationDomain.TypeGuarantor, true).
		Updates(map[string]any{"action_required": false, "is_read": true}).Error
}
