package notificationmock

import (
	"context"

	domain "coop-lending/internal/domain/notification"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Created notifications are appended to Created when CreateFn is nil.
type Repo struct {
	CreateFn                    func(ctx context.Context, n *domain.Notification) error
	SaveFn                      func(ctx context.Context, n *domain.Notification) error
	GetByNotificationIDFn       func(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByMemberIDFn            func(ctx context.Context, memberID string, unreadOnly bool) ([]domain.Notification, error)
	ListOpenGuarantorRequestsFn func(ctx context.Context, memberID string) ([]domain.Notification, error)
	CloseGuarantorRequestsFn    func(ctx context.Context, loanID string) error

	Created []*domain.Notification
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	m.Created = append(m.Created, n)
	return nil
}
func (m *Repo) Save(ctx context.Context, n *domain.Notification) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, n)
	}
	return nil
}
func (m *Repo) GetByNotificationID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	if m.GetByNotificationIDFn != nil {
		return m.GetByNotificationIDFn(ctx, notificationID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) ListByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]domain.Notification, error) {
	if m.ListByMemberIDFn != nil {
		return m.ListByMemberIDFn(ctx, memberID, unreadOnly)
	}
	return nil, nil
}
func (m *Repo) ListOpenGuarantorRequests(ctx context.Context, memberID string) ([]domain.Notification, error) {
	if m.ListOpenGuarantorRequestsFn != nil {
		return m.ListOpenGuarantorRequestsFn(ctx, memberID)
	}
	return nil, nil
}
func (m *Repo) CloseGuarantorRequests(ctx context.Context, loanID string) error {
	if m.CloseGuarantorRequestsFn != nil {
		return m.CloseGuarantorRequestsFn(ctx, loanID)
	}
	return nil
}
