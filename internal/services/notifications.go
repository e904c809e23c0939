package services

import (
	"context"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// NotificationService exposes per-user notification reads.
type NotificationService struct {
	store store.Store
}

func NewNotificationService(s store.Store) *NotificationService {
	return &NotificationService{store: s}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.Notifications().UnreadCount(ctx, userID)
}

// MarkRead flags one of the caller's notifications as read. Marking
// someone else's notification, or an unknown one, is ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.Notifications().MarkRead(ctx, userID, notificationID)
}
