package businessflow

import (
	"context"
	"errors"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
)

// NotificationFlow handles the in-app notification center
type NotificationFlow interface {
	List(ctx context.Context, userID uint) (*dto.ListNotificationsResponse, error)
	MarkAllRead(ctx context.Context, userID uint) error
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

// NotificationFlowImpl implements the notification business flow
type NotificationFlowImpl struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationFlow creates a new notification flow instance
func NewNotificationFlow(notificationRepo repository.NotificationRepository) NotificationFlow {
	return &NotificationFlowImpl{notificationRepo: notificationRepo}
}

// List returns the caller's newest notifications, capped, with the unread count
func (nf *NotificationFlowImpl) List(ctx context.Context, userID uint) (*dto.ListNotificationsResponse, error) {
	rows, err := nf.notificationRepo.ListByUser(ctx, userID, utils.NotificationListLimit)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to load notifications", err)
	}

	unread := false
	unreadCount, err := nf.notificationRepo.Count(ctx, models.NotificationFilter{UserID: &userID, Read: &unread})
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to count unread notifications", err)
	}

	notifications := make([]dto.NotificationDTO, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, ToNotificationDTO(*row))
	}
	return &dto.ListNotificationsResponse{
		Notifications: notifications,
		UnreadCount:   int(unreadCount),
	}, nil
}

// MarkAllRead acknowledges every notification of the caller
func (nf *NotificationFlowImpl) MarkAllRead(ctx context.Context, userID uint) error {
	if err := nf.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return NewBusinessError("NOTIFICATION_MARK_READ_FAILED", "Failed to mark notifications read", err)
	}
	return nil
}

// MarkRead acknowledges one notification, scoped to the caller
func (nf *NotificationFlowImpl) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if err := nf.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return NewBusinessError("NOTIFICATION_NOT_FOUND", "Notification not found", ErrNotificationNotFound)
		}
		return NewBusinessError("NOTIFICATION_MARK_READ_FAILED", "Failed to mark notification read", err)
	}
	return nil
}
