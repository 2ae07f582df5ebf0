package notification

import (
	"context"
)

// Service defines the notification service interface. Dispatch is
// fire-and-forget relative to the attendance state transition: queueing
// failures are logged, never surfaced as errors to the caller.
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest)
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest)

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// SSE subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
