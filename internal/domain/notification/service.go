package notification

import (
	"context"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
)

// Publisher is the best-effort side channel used by the shift, attendance,
// payroll and violation services. Callers never branch on its result beyond logging.
type Publisher interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
}

type Service interface {
	Publisher

	List(ctx context.Context, userID string, req ListNotificationsRequest) (*NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) (MarkAsReadResponse, error)
	MarkAllAsRead(ctx context.Context, userID string) (MarkAsReadResponse, error)
	Delete(ctx context.Context, userID string, notificationID string) error

	// Subscribe streams the user's new notifications until the returned
	// cleanup runs or the service shuts its hub down.
	Subscribe(userID string) (<-chan sse.Event, func())

	// Stop flushes queued notifications and stops the workers.
	Stop()
}
