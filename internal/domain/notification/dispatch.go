package notification

import (
	"context"
	"log/slog"
	"time"
)

const dispatchTimeout = 10 * time.Second

// Dispatch runs send in the background, detached from the caller's
// cancellation. Errors are logged and never returned.
func Dispatch(ctx context.Context, event string, send func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to send notification", "event", event, "error", err)
		}
	}()
}

// Notify queues req on pub in the background.
func Notify(ctx context.Context, pub Publisher, req CreateNotificationRequest) {
	if pub == nil {
		return
	}
	Dispatch(ctx, string(req.Type), func(ctx context.Context) error {
		return pub.QueueNotification(ctx, req)
	})
}
