package notification

import (
	"context"
	"time"
)

// ListQuery selects one page of a recipient's notifications, newest first.
type ListQuery struct {
	RecipientID string
	UnreadOnly  bool
	Page        int
	Limit       int
}

type NotificationRepository interface {
	Insert(ctx context.Context, notifications ...Notification) error
	List(ctx context.Context, query ListQuery) ([]Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)

	// MarkRead stamps the recipient's unread notifications with at and
	// returns how many changed. A nil ids slice marks all of them.
	MarkRead(ctx context.Context, recipientID string, ids []string, at time.Time) (int64, error)

	// Delete removes a notification owned by recipientID.
	Delete(ctx context.Context, recipientID, id string) error
}
