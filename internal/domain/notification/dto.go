package notification

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// CreateNotificationRequest is what the core services hand to a Publisher.
type CreateNotificationRequest struct {
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]string
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,max=100,dive,uuid"`
}

func (r *MarkAsReadRequest) Validate() error {
	return validator.Struct(r)
}

type MarkAsReadResponse struct {
	Updated int64 `json:"updated"`
}

type ListNotificationsRequest struct {
	Page       int
	Limit      int
	UnreadOnly bool
}

type NotificationResponse struct {
	ID        string            `json:"id"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"is_read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
	Pagination    pagination.Pagination  `json:"pagination"`
}

// SSETokenResponse carries the short-lived token for the stream endpoint.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
