package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const streamKeepalive = 30 * time.Second

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// GetSSEToken mints the short-lived token Stream accepts.
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
	jwtService   jwt.Service
}

func NewNotificationHandler(notifService notification.Service, jwtService jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
		jwtService:   jwtService,
	}
}

func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.notifService.List(r.Context(), caller.ID, notification.ListNotificationsRequest{
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
		UnreadOnly: getBoolQueryParam(r, "unread_only", false),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, metaFrom(result.Pagination))
}

func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	var req notification.MarkAsReadRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.notifService.MarkAsRead(r.Context(), caller.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notifications marked as read", result)
}

func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	result, err := h.notifService.MarkAllAsRead(r.Context(), caller.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", result)
}

func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	if err := h.notifService.Delete(r.Context(), caller.ID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification deleted", nil)
}

func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := requestingUser(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(caller.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate SSE token", "employee_id", caller.ID, "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, notification.SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream pushes the caller's new notifications as server-sent events.
// EventSource cannot set headers, so the SSE token travels in the query string.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	employeeID, err := h.jwtService.ValidateSSEToken(token)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	events, unsubscribe := h.notifService.Subscribe(employeeID)
	defer unsubscribe()

	send := func(ev sse.Event) bool {
		if err := sse.WriteEvent(w, ev); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	connected, err := sse.NewEvent("connected", map[string]string{"status": "connected", "employee_id": employeeID})
	if err != nil || !send(connected) {
		slog.WarnContext(r.Context(), "failed to open notification stream", "employee_id", employeeID)
		return
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !send(ev) {
				return
			}
		case now := <-keepalive.C:
			ping, _ := sse.NewEvent("ping", map[string]int64{"timestamp": now.Unix()})
			if !send(ping) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
