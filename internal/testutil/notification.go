package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
)

// Publisher records queued notifications.
type Publisher struct {
	mu   sync.Mutex
	reqs []notification.CreateNotificationRequest
	Err  error
}

func (p *Publisher) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.reqs = append(p.reqs, req)
	return nil
}

// Sent returns a snapshot of everything queued so far.
func (p *Publisher) Sent() []notification.CreateNotificationRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.CreateNotificationRequest(nil), p.reqs...)
}

// SentTo returns the queued notifications addressed to recipientID.
func (p *Publisher) SentTo(recipientID string) []notification.CreateNotificationRequest {
	var out []notification.CreateNotificationRequest
	for _, r := range p.Sent() {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out
}

// NotificationRepo is an in-memory notification.NotificationRepository.
type NotificationRepo struct {
	mu    sync.Mutex
	items map[string]notification.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepo) Insert(_ context.Context, ns ...notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range ns {
		r.items[n.ID] = n
	}
	return nil
}

func (r *NotificationRepo) List(_ context.Context, q notification.ListQuery) ([]notification.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.items {
		if n.RecipientID != q.RecipientID || (q.UnreadOnly && n.IsRead()) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, q.Page, q.Limit), int64(len(out)), nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead() {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, recipientID string, ids []string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var wanted map[string]bool
	if ids != nil {
		wanted = make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
	}

	var updated int64
	for id, n := range r.items {
		if n.RecipientID != recipientID || n.IsRead() || (wanted != nil && !wanted[id]) {
			continue
		}
		readAt := at
		n.ReadAt = &readAt
		r.items[id] = n
		updated++
	}
	return updated, nil
}

func (r *NotificationRepo) Delete(_ context.Context, recipientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return notification.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}

// Count returns the number of stored notifications.
func (r *NotificationRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
