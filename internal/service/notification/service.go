package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const flushTimeout = 30 * time.Second

// Config tunes the write-behind queue. Zero values take the defaults below.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1000
	}
	return c
}

// service stores notifications in batches from a bounded queue and pushes
// every stored one to the recipient's open streams.
type service struct {
	repo   notification.NotificationRepository
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub, cfg Config) notification.Service {
	cfg = cfg.withDefaults()

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// batch collects requests for one worker between flushes.
type batch struct {
	s      *service
	worker int
	items  []notification.Notification
}

func (b *batch) add(req notification.CreateNotificationRequest) {
	b.items = append(b.items, b.s.newNotification(req))
	if len(b.items) >= b.s.config.BatchSize {
		b.flush()
	}
}

func (b *batch) flush() {
	if len(b.items) == 0 {
		return
	}
	defer func() { b.items = b.items[:0] }()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := b.s.repo.Insert(ctx, b.items...); err != nil {
		slog.Error("failed to store notification batch", "worker", b.worker, "count", len(b.items), "error", err)
		return
	}
	slog.Debug("stored notification batch", "worker", b.worker, "count", len(b.items))
	for _, n := range b.items {
		b.s.push(n)
	}
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	b := &batch{s: s, worker: id, items: make([]notification.Notification, 0, s.config.BatchSize)}
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-s.queue:
			b.add(req)
		case <-ticker.C:
			b.flush()
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					b.add(req)
				default:
					b.flush()
					return
				}
			}
		}
	}
}

// QueueNotification hands req to the workers. When the queue is full or the
// service has stopped the notification is stored inline instead.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case <-s.stopCh:
		return s.storeNow(ctx, req)
	default:
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.Warn("notification queue full, storing inline", "recipient_id", req.RecipientID, "type", req.Type)
		return s.storeNow(ctx, req)
	}
}

func (s *service) storeNow(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := s.newNotification(req)
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

func (s *service) newNotification(req notification.CreateNotificationRequest) notification.Notification {
	return notification.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *service) push(n notification.Notification) {
	ev, err := sse.NewEvent(notification.EventNotification, notification.NewNotificationResponse(n))
	if err != nil {
		slog.Error("failed to encode notification event", "notification_id", n.ID, "error", err)
		return
	}
	s.hub.Publish(n.RecipientID, ev)
}

func (s *service) List(ctx context.Context, userID string, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	page, limit := pagination.Normalize(req.Page, req.Limit)

	items, total, err := s.repo.List(ctx, notification.ListQuery{
		RecipientID: userID,
		UnreadOnly:  req.UnreadOnly,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]notification.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notification.NewNotificationResponse(n))
	}

	return &notification.NotificationListResponse{
		Notifications: out,
		UnreadCount:   unread,
		Pagination:    pagination.New(page, limit, total),
	}, nil
}

func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) (notification.MarkAsReadResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.MarkAsReadResponse{}, err
	}
	updated, err := s.repo.MarkRead(ctx, userID, req.NotificationIDs, s.now().UTC())
	if err != nil {
		return notification.MarkAsReadResponse{}, err
	}
	return notification.MarkAsReadResponse{Updated: updated}, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) (notification.MarkAsReadResponse, error) {
	updated, err := s.repo.MarkRead(ctx, userID, nil, s.now().UTC())
	if err != nil {
		return notification.MarkAsReadResponse{}, err
	}
	return notification.MarkAsReadResponse{Updated: updated}, nil
}

func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	if _, err := uuid.Parse(notificationID); err != nil {
		return notification.ErrNotificationNotFound
	}
	return s.repo.Delete(ctx, userID, notificationID)
}

func (s *service) Subscribe(userID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(userID)
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
