package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config) (notification.Service, *testutil.NotificationRepo) {
	t.Helper()
	repo := testutil.NewNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), cfg)
	t.Cleanup(svc.Stop)
	return svc, repo
}

func seed(t *testing.T, repo *testutil.NotificationRepo, recipient string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := notification.Notification{
			ID:          uuid.NewString(),
			RecipientID: recipient,
			Type:        notification.TypeShiftReminder,
			Title:       "Upcoming Shift Reminder",
			Message:     "You have a shift",
			CreatedAt:   time.Date(2025, 10, 15, 8, i, 0, 0, time.UTC),
		}
		require.NoError(t, repo.Insert(context.Background(), item))
		ids = append(ids, item.ID)
	}
	return ids
}

func TestQueueNotification_FlushesBatchAndPushesToSubscriber(t *testing.T) {
	svc, repo := newTestService(t, Config{BatchSize: 2, FlushInterval: 20 * time.Millisecond, WorkerCount: 1})

	recipient := uuid.NewString()
	events, unsubscribe := svc.Subscribe(recipient)
	defer unsubscribe()

	registrationID := uuid.NewString()
	req := notification.ShiftApproved(recipient, "2025-10-15", "09:00 - 17:00", registrationID)
	require.NoError(t, svc.QueueNotification(context.Background(), req))

	select {
	case ev := <-events:
		assert.Equal(t, notification.EventNotification, ev.Name)
		var body notification.NotificationResponse
		require.NoError(t, json.Unmarshal(ev.Data, &body))
		assert.Equal(t, notification.TypeRegistrationApproved, body.Type)
		assert.Equal(t, "Shift Registration Approved", body.Title)
		assert.Equal(t, registrationID, body.Data["registration_id"])
		assert.False(t, body.IsRead)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an SSE event")
	}

	assert.Equal(t, 1, repo.Count())
}

func TestQueueNotification_FullQueueStoresInline(t *testing.T) {
	// No workers: the single queue slot fills and the rest are stored inline.
	repo := testutil.NewNotificationRepo()
	hub := sse.NewHub()
	svc := &service{
		repo:   repo,
		hub:    hub,
		config: Config{QueueSize: 1}.withDefaults(),
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest, 1),
		stopCh: make(chan struct{}),
	}

	recipient := uuid.NewString()
	events, unsubscribe := hub.Subscribe(recipient)
	defer unsubscribe()

	for i := 0; i < 5; i++ {
		req := notification.ShiftReminder(recipient, "2025-10-16", "22:00 - 06:00", uuid.NewString())
		require.NoError(t, svc.QueueNotification(context.Background(), req))
	}

	assert.Equal(t, 4, repo.Count())
	assert.Len(t, svc.queue, 1)
	assert.Len(t, events, 4)
}

func TestQueueNotification_AfterStopStoresInline(t *testing.T) {
	repo := testutil.NewNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{WorkerCount: 1})
	svc.Stop()

	req := notification.PayrollPaid(uuid.NewString(), 10, 2025, "4000000", uuid.NewString())
	require.NoError(t, svc.QueueNotification(context.Background(), req))
	assert.Equal(t, 1, repo.Count())
}

func TestStop_DrainsQueue(t *testing.T) {
	repo := testutil.NewNotificationRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{BatchSize: 100, FlushInterval: time.Hour, WorkerCount: 1})

	recipient := uuid.NewString()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.ShiftReminder(recipient, "2025-10-16", "09:00 - 17:00", uuid.NewString())))
	}

	svc.Stop()
	svc.Stop()

	assert.Equal(t, 3, repo.Count())
}

func TestList_PaginatesAndCountsUnread(t *testing.T) {
	svc, repo := newTestService(t, Config{WorkerCount: 1})
	ctx := context.Background()

	recipient := uuid.NewString()
	ids := seed(t, repo, recipient, 3)
	seed(t, repo, uuid.NewString(), 1)

	res, err := svc.MarkAsRead(ctx, recipient, notification.MarkAsReadRequest{NotificationIDs: ids[:1]})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Updated)

	resp, err := svc.List(ctx, recipient, notification.ListNotificationsRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, ids[2], resp.Notifications[0].ID, "newest first")
	assert.Equal(t, 2, resp.UnreadCount)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	res, err = svc.MarkAllAsRead(ctx, recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Updated)

	resp, err = svc.List(ctx, recipient, notification.ListNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Notifications)
	assert.Equal(t, 0, resp.UnreadCount)
}

func TestMarkAsRead_RejectsEmptyIDs(t *testing.T) {
	svc, _ := newTestService(t, Config{WorkerCount: 1})
	_, err := svc.MarkAsRead(context.Background(), uuid.NewString(), notification.MarkAsReadRequest{})
	assert.Error(t, err)
}

func TestMarkAsRead_IgnoresOtherRecipients(t *testing.T) {
	svc, repo := newTestService(t, Config{WorkerCount: 1})
	owner := uuid.NewString()
	ids := seed(t, repo, owner, 1)

	res, err := svc.MarkAsRead(context.Background(), uuid.NewString(), notification.MarkAsReadRequest{NotificationIDs: ids})
	require.NoError(t, err)
	assert.Zero(t, res.Updated)
}

func TestDelete_OnlyOwnNotification(t *testing.T) {
	svc, repo := newTestService(t, Config{WorkerCount: 1})
	ctx := context.Background()

	owner := uuid.NewString()
	ids := seed(t, repo, owner, 1)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.NewString(), ids[0]), notification.ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner, "not-a-uuid"), notification.ErrNotificationNotFound)

	require.NoError(t, svc.Delete(ctx, owner, ids[0]))
	assert.Equal(t, 0, repo.Count())
}
