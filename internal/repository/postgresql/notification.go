package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const notificationInsertColumns = 7

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

// Insert writes every notification with a single multi-row INSERT.
func (r *notificationRepository) Insert(ctx context.Context, notifications ...notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	rows := make([]string, 0, len(notifications))
	args := make([]interface{}, 0, len(notifications)*notificationInsertColumns)
	for i, n := range notifications {
		var data []byte
		if len(n.Data) > 0 {
			encoded, err := json.Marshal(n.Data)
			if err != nil {
				return fmt.Errorf("failed to encode notification data: %w", err)
			}
			data = encoded
		}

		placeholders := make([]string, notificationInsertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", i*notificationInsertColumns+c+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, n.ID, n.RecipientID, string(n.Type), n.Title, n.Message, data, n.CreatedAt)
	}

	query := `INSERT INTO notifications (id, recipient_id, type, title, message, data, created_at) VALUES ` +
		strings.Join(rows, ", ")

	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var (
		n    notification.Notification
		typ  string
		data []byte
	)
	if err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.Title, &n.Message, &data, &n.ReadAt, &n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	n.Type = notification.NotificationType(typ)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return notification.Notification{}, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}
	return n, nil
}

func (r *notificationRepository) List(ctx context.Context, query notification.ListQuery) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := newWhere("recipient_id = $1", query.RecipientID)
	if query.UnreadOnly {
		where.clause += " AND read_at IS NULL"
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where.clause, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	limitIdx := where.next()
	selectQuery := fmt.Sprintf(`
		SELECT id, recipient_id, type, title, message, data, read_at, created_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, where.clause, limitIdx, limitIdx+1)

	args := append(where.args, query.Limit, pagination.Offset(query.Page, query.Limit))
	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var items []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return items, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read_at IS NULL`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string, at time.Time) (int64, error) {
	where := newWhere("recipient_id = $1 AND read_at IS NULL", recipientID)
	if ids != nil {
		where.add("id = ANY($%d::uuid[])", ids)
	}
	where.args = append(where.args, at)

	query := fmt.Sprintf(`UPDATE notifications SET read_at = $%d WHERE %s`, len(where.args), where.clause)

	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, where.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
