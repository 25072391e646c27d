package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blusmotif/storefront/internal/domain"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создаёт PostgreSQL-реализацию NotificationRepository.
func NewNotificationRepository(store *Store) domain.NotificationRepository {
	return &notificationRepository{db: store.DB()}
}

func (r *notificationRepository) Create(n domain.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal notification metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, title, message, type, read, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		n.ID, n.RecipientID, n.Title, n.Message, string(n.Type), n.Read, metadata, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(recipientID string, limit int) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, recipient_id, title, message, type, read, metadata, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", recipientID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, recipientID)
	}
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			n        domain.Notification
			nType    string
			metadata []byte
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &nType, &n.Read, &metadata, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		n.Type = domain.NotificationType(nType)
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal notification metadata: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным только для его получателя:
// чужой recipient_id выглядит как отсутствие записи.
func (r *notificationRepository) MarkRead(id, recipientID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1
		  AND recipient_id = $2
	`, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res, domain.ErrNotificationNotFound)
}

func (r *notificationRepository) UnreadCount(recipientID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = $1
		  AND NOT read
	`, recipientID).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)
