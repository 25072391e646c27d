package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blusmotif/storefront/internal/domain"
)

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository создаёт PostgreSQL-реализацию ActivityLogRepository.
func NewActivityLogRepository(store *Store) domain.ActivityLogRepository {
	return &activityLogRepository{db: store.DB()}
}

func (r *activityLogRepository) Append(e domain.ActivityLogEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, action, performed_by, details, ts)
		VALUES ($1,$2,$3,$4,$5)
	`,
		e.ID, e.Action, e.PerformedBy, e.Details, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert activity log entry: %w", err)
	}
	return nil
}

func (r *activityLogRepository) List(limit int) ([]domain.ActivityLogEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, action, performed_by, details, ts
		FROM activity_log
		ORDER BY ts DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ActivityLogEntry, 0)
	for rows.Next() {
		var e domain.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.PerformedBy, &e.Details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity log rows: %w", err)
	}
	return entries, nil
}

var _ domain.ActivityLogRepository = (*activityLogRepository)(nil)
