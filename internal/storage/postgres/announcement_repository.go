package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blusmotif/storefront/internal/domain"
)

type announcementRepository struct {
	db *sql.DB
}

// NewAnnouncementRepository создаёт PostgreSQL-реализацию AnnouncementRepository.
func NewAnnouncementRepository(store *Store) domain.AnnouncementRepository {
	return &announcementRepository{db: store.DB()}
}

const announcementColumns = `id, title, message, type, target_audience, active, created_at, updated_at`

func (r *announcementRepository) Create(a domain.Announcement) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO announcements (`+announcementColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID, a.Title, a.Message, string(a.Type), string(a.TargetAudience), a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) Get(id string) (domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Announcement{}, domain.ErrAnnouncementNotFound
		}
		return domain.Announcement{}, fmt.Errorf("select announcement: %w", err)
	}
	return a, nil
}

// ListForRole отдаёт активные объявления для всех или для аудитории роли.
func (r *announcementRepository) ListForRole(role domain.Role) ([]domain.Announcement, error) {
	audience := map[domain.Role]domain.Audience{
		domain.RoleCustomer: domain.AudienceCustomers,
		domain.RoleAgent:    domain.AudienceAgents,
		domain.RoleAdmin:    domain.AudienceAdmins,
	}[role]

	return r.query(`
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE active
		  AND target_audience IN ($1, $2)
		ORDER BY created_at DESC, id DESC
	`, string(domain.AudienceAll), string(audience))
}

func (r *announcementRepository) ListAll() ([]domain.Announcement, error) {
	return r.query(`
		SELECT ` + announcementColumns + `
		FROM announcements
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *announcementRepository) Update(a domain.Announcement) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE announcements
		SET title = $1, message = $2, type = $3, target_audience = $4, active = $5, updated_at = $6
		WHERE id = $7
	`,
		a.Title, a.Message, string(a.Type), string(a.TargetAudience), a.Active, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return requireAffected(res, domain.ErrAnnouncementNotFound)
}

func (r *announcementRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireAffected(res, domain.ErrAnnouncementNotFound)
}

func (r *announcementRepository) query(query string, args ...any) ([]domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]domain.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement row: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcement rows: %w", err)
	}
	return announcements, nil
}

func scanAnnouncement(row rowScanner) (domain.Announcement, error) {
	var (
		a        domain.Announcement
		aType    string
		audience string
	)
	err := row.Scan(&a.ID, &a.Title, &a.Message, &aType, &audience, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Announcement{}, err
	}
	a.Type = domain.NotificationType(aType)
	a.TargetAudience = domain.Audience(audience)
	return a, nil
}

var _ domain.AnnouncementRepository = (*announcementRepository)(nil)
