package memory

import (
	"sort"
	"sync"

	"github.com/blusmotif/storefront/internal/domain"
)

// notificationRepositoryInMemory хранит in-app уведомления в памяти.
type notificationRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Notification
}

// NewNotificationRepository возвращает in-memory реализацию NotificationRepository.
func NewNotificationRepository() domain.NotificationRepository {
	return &notificationRepositoryInMemory{
		items: make(map[string]domain.Notification),
	}
}

func (r *notificationRepositoryInMemory) Create(n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.Metadata != nil {
		meta := make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			meta[k] = v
		}
		n.Metadata = meta
	}
	r.items[n.ID] = n
	return nil
}

func (r *notificationRepositoryInMemory) ListByRecipient(recipientID string, limit int) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Notification, 0)
	for _, n := range r.items {
		if n.RecipientID != recipientID {
			continue
		}
		result = append(result, n)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkRead помечает уведомление прочитанным только для его получателя.
func (r *notificationRepositoryInMemory) MarkRead(id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	r.items[id] = n
	return nil
}

func (r *notificationRepositoryInMemory) UnreadCount(recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

var _ domain.NotificationRepository = (*notificationRepositoryInMemory)(nil)
