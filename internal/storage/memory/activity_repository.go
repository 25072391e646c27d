package memory

import (
	"sync"

	"github.com/blusmotif/storefront/internal/domain"
)

// activityLogRepositoryInMemory — append-only журнал аудита в памяти.
type activityLogRepositoryInMemory struct {
	mu      sync.RWMutex
	entries []domain.ActivityLogEntry
}

// NewActivityLogRepository возвращает in-memory журнал аудита.
func NewActivityLogRepository() domain.ActivityLogRepository {
	return &activityLogRepositoryInMemory{}
}

func (r *activityLogRepositoryInMemory) Append(e domain.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

// List возвращает записи, новые первыми.
func (r *activityLogRepositoryInMemory) List(limit int) ([]domain.ActivityLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.ActivityLogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		result = append(result, r.entries[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

var _ domain.ActivityLogRepository = (*activityLogRepositoryInMemory)(nil)
