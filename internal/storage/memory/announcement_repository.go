package memory

import (
	"sort"
	"sync"

	"github.com/blusmotif/storefront/internal/domain"
)

// announcementRepositoryInMemory хранит системные объявления в памяти.
type announcementRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Announcement
}

// NewAnnouncementRepository возвращает in-memory реализацию AnnouncementRepository.
func NewAnnouncementRepository() domain.AnnouncementRepository {
	return &announcementRepositoryInMemory{
		items: make(map[string]domain.Announcement),
	}
}

func (r *announcementRepositoryInMemory) Create(a domain.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[a.ID] = a
	return nil
}

func (r *announcementRepositoryInMemory) Get(id string) (domain.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return domain.Announcement{}, domain.ErrAnnouncementNotFound
	}
	return a, nil
}

// ListForRole возвращает активные объявления, видимые роли.
func (r *announcementRepositoryInMemory) ListForRole(role domain.Role) ([]domain.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Announcement, 0)
	for _, a := range r.items {
		if !a.VisibleTo(role) {
			continue
		}
		result = append(result, a)
	}
	sortAnnouncements(result)
	return result, nil
}

func (r *announcementRepositoryInMemory) ListAll() ([]domain.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Announcement, 0, len(r.items))
	for _, a := range r.items {
		result = append(result, a)
	}
	sortAnnouncements(result)
	return result, nil
}

func (r *announcementRepositoryInMemory) Update(a domain.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[a.ID]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	r.items[a.ID] = a
	return nil
}

func (r *announcementRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	delete(r.items, id)
	return nil
}

func sortAnnouncements(items []domain.Announcement) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

var _ domain.AnnouncementRepository = (*announcementRepositoryInMemory)(nil)
