package memory

import (
	"sort"
	"sync"

	"github.com/blusmotif/storefront/internal/domain"
)

// catalogRepositoryInMemory — in-memory реализация CatalogRepository.
// AdjustStock выполняется под общим мьютексом, что даёт атомарность
// условного обновления остатка.
type catalogRepositoryInMemory struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	categories map[string]domain.Category
}

// NewCatalogRepository возвращает in-memory каталог для разработки и тестов.
func NewCatalogRepository() domain.CatalogRepository {
	return &catalogRepositoryInMemory{
		products:   make(map[string]domain.Product),
		categories: make(map[string]domain.Category),
	}
}

func (r *catalogRepositoryInMemory) CreateProduct(p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *catalogRepositoryInMemory) GetProduct(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *catalogRepositoryInMemory) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AgentID != "" && p.AgentID != filter.AgentID {
			continue
		}
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		result = append(result, cloneProduct(p))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *catalogRepositoryInMemory) UpdateProduct(p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *catalogRepositoryInMemory) DeleteProduct(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// AdjustStock атомарно применяет дельту. Отрицательный результат отклоняется
// с ErrInsufficientStock, остаток при этом не меняется.
func (r *catalogRepositoryInMemory) AdjustStock(productID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}

	next := p.Stock + delta
	if next < 0 {
		return p.Stock, domain.ErrInsufficientStock
	}
	p.Stock = next
	r.products[productID] = p
	return next, nil
}

func (r *catalogRepositoryInMemory) CreateCategory(c domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(c.Slug, c.ID) {
		return domain.ErrCategorySlugTaken
	}
	r.categories[c.ID] = c
	return nil
}

func (r *catalogRepositoryInMemory) GetCategory(id string) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (r *catalogRepositoryInMemory) ListCategories(activeOnly bool) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if activeOnly && !c.Active {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Slug < result[j].Slug
	})
	return result, nil
}

func (r *catalogRepositoryInMemory) UpdateCategory(c domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.slugTaken(c.Slug, c.ID) {
		return domain.ErrCategorySlugTaken
	}
	r.categories[c.ID] = c
	return nil
}

// slugTaken проверяет занятость slug другой категорией; вызывать под мьютексом.
func (r *catalogRepositoryInMemory) slugTaken(slug, selfID string) bool {
	for id, c := range r.categories {
		if id != selfID && c.Slug == slug {
			return true
		}
	}
	return false
}

func (r *catalogRepositoryInMemory) DeleteCategory(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	if p.Sizes != nil {
		sizes := make([]string, len(p.Sizes))
		copy(sizes, p.Sizes)
		p.Sizes = sizes
	}
	if p.Images != nil {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		p.Images = images
	}
	return p
}

var _ domain.CatalogRepository = (*catalogRepositoryInMemory)(nil)
