package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blusmotif/storefront/internal/domain"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создаёт PostgreSQL-реализацию CatalogRepository.
func NewCatalogRepository(store *Store) domain.CatalogRepository {
	return &catalogRepository{db: store.DB()}
}

const productColumns = `
	id, name, description, price_minor, compare_price_minor, category_id,
	stock, sizes, images, featured, agent_id, created_at, updated_at
`

func (r *catalogRepository) CreateProduct(p domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	sizes, images, err := marshalProductLists(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID, p.Name, p.Description, p.PriceMinor, p.ComparePriceMinor, p.CategoryID,
		p.Stock, sizes, images, p.Featured, p.AgentID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetProduct(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *catalogRepository) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := make([]any, 0, 3)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.AgentID != "" {
		args = append(args, filter.AgentID)
		query += fmt.Sprintf(" AND agent_id = $%d", len(args))
	}
	if filter.FeaturedOnly {
		query += " AND featured"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) UpdateProduct(p domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	sizes, images, err := marshalProductLists(p)
	if err != nil {
		return err
	}

	// Остаток здесь не трогаем: stock меняется только через AdjustStock.
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    description = $2,
		    price_minor = $3,
		    compare_price_minor = $4,
		    category_id = $5,
		    sizes = $6,
		    images = $7,
		    featured = $8,
		    updated_at = $9
		WHERE id = $10
	`,
		p.Name, p.Description, p.PriceMinor, p.ComparePriceMinor, p.CategoryID,
		sizes, images, p.Featured, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

func (r *catalogRepository) DeleteProduct(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// AdjustStock выполняет сравнение и запись одним UPDATE: дельта применяется
// только если результат неотрицателен, гонки исключает сама база.
func (r *catalogRepository) AdjustStock(productID string, delta int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var stock int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND stock + $2 >= 0
		RETURNING stock
	`, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// UPDATE никого не задел: различаем отсутствие товара и нехватку остатка.
	err = r.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select stock: %w", err)
	}
	return stock, domain.ErrInsufficientStock
}

func (r *catalogRepository) CreateCategory(c domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, image, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategorySlugTaken
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetCategory(id string) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, image, active, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *catalogRepository) ListCategories(activeOnly bool) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, name, slug, description, image, active, created_at, updated_at
		FROM categories
	`
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY slug ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func (r *catalogRepository) UpdateCategory(c domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, image = $4, active = $5, updated_at = $6
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.Image, c.Active, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategorySlugTaken
		}
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, domain.ErrCategoryNotFound)
}

func (r *catalogRepository) DeleteCategory(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, domain.ErrCategoryNotFound)
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p      domain.Product
		sizes  []byte
		images []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceMinor, &p.ComparePriceMinor, &p.CategoryID,
		&p.Stock, &sizes, &images, &p.Featured, &p.AgentID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
		return domain.Product{}, fmt.Errorf("unmarshal product sizes: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return domain.Product{}, fmt.Errorf("unmarshal product images: %w", err)
	}
	return p, nil
}

func marshalProductLists(p domain.Product) ([]byte, []byte, error) {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal product sizes: %w", err)
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal product images: %w", err)
	}
	return sizes, images, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.CatalogRepository = (*catalogRepository)(nil)
