package domain

import (
	"regexp"
	"time"
)

// Product — товар каталога. Остаток меняется только через CatalogRepository.AdjustStock.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена в минимальных денежных единицах.
	PriceMinor int64
	// ComparePriceMinor — зачёркнутая цена; 0 означает отсутствие.
	ComparePriceMinor int64
	CategoryID        string
	Stock             int64
	// Sizes — упорядоченный список размеров; пустой для товаров без размеров.
	Sizes []string
	// Images — от 1 до 6 URI изображений.
	Images   []string
	Featured bool
	// AgentID — владелец товара; пустое значение означает товар администратора.
	AgentID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSize сообщает, доступен ли указанный размер.
// Для товара без размеров допустим только пустой выбор.
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Validate проверяет инварианты товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.ComparePriceMinor != 0 && p.ComparePriceMinor <= p.PriceMinor {
		errs = append(errs, ErrComparePriceInvalid)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrProductStockInvalid)
	}
	if len(p.Images) < 1 || len(p.Images) > 6 {
		errs = append(errs, ErrProductImagesInvalid)
	}

	return errs
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category группирует товары; slug уникален и пригоден для URL.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Image       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate проверяет обязательные поля и форму slug.
func (c *Category) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCategoryNameRequired)
	}
	switch {
	case c.Slug == "":
		errs = append(errs, ErrCategorySlugRequired)
	case !slugPattern.MatchString(c.Slug):
		errs = append(errs, ErrCategorySlugInvalid)
	}

	return errs
}
