package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/pkg/validator"
)

// CatalogHandler — CRUD по товарам и категориям для агентов и администратора.
type CatalogHandler struct {
	catalog domain.CatalogRepository
}

func NewCatalogHandler(catalog domain.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type productRequest struct {
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description"`
	PriceMinor        int64    `json:"price_minor" validate:"gte=0"`
	ComparePriceMinor int64    `json:"compare_price_minor" validate:"gte=0"`
	CategoryID        string   `json:"category_id"`
	Stock             int64    `json:"stock" validate:"gte=0"`
	Sizes             []string `json:"sizes"`
	Images            []string `json:"images" validate:"required,min=1,max=6"`
	Featured          bool     `json:"featured"`
	AgentID           string   `json:"agent_id"`
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Description:       req.Description,
		PriceMinor:        req.PriceMinor,
		ComparePriceMinor: req.ComparePriceMinor,
		CategoryID:        req.CategoryID,
		Stock:             req.Stock,
		Sizes:             req.Sizes,
		Images:            req.Images,
		Featured:          req.Featured,
		AgentID:           req.AgentID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if errs := product.Validate(); len(errs) != 0 {
		return respondError(c, errors.Join(errs...))
	}

	if err := h.catalog.CreateProduct(product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		CategoryID:   c.Query("category_id"),
		AgentID:      c.Query("agent_id"),
		FeaturedOnly: c.QueryBool("featured", false),
	}
	products, err := h.catalog.ListProducts(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// UpdateProduct перезаписывает карточку товара. Остаток меняется только
// через AdjustStock, поэтому stock из запроса игнорируется.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	existing, err := h.catalog.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.PriceMinor = req.PriceMinor
	existing.ComparePriceMinor = req.ComparePriceMinor
	existing.CategoryID = req.CategoryID
	existing.Sizes = req.Sizes
	existing.Images = req.Images
	existing.Featured = req.Featured
	existing.UpdatedAt = time.Now().UTC()

	if errs := existing.Validate(); len(errs) != 0 {
		return respondError(c, errors.Join(errs...))
	}
	if err := h.catalog.UpdateProduct(existing); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product": existing})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required,slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Active      bool   `json:"active"`
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		Active:      req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.catalog.CreateCategory(category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	existing, err := h.catalog.GetCategory(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	existing.Name = req.Name
	existing.Slug = req.Slug
	existing.Description = req.Description
	existing.Image = req.Image
	existing.Active = req.Active
	existing.UpdatedAt = time.Now().UTC()

	if err := h.catalog.UpdateCategory(existing); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"category": existing})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCategory(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}
