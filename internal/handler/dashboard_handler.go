package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/service/dashboard"
)

// DashboardHandler пересчитывает агрегаты на каждый запрос — без кэшей.
type DashboardHandler struct {
	orders   domain.OrderRepository
	catalog  domain.CatalogRepository
	activity domain.ActivityLogRepository
}

func NewDashboardHandler(orders domain.OrderRepository, catalog domain.CatalogRepository, activity domain.ActivityLogRepository) *DashboardHandler {
	return &DashboardHandler{orders: orders, catalog: catalog, activity: activity}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	orders, err := h.orders.List(0)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.catalog.ListProducts(domain.ProductFilter{})
	if err != nil {
		return respondError(c, err)
	}

	stats := dashboard.Compute(dashboard.Snapshot{Orders: orders, Products: products})
	return c.JSON(fiber.Map{"stats": stats})
}

func (h *DashboardHandler) ActivityLog(c *fiber.Ctx) error {
	entries, err := h.activity.List(c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"activity": entries})
}
