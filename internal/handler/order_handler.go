package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/service/lifecycle"
)

// OrderHandler — staff-операции над заказами и чтение леджера.
type OrderHandler struct {
	controller *lifecycle.Controller
	orders     domain.OrderRepository
}

func NewOrderHandler(controller *lifecycle.Controller, orders domain.OrderRepository) *OrderHandler {
	return &OrderHandler{controller: controller, orders: orders}
}

// List возвращает заказы; с ?customer_id= — только заказы клиента.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	var (
		orders []domain.Order
		err    error
	)
	if customerID := c.Query("customer_id"); customerID != "" {
		orders, err = h.orders.ListByCustomer(customerID, limit)
	} else {
		orders, err = h.orders.List(limit)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// Advance делает один шаг по таблице переходов.
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	order, err := h.controller.AdvanceStatus(c.Params("id"), getActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// MarkPaid подтверждает оплату наличного заказа.
func (h *OrderHandler) MarkPaid(c *fiber.Ctx) error {
	order, err := h.controller.MarkPaid(c.Params("id"), getActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// Cancel отменяет pending-заказ.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.controller.CancelOrder(c.Params("id"), getActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

type bulkDeleteRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// BulkDelete — hard delete администратора; пишет запись в журнал аудита.
func (h *OrderHandler) BulkDelete(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if len(req.OrderIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "order_ids is required"})
	}

	deleted, err := h.controller.DeleteOrders(getActorID(c), req.OrderIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
