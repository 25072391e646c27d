package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/service/lifecycle"
	"github.com/blusmotif/storefront/pkg/validator"
)

// CheckoutHandler принимает оформление заказа и колбэки платёжного шлюза.
type CheckoutHandler struct {
	controller *lifecycle.Controller
}

func NewCheckoutHandler(controller *lifecycle.Controller) *CheckoutHandler {
	return &CheckoutHandler{controller: controller}
}

type checkoutItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Quantity     int32  `json:"quantity" validate:"required,gt=0"`
	SelectedSize string `json:"selected_size"`
}

type checkoutRequest struct {
	CustomerID      string                `json:"customer_id" validate:"required"`
	CustomerEmail   string                `json:"customer_email" validate:"omitempty,email"`
	PaymentMethod   string                `json:"payment_method" validate:"required,oneof=gateway cash"`
	DeliveryMethod  string                `json:"delivery_method" validate:"required,oneof=delivery pickup"`
	DeliveryAddress string                `json:"delivery_address"`
	PickupLocation  string                `json:"pickup_location"`
	Items           []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrder оформляет заказ. Для gateway-заказов в ответе возвращается
// платёжная сессия; сток и уведомления ждут success-колбэка.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	lines := make([]lifecycle.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, lifecycle.CartLine{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			SelectedSize: item.SelectedSize,
		})
	}

	order, session, err := h.controller.PlaceOrder(lifecycle.PlaceOrderRequest{
		CustomerID:      req.CustomerID,
		CustomerEmail:   req.CustomerEmail,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		DeliveryMethod:  domain.DeliveryMethod(req.DeliveryMethod),
		DeliveryAddress: req.DeliveryAddress,
		PickupLocation:  req.PickupLocation,
		Items:           lines,
	})
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"order": order}
	if session != nil {
		resp["payment"] = session
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

type paymentCallbackRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	Reference string `json:"reference" validate:"required"`
}

// PaymentCallback — success-колбэк шлюза. Идемпотентен на стороне контроллера.
func (h *CheckoutHandler) PaymentCallback(c *fiber.Ctx) error {
	var req paymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(req); len(errs) != 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": errs})
	}

	if err := h.controller.OnPaymentSuccess(req.OrderID, req.Reference); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "payment confirmed"})
}

// PaymentCancelled — cancel-путь виджета. Заказ остаётся pending/pending,
// автоматической очистки нет; клиенту сообщается, что оплата не прошла.
func (h *CheckoutHandler) PaymentCancelled(c *fiber.Ctx) error {
	orderID := c.Params("id")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":  "payment was not completed",
		"order_id": orderID,
	})
}
