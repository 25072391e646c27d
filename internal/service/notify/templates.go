package notify

import (
	"fmt"

	"github.com/blusmotif/storefront/internal/domain"
)

// template — заголовок/текст/тип уведомления для события.
type template struct {
	Title   string
	Message string
	Type    domain.NotificationType
}

// Каталог сообщений по целевому статусу.
var statusTemplates = map[domain.OrderStatus]template{
	domain.OrderStatusConfirmed: {
		Title:   "Order Confirmed!",
		Message: "Your order #%s has been confirmed and is being prepared.",
		Type:    domain.NotificationSuccess,
	},
	domain.OrderStatusOutForDelivery: {
		Title:   "Order Out for Delivery",
		Message: "Your order #%s is on its way.",
		Type:    domain.NotificationInfo,
	},
	domain.OrderStatusReadyForPickup: {
		Title:   "Order Ready for Pickup",
		Message: "Your order #%s is ready for pickup.",
		Type:    domain.NotificationInfo,
	},
	domain.OrderStatusDelivered: {
		Title:   "Order Delivered",
		Message: "Your order #%s has been delivered. Enjoy!",
		Type:    domain.NotificationSuccess,
	},
	domain.OrderStatusPickedUp: {
		Title:   "Order Picked Up",
		Message: "Your order #%s has been picked up. Thank you!",
		Type:    domain.NotificationSuccess,
	},
	domain.OrderStatusCancelled: {
		Title:   "Order Cancelled",
		Message: "Your order #%s has been cancelled.",
		Type:    domain.NotificationError,
	},
}

var (
	orderPlacedTemplate = template{
		Title:   "Order Placed Successfully",
		Message: "Your order #%s has been placed.",
		Type:    domain.NotificationSuccess,
	}
	paymentConfirmedTemplate = template{
		Title:   "Payment Confirmed",
		Message: "Payment for order #%s has been confirmed.",
		Type:    domain.NotificationSuccess,
	}
)

// shortID обрезает идентификатор для человекочитаемых сообщений.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (t template) render(orderID string) (string, string) {
	return t.Title, fmt.Sprintf(t.Message, shortID(orderID))
}
