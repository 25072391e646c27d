package lifecycle

import "github.com/blusmotif/storefront/internal/domain"

// Таблица переходов. Ветка после confirmed выбирается способом доставки,
// зафиксированным при создании заказа; cancelled достижим только из pending.
//
//	pending → confirmed → out-for-delivery → delivered        (delivery)
//	pending → confirmed → ready-for-pickup → picked-up        (pickup)
var transitions = map[domain.DeliveryMethod]map[domain.OrderStatus]domain.OrderStatus{
	domain.DeliveryMethodDelivery: {
		domain.OrderStatusPending:        domain.OrderStatusConfirmed,
		domain.OrderStatusConfirmed:      domain.OrderStatusOutForDelivery,
		domain.OrderStatusOutForDelivery: domain.OrderStatusDelivered,
	},
	domain.DeliveryMethodPickup: {
		domain.OrderStatusPending:        domain.OrderStatusConfirmed,
		domain.OrderStatusConfirmed:      domain.OrderStatusReadyForPickup,
		domain.OrderStatusReadyForPickup: domain.OrderStatusPickedUp,
	},
}

// NextStatus возвращает следующий статус по таблице переходов.
// Терминальные статусы и неизвестные комбинации дают ErrInvalidTransition.
func NextStatus(current domain.OrderStatus, method domain.DeliveryMethod) (domain.OrderStatus, error) {
	table, ok := transitions[method]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	next, ok := table[current]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	return next, nil
}

// CanCancel сообщает, допускает ли текущий статус отмену.
func CanCancel(current domain.OrderStatus) bool {
	return current == domain.OrderStatusPending
}
