package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderPlaced      EventType = "order.placed"
	EventTypeStatusChanged    EventType = "order.status_changed"
	EventTypePaymentConfirmed EventType = "payment.confirmed"

	// Push события
	EventTypePushRequested EventType = "push.requested"
)

// Topics для Kafka
const (
	TopicOrderEvents  = "storefront.order.events"
	TopicPushRequests = "storefront.push.requests"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// PushEvent представляет запрос пуш-уведомления во внешний канал доставки.
// Доставка best-effort: подтверждений и повторов нет.
type PushEvent struct {
	EventType   EventType `json:"event_type"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	OrderID     string    `json:"order_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}

// NewPushEvent создает новый запрос пуш-уведомления
func NewPushEvent(recipientID, title, body, orderID string) *PushEvent {
	return &PushEvent{
		EventType:   EventTypePushRequested,
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		OrderID:     orderID,
		Timestamp:   time.Now(),
	}
}
