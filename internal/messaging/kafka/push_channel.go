package kafka

import (
	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
)

// PushChannel публикует запросы пуш-уведомлений в Kafka.
// Это best-effort канал: ошибка публикации возвращается вызывающему,
// который её логирует и глотает.
type PushChannel struct {
	producer *Producer
	logger   *log.Entry
}

// NewPushChannel создаёт канал поверх готового producer.
func NewPushChannel(producer *Producer) *PushChannel {
	return &PushChannel{
		producer: producer,
		logger:   log.WithField("component", "push-channel"),
	}
}

// PublishPush отправляет запрос пуша внешнему доставщику.
func (c *PushChannel) PublishPush(msg domain.PushMessage) error {
	event := NewPushEvent(msg.RecipientID, msg.Title, msg.Body, msg.OrderID)
	return c.producer.PublishEvent(TopicPushRequests, msg.RecipientID, event)
}

var _ domain.PushPublisher = (*PushChannel)(nil)

// OrderEventPublisher дублирует события жизненного цикла заказа в Kafka
// для внешних потребителей (аналитика, интеграции). Реализует контракт
// Notifier контроллера; сбои публикации только логируются.
type OrderEventPublisher struct {
	producer *Producer
	logger   *log.Entry
}

// NewOrderEventPublisher создаёт издатель событий заказов.
func NewOrderEventPublisher(producer *Producer) *OrderEventPublisher {
	return &OrderEventPublisher{
		producer: producer,
		logger:   log.WithField("component", "order-events"),
	}
}

// OrderPlaced публикует событие оформления заказа.
func (p *OrderEventPublisher) OrderPlaced(order domain.Order) {
	p.publish(EventTypeOrderPlaced, order, map[string]interface{}{
		"amount_minor":   order.TotalMinor,
		"payment_method": string(order.PaymentMethod),
	})
}

// PaymentConfirmed публикует подтверждение оплаты.
func (p *OrderEventPublisher) PaymentConfirmed(order domain.Order) {
	p.publish(EventTypePaymentConfirmed, order, map[string]interface{}{
		"amount_minor": order.TotalMinor,
		"reference":    order.PaymentReference,
	})
}

// StatusChanged публикует смену статуса.
func (p *OrderEventPublisher) StatusChanged(order domain.Order, from, to domain.OrderStatus) {
	p.publish(EventTypeStatusChanged, order, map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
}

func (p *OrderEventPublisher) publish(eventType EventType, order domain.Order, metadata map[string]interface{}) {
	event := NewOrderEvent(eventType, order.ID, order.CustomerID, string(order.Status), metadata)
	if err := p.producer.PublishEvent(TopicOrderEvents, order.ID, event); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event to kafka")
	}
}
