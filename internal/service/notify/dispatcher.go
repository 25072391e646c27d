package notify

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/metrics"
)

// Dispatcher — fan-out логического события заказа по трём каналам:
//  1. in-app запись Notification — единственный канал с какой-либо
//     долговечностью; ошибка записи логируется, но не пробрасывается;
//  2. локальный звуковой/визуальный сигнал активным staff-сессиям;
//  3. best-effort пуш во внешний канал; сбой доставки молча игнорируется.
//
// Сбой любого канала никогда не влияет на корректность заказа.
type Dispatcher struct {
	notifications domain.NotificationRepository
	alerts        domain.AlertSink
	push          domain.PushPublisher
	logger        *log.Entry
	metrics       *metrics.LifecycleMetrics
}

// NewDispatcher создаёт диспетчер; alerts и push опциональны (nil = канал выключен).
func NewDispatcher(
	notifications domain.NotificationRepository,
	alerts domain.AlertSink,
	push domain.PushPublisher,
	logger *log.Entry,
) *Dispatcher {
	d := newDispatcher(notifications, alerts, push, logger)
	d.metrics = metrics.NewLifecycleMetrics()
	return d
}

// NewDispatcherWithoutMetrics — вариант для тестов.
func NewDispatcherWithoutMetrics(
	notifications domain.NotificationRepository,
	alerts domain.AlertSink,
	push domain.PushPublisher,
	logger *log.Entry,
) *Dispatcher {
	return newDispatcher(notifications, alerts, push, logger)
}

func newDispatcher(
	notifications domain.NotificationRepository,
	alerts domain.AlertSink,
	push domain.PushPublisher,
	logger *log.Entry,
) *Dispatcher {
	if logger == nil {
		logger = log.New().WithField("component", "notify")
	}
	return &Dispatcher{
		notifications: notifications,
		alerts:        alerts,
		push:          push,
		logger:        logger,
	}
}

// OrderPlaced рассылает событие оформления заказа. Персонал получает
// срочный (трёхтональный) сигнал — это новый заказ.
func (d *Dispatcher) OrderPlaced(order domain.Order) {
	title, message := orderPlacedTemplate.render(order.ID)
	d.deliver(order, title, message, orderPlacedTemplate.Type, domain.AlertKindUrgent)
}

// PaymentConfirmed рассылает подтверждение оплаты.
func (d *Dispatcher) PaymentConfirmed(order domain.Order) {
	title, message := paymentConfirmedTemplate.render(order.ID)
	d.deliver(order, title, message, paymentConfirmedTemplate.Type, domain.AlertKindNormal)
}

// StatusChanged рассылает смену статуса по каталогу сообщений.
func (d *Dispatcher) StatusChanged(order domain.Order, from, to domain.OrderStatus) {
	tmpl, ok := statusTemplates[to]
	if !ok {
		d.logger.WithFields(log.Fields{
			"order_id": order.ID,
			"from":     from,
			"to":       to,
		}).Warn("no notification template for status")
		return
	}
	title, message := tmpl.render(order.ID)
	d.deliver(order, title, message, tmpl.Type, domain.AlertKindNormal)
}

func (d *Dispatcher) deliver(order domain.Order, title, message string, typ domain.NotificationType, kind domain.AlertKind) {
	// Канал 1: долговечная in-app запись.
	record := domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: order.CustomerID,
		Title:       title,
		Message:     message,
		Type:        typ,
		Metadata: map[string]string{
			"order_id":     order.ID,
			"amount_minor": strconv.FormatInt(order.TotalMinor, 10),
			"link":         "/orders/" + order.ID,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := d.notifications.Create(record); err != nil {
		d.logger.WithError(err).WithField("order_id", order.ID).Error("notification record failed")
	} else if d.metrics != nil {
		d.metrics.RecordNotification("in-app")
	}

	// Канал 2: локальный сигнал активным staff-дашбордам.
	if d.alerts != nil {
		d.alerts.Alert(domain.StaffAlert{
			Kind:    kind,
			Title:   title,
			Message: message,
			OrderID: order.ID,
		})
		if d.metrics != nil {
			d.metrics.RecordNotification("alert")
		}
	}

	// Канал 3: best-effort пуш; ни ретраев, ни DLQ.
	if d.push != nil {
		err := d.push.PublishPush(domain.PushMessage{
			RecipientID: order.CustomerID,
			Title:       title,
			Body:        message,
			OrderID:     order.ID,
		})
		if err != nil {
			d.logger.WithError(err).WithField("order_id", order.ID).Warn("push publish failed")
		} else if d.metrics != nil {
			d.metrics.RecordNotification("push")
		}
	}
}
