package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/metrics"
	"github.com/blusmotif/storefront/internal/service/inventory"
)

// StockCapturePolicy задаёт момент списания остатков для наличных заказов.
// Для gateway-заказов списание всегда происходит при подтверждении оплаты.
type StockCapturePolicy string

const (
	// StockCaptureOnPlacement — списывать при оформлении (исторично для наличных).
	StockCaptureOnPlacement StockCapturePolicy = "on-placement"
	// StockCaptureOnPayment — списывать только после подтверждения оплаты.
	StockCaptureOnPayment StockCapturePolicy = "on-payment"
)

// Config — бизнес-параметры контроллера.
type Config struct {
	// DeliveryFeeMinor добавляется к total только для заказов с доставкой.
	DeliveryFeeMinor int64
	Currency         string
	// CashStockPolicy делает асимметрию оригинала явной и настраиваемой:
	// наличные по умолчанию списываются при оформлении.
	CashStockPolicy StockCapturePolicy
}

// DefaultConfig возвращает политику, воспроизводящую исходное поведение.
func DefaultConfig() Config {
	return Config{
		DeliveryFeeMinor: 1000,
		Currency:         "GHS",
		CashStockPolicy:  StockCaptureOnPlacement,
	}
}

// Notifier — контракт диспетчера уведомлений с точки зрения контроллера.
// Все вызовы best-effort: их сбои не влияют на состояние заказа.
type Notifier interface {
	OrderPlaced(order domain.Order)
	PaymentConfirmed(order domain.Order)
	StatusChanged(order domain.Order, from, to domain.OrderStatus)
}

// CartLine — позиция корзины до снапшота.
type CartLine struct {
	ProductID    string
	Quantity     int32
	SelectedSize string
}

// PlaceOrderRequest — параметры оформления заказа.
type PlaceOrderRequest struct {
	CustomerID      string
	CustomerEmail   string
	PaymentMethod   domain.PaymentMethod
	DeliveryMethod  domain.DeliveryMethod
	DeliveryAddress string
	PickupLocation  string
	Items           []CartLine
}

// Controller — единственная точка изменения статусов и платёжных полей заказа.
// UI не мутирует заказы напрямую, только через операции контроллера.
type Controller struct {
	orders    domain.OrderRepository
	catalog   domain.CatalogRepository
	inventory *inventory.Adjuster
	gateway   domain.PaymentGateway
	notifier  Notifier
	activity  domain.ActivityLogRepository
	cfg       Config
	logger    *log.Entry
	metrics   *metrics.LifecycleMetrics
}

// NewController создаёт рабочий экземпляр контроллера.
func NewController(
	orders domain.OrderRepository,
	catalog domain.CatalogRepository,
	adjuster *inventory.Adjuster,
	gateway domain.PaymentGateway,
	notifier Notifier,
	activity domain.ActivityLogRepository,
	cfg Config,
	logger *log.Entry,
) *Controller {
	c := newController(orders, catalog, adjuster, gateway, notifier, activity, cfg, logger)
	c.metrics = metrics.NewLifecycleMetrics()
	return c
}

// NewControllerWithoutMetrics создаёт контроллер без метрик (для тестов).
func NewControllerWithoutMetrics(
	orders domain.OrderRepository,
	catalog domain.CatalogRepository,
	adjuster *inventory.Adjuster,
	gateway domain.PaymentGateway,
	notifier Notifier,
	activity domain.ActivityLogRepository,
	cfg Config,
	logger *log.Entry,
) *Controller {
	return newController(orders, catalog, adjuster, gateway, notifier, activity, cfg, logger)
}

func newController(
	orders domain.OrderRepository,
	catalog domain.CatalogRepository,
	adjuster *inventory.Adjuster,
	gateway domain.PaymentGateway,
	notifier Notifier,
	activity domain.ActivityLogRepository,
	cfg Config,
	logger *log.Entry,
) *Controller {
	if logger == nil {
		logger = log.New().WithField("component", "lifecycle")
	}
	if cfg.CashStockPolicy == "" {
		cfg.CashStockPolicy = StockCaptureOnPlacement
	}
	return &Controller{
		orders:    orders,
		catalog:   catalog,
		inventory: adjuster,
		gateway:   gateway,
		notifier:  notifier,
		activity:  activity,
		cfg:       cfg,
		logger:    logger,
	}
}

// PlaceOrder снапшотит корзину, пишет заказ pending/pending и в зависимости
// от способа оплаты либо сразу списывает сток и шлёт уведомление (наличные),
// либо открывает платёжную сессию (gateway). До success-колбэка шлюза
// gateway-заказ не трогает ни сток, ни уведомления.
func (c *Controller) PlaceOrder(req PlaceOrderRequest) (domain.Order, *domain.PaymentSession, error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordPlaceOrderDuration(time.Since(start))
		}
	}()

	items, err := c.snapshotItems(req.Items)
	if err != nil {
		return domain.Order{}, nil, err
	}

	var subtotal int64
	for _, item := range items {
		subtotal += int64(item.Quantity) * item.PriceMinor
	}

	var fee int64
	if req.DeliveryMethod == domain.DeliveryMethodDelivery {
		fee = c.cfg.DeliveryFeeMinor
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       req.CustomerID,
		Items:            items,
		SubtotalMinor:    subtotal,
		DeliveryFeeMinor: fee,
		TotalMinor:       subtotal + fee,
		DeliveryMethod:   req.DeliveryMethod,
		DeliveryAddress:  req.DeliveryAddress,
		PickupLocation:   req.PickupLocation,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    domain.PaymentStatusPending,
		Status:           domain.OrderStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if errs := order.ValidateInvariants(); len(errs) != 0 {
		return domain.Order{}, nil, errors.Join(errs...)
	}

	if err := c.orders.Create(order); err != nil {
		return domain.Order{}, nil, fmt.Errorf("create order: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordOrderPlaced(string(req.PaymentMethod))
	}

	switch req.PaymentMethod {
	case domain.PaymentMethodCash:
		if c.cfg.CashStockPolicy == StockCaptureOnPlacement {
			order = c.captureStock(order)
		}
		if c.notifier != nil {
			c.notifier.OrderPlaced(order)
		}
		return order, nil, nil

	default: // gateway
		session, err := c.gateway.Initiate(domain.PaymentRequest{
			OrderID:       order.ID,
			AmountMinor:   order.TotalMinor,
			Currency:      c.cfg.Currency,
			CustomerEmail: req.CustomerEmail,
			Metadata:      map[string]string{"customer_id": order.CustomerID},
		})
		if err != nil {
			// Заказ уже записан и остаётся pending/pending: автоматической
			// очистки нет, оплату можно повторить по той же записи.
			c.logger.WithError(err).WithField("order_id", order.ID).Warn("payment initiation failed")
			return order, nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
		}
		return order, &session, nil
	}
}

// OnPaymentSuccess — success-колбэк платёжного шлюза. Идемпотентен: повторный
// вызов для уже оплаченного заказа ничего не делает и не списывает сток
// второй раз. Запоздавший колбэк по отменённому заказу отклоняется: отмена
// уже вернула сток, и повторное списание оставило бы его без компенсации.
func (c *Controller) OnPaymentSuccess(orderID, paymentReference string) error {
	order, changed, err := c.mutateOrder(orderID, func(o *domain.Order) (bool, error) {
		if o.IsPaid() {
			return false, nil
		}
		if o.Status == domain.OrderStatusCancelled {
			return false, domain.ErrInvalidTransition
		}
		now := time.Now().UTC()
		o.PaymentStatus = domain.PaymentStatusPaid
		o.PaidAt = &now
		o.PaymentReference = paymentReference
		return true, nil
	})
	if err != nil {
		return err
	}
	if !changed {
		c.logger.WithField("order_id", orderID).Debug("payment already confirmed, skipping")
		return nil
	}

	if c.metrics != nil {
		c.metrics.RecordPaymentConfirmed()
	}

	if !order.StockAdjusted && c.inventory != nil {
		if c.inventory.ConsumeItems(order.ID, order.Items) {
			order = c.markStockAdjusted(order)
		}
	}

	if c.notifier != nil {
		c.notifier.OrderPlaced(order)
		c.notifier.PaymentConfirmed(order)
	}
	return nil
}

// AdvanceStatus делает ровно один шаг по таблице переходов.
// Терминальный или неизвестный переход отклоняется без мутаций и уведомлений.
func (c *Controller) AdvanceStatus(orderID, actor string) (domain.Order, error) {
	var from, to domain.OrderStatus
	order, changed, err := c.mutateOrder(orderID, func(o *domain.Order) (bool, error) {
		next, err := NextStatus(o.Status, o.DeliveryMethod)
		if err != nil {
			return false, err
		}
		from, to = o.Status, next
		o.Status = next
		return true, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) && c.metrics != nil {
			c.metrics.RecordRejectedTransition()
		}
		return order, err
	}
	if !changed {
		return order, nil
	}

	c.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"from":     from,
		"to":       to,
		"actor":    actor,
	}).Info("order status advanced")
	if c.metrics != nil {
		c.metrics.RecordTransition(string(to))
	}
	if c.notifier != nil {
		c.notifier.StatusChanged(order, from, to)
	}
	return order, nil
}

// MarkPaid — подтверждение оплаты персоналом для наличных заказов.
// При дефолтной политике сток не трогается: для наличных он списан при
// оформлении. Если списание было отложено, оно происходит здесь ровно
// один раз. Повторный вызов — no-op. Отменённый заказ пометить оплаченным
// нельзя; delivered/picked-up остаются доступными для позднего расчёта
// наличными.
func (c *Controller) MarkPaid(orderID, actor string) (domain.Order, error) {
	order, changed, err := c.mutateOrder(orderID, func(o *domain.Order) (bool, error) {
		if o.IsPaid() {
			return false, nil
		}
		if o.Status == domain.OrderStatusCancelled {
			return false, domain.ErrInvalidTransition
		}
		now := time.Now().UTC()
		o.PaymentStatus = domain.PaymentStatusPaid
		o.PaidAt = &now
		return true, nil
	})
	if err != nil {
		return order, err
	}
	if !changed {
		return order, nil
	}

	if !order.StockAdjusted && c.inventory != nil {
		if c.inventory.ConsumeItems(order.ID, order.Items) {
			order = c.markStockAdjusted(order)
		}
	}

	c.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"actor":    actor,
	}).Info("payment marked confirmed")
	if c.metrics != nil {
		c.metrics.RecordPaymentConfirmed()
	}
	if c.notifier != nil {
		c.notifier.PaymentConfirmed(order)
	}
	return order, nil
}

// CancelOrder отменяет заказ; допустимо только из pending. Если под заказ
// уже списывался сток, он возвращается обратной дельтой.
func (c *Controller) CancelOrder(orderID, actor string) (domain.Order, error) {
	wasAdjusted := false
	order, changed, err := c.mutateOrder(orderID, func(o *domain.Order) (bool, error) {
		if !CanCancel(o.Status) {
			return false, domain.ErrInvalidTransition
		}
		wasAdjusted = o.StockAdjusted
		o.Status = domain.OrderStatusCancelled
		o.StockAdjusted = false
		return true, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) && c.metrics != nil {
			c.metrics.RecordRejectedTransition()
		}
		return order, err
	}
	if !changed {
		return order, nil
	}

	if wasAdjusted && c.inventory != nil {
		c.inventory.RestoreItems(order.ID, order.Items)
	}

	c.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"actor":    actor,
	}).Info("order cancelled")
	if c.metrics != nil {
		c.metrics.RecordOrderCancelled()
	}
	if c.notifier != nil {
		c.notifier.StatusChanged(order, domain.OrderStatusPending, domain.OrderStatusCancelled)
	}
	return order, nil
}

// DeleteOrders — hard delete для администратора; факт фиксируется в журнале
// аудита. Сбой записи аудита не блокирует удаление.
func (c *Controller) DeleteOrders(actor string, orderIDs []string) (int, error) {
	deleted := 0
	for _, id := range orderIDs {
		if err := c.orders.Delete(id); err != nil {
			c.logger.WithError(err).WithField("order_id", id).Warn("order delete skipped")
			continue
		}
		deleted++
	}

	if c.activity != nil && deleted > 0 {
		entry := domain.ActivityLogEntry{
			ID:          fmt.Sprintf("%d", time.Now().UnixNano()),
			Action:      "orders.bulk_delete",
			PerformedBy: actor,
			Details:     fmt.Sprintf("deleted %d of %d orders", deleted, len(orderIDs)),
			Timestamp:   time.Now().UTC(),
		}
		if err := c.activity.Append(entry); err != nil {
			c.logger.WithError(err).Warn("activity log append failed")
		}
	}
	return deleted, nil
}

// snapshotItems замораживает имя/цену/размер на момент покупки и проверяет
// доступность. Нехватка остатка отклоняет оформление, а не клампит сток.
func (c *Controller) snapshotItems(lines []CartLine) ([]domain.OrderItem, error) {
	if len(lines) == 0 {
		return nil, domain.ErrItemsRequired
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrItemQtyInvalid
		}
		product, err := c.catalog.GetProduct(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, err)
		}
		if !product.HasSize(line.SelectedSize) {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, domain.ErrSizeUnavailable)
		}
		if int64(line.Quantity) > product.Stock {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, domain.ErrInsufficientStock)
		}
		items = append(items, domain.OrderItem{
			ProductID:    product.ID,
			AgentID:      product.AgentID,
			Name:         product.Name,
			PriceMinor:   product.PriceMinor,
			Quantity:     line.Quantity,
			SelectedSize: line.SelectedSize,
		})
	}
	return items, nil
}

// captureStock списывает остатки под заказ и фиксирует флаг StockAdjusted.
func (c *Controller) captureStock(order domain.Order) domain.Order {
	if c.inventory == nil {
		return order
	}
	if !c.inventory.ConsumeItems(order.ID, order.Items) {
		return order
	}
	return c.markStockAdjusted(order)
}

func (c *Controller) markStockAdjusted(order domain.Order) domain.Order {
	updated, _, err := c.mutateOrder(order.ID, func(o *domain.Order) (bool, error) {
		if o.StockAdjusted {
			return false, nil
		}
		o.StockAdjusted = true
		return true, nil
	})
	if err != nil {
		// Флаг не записался: худший исход — повторная попытка списания,
		// которую отсечёт идемпотентная проверка оплаты.
		c.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist stock flag")
		return order
	}
	return updated
}

const (
	maxSaveRetries     = 3
	saveRetryBaseDelay = 10 * time.Millisecond
)

// mutateOrder перечитывает заказ, применяет mutate и сохраняет с учётом
// optimistic locking. Конфликт версий приводит к повтору со свежим
// состоянием и exponential backoff (mutate обязана быть идемпотентной).
// Второе возвращаемое значение false означает, что операция была no-op.
func (c *Controller) mutateOrder(orderID string, mutate func(o *domain.Order) (bool, error)) (domain.Order, bool, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		order, err := c.orders.Get(orderID)
		if err != nil {
			return domain.Order{}, false, err
		}

		proceed, err := mutate(&order)
		if err != nil {
			return order, false, err
		}
		if !proceed {
			return order, false, nil
		}

		order.UpdatedAt = time.Now().UTC()
		if err := c.orders.Save(order); err != nil {
			if domain.IsVersionConflict(err) && attempt < maxSaveRetries-1 {
				c.logger.WithFields(log.Fields{
					"order_id": orderID,
					"attempt":  attempt + 1,
				}).Warn("version conflict detected, retrying")
				time.Sleep(saveRetryBaseDelay * time.Duration(1<<uint(attempt)))
				continue
			}
			return order, false, err
		}

		order.Version++
		return order, true, nil
	}
	return domain.Order{}, false, domain.ErrOrderVersionConflict
}
