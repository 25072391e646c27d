package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics содержит метрики жизненного цикла заказов.
type LifecycleMetrics struct {
	// Счётчики операций
	ordersPlaced      *prometheus.CounterVec
	paymentsConfirmed prometheus.Counter
	ordersCancelled   prometheus.Counter

	// Переходы статусов по целевому статусу
	statusTransitions   *prometheus.CounterVec
	rejectedTransitions prometheus.Counter

	// Складские операции
	stockAdjustments prometheus.Counter
	stockRejections  prometheus.Counter

	// Каналы уведомлений
	notificationsDispatched *prometheus.CounterVec

	// Гистограмма времени оформления заказа
	placeOrderDuration prometheus.Histogram
}

// NewLifecycleMetrics создаёт метрики с регистрацией в default registerer.
func NewLifecycleMetrics() *LifecycleMetrics {
	return newLifecycleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLifecycleMetricsWithRegisterer(registerer prometheus.Registerer) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LifecycleMetrics{
		ordersPlaced: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders placed",
		}, []string{"payment_method"}),
		paymentsConfirmed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_payments_confirmed_total",
			Help: "Total number of payment confirmations applied",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_status_transitions_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"to_status"}),
		rejectedTransitions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_rejected_transitions_total",
			Help: "Total number of rejected status transitions",
		}),
		stockAdjustments: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_stock_adjustments_total",
			Help: "Total number of applied stock adjustments",
		}),
		stockRejections: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_stock_rejections_total",
			Help: "Total number of stock adjustments rejected as insufficient",
		}),
		notificationsDispatched: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_notifications_dispatched_total",
			Help: "Total number of notifications dispatched by channel",
		}, []string{"channel"}),
		placeOrderDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_place_order_duration_seconds",
			Help:    "Duration of order placement in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *LifecycleMetrics) RecordOrderPlaced(paymentMethod string) {
	m.ordersPlaced.WithLabelValues(paymentMethod).Inc()
}

// RecordPaymentConfirmed увеличивает счётчик подтверждённых оплат.
func (m *LifecycleMetrics) RecordPaymentConfirmed() {
	m.paymentsConfirmed.Inc()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *LifecycleMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
}

// RecordTransition увеличивает счётчик переходов по целевому статусу.
func (m *LifecycleMetrics) RecordTransition(toStatus string) {
	m.statusTransitions.WithLabelValues(toStatus).Inc()
}

// RecordRejectedTransition увеличивает счётчик отклонённых переходов.
func (m *LifecycleMetrics) RecordRejectedTransition() {
	m.rejectedTransitions.Inc()
}

// RecordStockAdjustment увеличивает счётчик применённых дельт склада.
func (m *LifecycleMetrics) RecordStockAdjustment() {
	m.stockAdjustments.Inc()
}

// RecordStockRejection увеличивает счётчик отклонённых списаний.
func (m *LifecycleMetrics) RecordStockRejection() {
	m.stockRejections.Inc()
}

// RecordNotification увеличивает счётчик доставленных уведомлений по каналу.
func (m *LifecycleMetrics) RecordNotification(channel string) {
	m.notificationsDispatched.WithLabelValues(channel).Inc()
}

// RecordPlaceOrderDuration записывает время оформления заказа.
func (m *LifecycleMetrics) RecordPlaceOrderDuration(duration time.Duration) {
	m.placeOrderDuration.Observe(duration.Seconds())
}
