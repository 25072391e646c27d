package inventory

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/metrics"
)

// Adjuster применяет складские дельты к каталогу.
// Списание, уводящее остаток в минус, отклоняется репозиторием; Adjuster
// никогда не клампит к нулю.
type Adjuster struct {
	catalog domain.CatalogRepository
	logger  *log.Entry
	metrics *metrics.LifecycleMetrics
}

// NewAdjuster создаёт рабочий экземпляр с метриками.
func NewAdjuster(catalog domain.CatalogRepository, logger *log.Entry) *Adjuster {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Adjuster{
		catalog: catalog,
		logger:  logger,
		metrics: metrics.NewLifecycleMetrics(),
	}
}

// NewAdjusterWithoutMetrics создаёт Adjuster без метрик (для тестов).
func NewAdjusterWithoutMetrics(catalog domain.CatalogRepository, logger *log.Entry) *Adjuster {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Adjuster{
		catalog: catalog,
		logger:  logger,
	}
}

// ApplyDelta атомарно применяет дельту к остатку товара.
// Отрицательная дельта — продажа, положительная — возврат при отмене.
func (a *Adjuster) ApplyDelta(productID string, delta int64) (int64, error) {
	newStock, err := a.catalog.AdjustStock(productID, delta)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && a.metrics != nil {
			a.metrics.RecordStockRejection()
		}
		return newStock, err
	}
	if a.metrics != nil {
		a.metrics.RecordStockAdjustment()
	}
	return newStock, nil
}

// ConsumeItems списывает остатки под позиции заказа.
// Пропавший товар пропускается с записью в лог и не блокирует вызывающую
// операцию; то же для гонки по остатку после оплаты. Возвращает true,
// если хотя бы одна дельта была применена.
func (a *Adjuster) ConsumeItems(orderID string, items []domain.OrderItem) bool {
	adjusted := false
	for _, item := range items {
		newStock, err := a.ApplyDelta(item.ProductID, -int64(item.Quantity))
		if err != nil {
			a.logger.WithError(err).WithFields(log.Fields{
				"order_id":   orderID,
				"product_id": item.ProductID,
				"qty":        item.Quantity,
			}).Warn("stock decrement skipped")
			continue
		}
		adjusted = true
		a.logger.WithFields(log.Fields{
			"order_id":   orderID,
			"product_id": item.ProductID,
			"new_stock":  newStock,
		}).Debug("stock decremented")
	}
	return adjusted
}

// RestoreItems возвращает остатки по позициям отменённого заказа (компенсация).
func (a *Adjuster) RestoreItems(orderID string, items []domain.OrderItem) {
	for _, item := range items {
		if _, err := a.ApplyDelta(item.ProductID, int64(item.Quantity)); err != nil {
			a.logger.WithError(err).WithFields(log.Fields{
				"order_id":   orderID,
				"product_id": item.ProductID,
			}).Warn("stock restore skipped")
		}
	}
}
