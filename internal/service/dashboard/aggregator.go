package dashboard

import (
	"sort"

	"github.com/blusmotif/storefront/internal/domain"
)

// Snapshot — срез заказов и каталога на момент пересчёта.
// Агрегатор чистый: никакого собственного хранилища и кэшей, каждый
// пересчёт — полный проход по снапшоту.
type Snapshot struct {
	Orders   []domain.Order
	Products []domain.Product
}

// ProductSales — роллап проданных позиций. Ключ — иммутабельный ProductID;
// имя хранится только для отображения.
type ProductSales struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	RevenueMinor int64  `json:"revenue_minor"`
}

// AgentSales — атрибуция продаж агенту-владельцу товара.
// Пустой AgentID означает товары администратора.
type AgentSales struct {
	AgentID      string `json:"agent_id"`
	Quantity     int64  `json:"quantity"`
	RevenueMinor int64  `json:"revenue_minor"`
}

// StockLevels — распределение товаров по корзинам остатков.
type StockLevels struct {
	OutOfStock int `json:"out_of_stock"` // = 0
	Low        int `json:"low"`          // 1..10
	Healthy    int `json:"healthy"`      // > 10
}

// Stats — полный набор дашборд-проекций.
type Stats struct {
	RevenueMinor  int64          `json:"revenue_minor"`
	OrdersTotal   int            `json:"orders_total"`
	OrdersPending int            `json:"orders_pending"`
	ProductSales  []ProductSales `json:"product_sales"`
	AgentSales    []AgentSales   `json:"agent_sales"`
	StockLevels   StockLevels    `json:"stock_levels"`
}

// countsAsRevenue — предикат «заказ оплачен» для выручки: явный paid либо
// терминальный delivered/picked-up как прокси оплаты для исторических
// записей без выставленного paymentStatus.
func countsAsRevenue(o *domain.Order) bool {
	if o.IsPaid() {
		return true
	}
	return o.Status == domain.OrderStatusDelivered || o.Status == domain.OrderStatusPickedUp
}

// RevenueMinor суммирует total по заказам, проходящим предикат выручки.
func RevenueMinor(orders []domain.Order) int64 {
	var total int64
	for i := range orders {
		if countsAsRevenue(&orders[i]) {
			total += orders[i].TotalMinor
		}
	}
	return total
}

// Compute пересчитывает все проекции по снапшоту.
func Compute(snap Snapshot) Stats {
	stats := Stats{
		RevenueMinor: RevenueMinor(snap.Orders),
		OrdersTotal:  len(snap.Orders),
	}

	productRollup := make(map[string]*ProductSales)
	agentRollup := make(map[string]*AgentSales)

	for i := range snap.Orders {
		order := &snap.Orders[i]
		if order.Status == domain.OrderStatusPending {
			stats.OrdersPending++
		}
		if !countsAsRevenue(order) {
			continue
		}
		for _, item := range order.Items {
			lineRevenue := int64(item.Quantity) * item.PriceMinor

			ps, ok := productRollup[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				productRollup[item.ProductID] = ps
			}
			ps.Quantity += int64(item.Quantity)
			ps.RevenueMinor += lineRevenue

			as, ok := agentRollup[item.AgentID]
			if !ok {
				as = &AgentSales{AgentID: item.AgentID}
				agentRollup[item.AgentID] = as
			}
			as.Quantity += int64(item.Quantity)
			as.RevenueMinor += lineRevenue
		}
	}

	stats.ProductSales = make([]ProductSales, 0, len(productRollup))
	for _, ps := range productRollup {
		stats.ProductSales = append(stats.ProductSales, *ps)
	}
	sort.Slice(stats.ProductSales, func(i, j int) bool {
		if stats.ProductSales[i].RevenueMinor != stats.ProductSales[j].RevenueMinor {
			return stats.ProductSales[i].RevenueMinor > stats.ProductSales[j].RevenueMinor
		}
		return stats.ProductSales[i].ProductID < stats.ProductSales[j].ProductID
	})

	stats.AgentSales = make([]AgentSales, 0, len(agentRollup))
	for _, as := range agentRollup {
		stats.AgentSales = append(stats.AgentSales, *as)
	}
	sort.Slice(stats.AgentSales, func(i, j int) bool {
		if stats.AgentSales[i].RevenueMinor != stats.AgentSales[j].RevenueMinor {
			return stats.AgentSales[i].RevenueMinor > stats.AgentSales[j].RevenueMinor
		}
		return stats.AgentSales[i].AgentID < stats.AgentSales[j].AgentID
	})

	stats.StockLevels = BucketStock(snap.Products)
	return stats
}

// BucketStock раскладывает товары по корзинам остатков.
func BucketStock(products []domain.Product) StockLevels {
	var levels StockLevels
	for i := range products {
		switch stock := products[i].Stock; {
		case stock == 0:
			levels.OutOfStock++
		case stock <= 10:
			levels.Low++
		default:
			levels.Healthy++
		}
	}
	return levels
}
