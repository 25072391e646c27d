package dashboard

import (
	"testing"

	"github.com/blusmotif/storefront/internal/domain"
)

func paidOrder(id string, total int64, items ...domain.OrderItem) domain.Order {
	return domain.Order{
		ID:            id,
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusConfirmed,
		TotalMinor:    total,
		Items:         items,
	}
}

func TestRevenueMinor(t *testing.T) {
	// Оплаченный 50 + исторический delivered без paymentStatus 30;
	// неоплаченный pending в выручку не входит.
	orders := []domain.Order{
		paidOrder("order-1", 50),
		{ID: "order-2", Status: domain.OrderStatusDelivered, TotalMinor: 30},
		{ID: "order-3", PaymentStatus: domain.PaymentStatusPending, Status: domain.OrderStatusPending, TotalMinor: 20},
	}

	if got := RevenueMinor(orders); got != 80 {
		t.Fatalf("expected revenue 80, got %d", got)
	}
}

func TestRevenueMinor_TerminalStatuses(t *testing.T) {
	orders := []domain.Order{
		// Picked-up без paymentStatus считается оплаченным, как delivered.
		{ID: "order-1", Status: domain.OrderStatusPickedUp, TotalMinor: 500},
		// Отменённый не входит даже при terminal-статусе.
		{ID: "order-2", PaymentStatus: domain.PaymentStatusPending, Status: domain.OrderStatusCancelled, TotalMinor: 700},
	}

	if got := RevenueMinor(orders); got != 500 {
		t.Fatalf("expected revenue 500, got %d", got)
	}
}

func TestCompute_ProductRollupKeyedByID(t *testing.T) {
	// Один и тот же товар под разными снапшотами имени.
	orders := []domain.Order{
		paidOrder("order-1", 2000, domain.OrderItem{ProductID: "prod-1", Name: "Shirt", AgentID: "agent-1", PriceMinor: 1000, Quantity: 2}),
		paidOrder("order-2", 1000, domain.OrderItem{ProductID: "prod-1", Name: "Shirt (renamed)", AgentID: "agent-1", PriceMinor: 1000, Quantity: 1}),
	}

	stats := Compute(Snapshot{Orders: orders})
	if len(stats.ProductSales) != 1 {
		t.Fatalf("expected single rollup row, got %+v", stats.ProductSales)
	}
	row := stats.ProductSales[0]
	if row.ProductID != "prod-1" || row.Quantity != 3 || row.RevenueMinor != 3000 {
		t.Fatalf("unexpected rollup: %+v", row)
	}
}

func TestCompute_SortsByRevenueThenID(t *testing.T) {
	orders := []domain.Order{
		paidOrder("order-1", 5000,
			domain.OrderItem{ProductID: "prod-b", Name: "B", AgentID: "agent-2", PriceMinor: 1000, Quantity: 2},
			domain.OrderItem{ProductID: "prod-a", Name: "A", AgentID: "agent-1", PriceMinor: 1000, Quantity: 2},
			domain.OrderItem{ProductID: "prod-c", Name: "C", AgentID: "agent-3", PriceMinor: 500, Quantity: 2},
		),
	}

	stats := Compute(Snapshot{Orders: orders})
	if len(stats.ProductSales) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stats.ProductSales))
	}
	// Равная выручка ломается по возрастанию id, потом хвост с меньшей.
	if stats.ProductSales[0].ProductID != "prod-a" || stats.ProductSales[1].ProductID != "prod-b" || stats.ProductSales[2].ProductID != "prod-c" {
		t.Fatalf("unexpected order: %+v", stats.ProductSales)
	}
}

func TestCompute_AgentAttribution(t *testing.T) {
	orders := []domain.Order{
		paidOrder("order-1", 4000,
			domain.OrderItem{ProductID: "prod-1", Name: "Shirt", AgentID: "agent-1", PriceMinor: 1000, Quantity: 3},
			// Товар администратора: пустой AgentID.
			domain.OrderItem{ProductID: "prod-2", Name: "Cap", AgentID: "", PriceMinor: 500, Quantity: 2},
		),
	}

	stats := Compute(Snapshot{Orders: orders})
	if len(stats.AgentSales) != 2 {
		t.Fatalf("expected 2 agent rows, got %+v", stats.AgentSales)
	}
	if stats.AgentSales[0].AgentID != "agent-1" || stats.AgentSales[0].RevenueMinor != 3000 {
		t.Fatalf("unexpected agent rollup: %+v", stats.AgentSales)
	}
	if stats.AgentSales[1].AgentID != "" || stats.AgentSales[1].RevenueMinor != 1000 {
		t.Fatalf("unexpected admin rollup: %+v", stats.AgentSales)
	}
}

func TestCompute_PendingCountsAllOrders(t *testing.T) {
	orders := []domain.Order{
		{ID: "order-1", Status: domain.OrderStatusPending},
		{ID: "order-2", Status: domain.OrderStatusPending},
		paidOrder("order-3", 1000),
	}

	stats := Compute(Snapshot{Orders: orders})
	if stats.OrdersTotal != 3 {
		t.Fatalf("expected 3 total, got %d", stats.OrdersTotal)
	}
	if stats.OrdersPending != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.OrdersPending)
	}
}

func TestBucketStock(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Stock: 0},
		{ID: "p2", Stock: 1},
		{ID: "p3", Stock: 10},
		{ID: "p4", Stock: 11},
		{ID: "p5", Stock: 250},
	}

	levels := BucketStock(products)
	if levels.OutOfStock != 1 || levels.Low != 2 || levels.Healthy != 2 {
		t.Fatalf("unexpected buckets: %+v", levels)
	}
}
