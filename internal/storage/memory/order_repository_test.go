package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/storage/memory"
)

func newOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:         id,
		CustomerID: "customer-1",
		Items: []domain.OrderItem{
			{ProductID: "prod-1", Name: "Shirt", PriceMinor: 1000, Quantity: 1},
		},
		SubtotalMinor:  1000,
		TotalMinor:     1000,
		DeliveryMethod: domain.DeliveryMethodPickup,
		PickupLocation: "Main Store",
		PaymentMethod:  domain.PaymentMethodCash,
		PaymentStatus:  domain.PaymentStatusPending,
		Status:         domain.OrderStatusPending,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(stored.Items))
	}
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := memory.NewOrderRepository()

	if _, err := repo.Get("ghost"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, _ := repo.Get(order.ID)
	second, _ := repo.Get(order.ID)

	first.Status = domain.OrderStatusConfirmed
	if err := repo.Save(first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Второе сохранение несёт устаревшую версию.
	second.Status = domain.OrderStatusCancelled
	if err := repo.Save(second); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", stored.Status)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version 1, got %d", stored.Version)
	}
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Now().UTC()

	for i, id := range []string{"order-a", "order-b", "order-c"} {
		o := newOrder(id, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(o); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	orders, err := repo.List(0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != "order-c" || orders[2].ID != "order-a" {
		t.Fatalf("expected newest first, got %s..%s", orders[0].ID, orders[2].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("list limited failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(limited))
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := memory.NewOrderRepository()
	now := time.Now().UTC()

	mine := newOrder("order-1", now)
	if err := repo.Create(mine); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := newOrder("order-2", now)
	other.CustomerID = "customer-2"
	if err := repo.Create(other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListByCustomer("customer-1", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "order-1" {
		t.Fatalf("expected only customer-1 orders, got %+v", orders)
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
	}
}
