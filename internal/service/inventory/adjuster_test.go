package inventory

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/storage/memory"
)

func newAdjuster(t *testing.T) (*Adjuster, domain.CatalogRepository) {
	t.Helper()
	catalog := memory.NewCatalogRepository()
	logger := log.New().WithField("test", t.Name())
	return NewAdjusterWithoutMetrics(catalog, logger), catalog
}

func seed(t *testing.T, catalog domain.CatalogRepository, id string, stock int64) {
	t.Helper()
	err := catalog.CreateProduct(domain.Product{
		ID:         id,
		Name:       "Shirt",
		PriceMinor: 1000,
		Stock:      stock,
		Images:     []string{"https://cdn.example/shirt.jpg"},
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

func stockOf(t *testing.T, catalog domain.CatalogRepository, id string) int64 {
	t.Helper()
	p, err := catalog.GetProduct(id)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	return p.Stock
}

func TestApplyDelta_RejectsNegativeResult(t *testing.T) {
	adj, catalog := newAdjuster(t)
	seed(t, catalog, "prod-1", 2)

	if _, err := adj.ApplyDelta("prod-1", -3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := stockOf(t, catalog, "prod-1"); got != 2 {
		t.Fatalf("expected stock unchanged at 2, got %d", got)
	}

	stock, err := adj.ApplyDelta("prod-1", -2)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if stock != 0 {
		t.Fatalf("expected stock 0, got %d", stock)
	}
}

func TestConsumeItems_SkipsMissingProduct(t *testing.T) {
	adj, catalog := newAdjuster(t)
	seed(t, catalog, "prod-1", 5)

	items := []domain.OrderItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "ghost", Quantity: 1},
	}
	if !adj.ConsumeItems("order-1", items) {
		t.Fatal("expected at least one delta to apply")
	}
	if got := stockOf(t, catalog, "prod-1"); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}
}

func TestConsumeItems_NothingApplied(t *testing.T) {
	adj, _ := newAdjuster(t)

	items := []domain.OrderItem{{ProductID: "ghost", Quantity: 1}}
	if adj.ConsumeItems("order-1", items) {
		t.Fatal("expected no deltas applied")
	}
}

func TestRestoreItems_ReturnsStock(t *testing.T) {
	adj, catalog := newAdjuster(t)
	seed(t, catalog, "prod-1", 3)

	adj.RestoreItems("order-1", []domain.OrderItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "ghost", Quantity: 1},
	})
	if got := stockOf(t, catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock 5 after restore, got %d", got)
	}
}
