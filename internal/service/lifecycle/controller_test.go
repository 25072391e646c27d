package lifecycle

import (
	"errors"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/service/inventory"
	"github.com/blusmotif/storefront/internal/service/payment"
	"github.com/blusmotif/storefront/internal/storage/memory"
)

type stubNotifier struct {
	mu             sync.Mutex
	placedCnt      int
	confirmedCnt   int
	statusCnt      int
	lastFrom       domain.OrderStatus
	lastTo         domain.OrderStatus
	lastStatusCall domain.Order
}

func (s *stubNotifier) OrderPlaced(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placedCnt++
}

func (s *stubNotifier) PaymentConfirmed(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmedCnt++
}

func (s *stubNotifier) StatusChanged(order domain.Order, from, to domain.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCnt++
	s.lastFrom = from
	s.lastTo = to
	s.lastStatusCall = order
}

type fixture struct {
	orders   domain.OrderRepository
	catalog  domain.CatalogRepository
	gateway  *payment.MockGateway
	notifier *stubNotifier
	activity domain.ActivityLogRepository
	ctrl     *Controller
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	orders := memory.NewOrderRepository()
	catalog := memory.NewCatalogRepository()
	gateway := payment.NewMockGateway()
	notifier := &stubNotifier{}
	activity := memory.NewActivityLogRepository()
	logger := log.New().WithField("test", t.Name())

	adjuster := inventory.NewAdjusterWithoutMetrics(catalog, logger)
	ctrl := NewControllerWithoutMetrics(orders, catalog, adjuster, gateway, notifier, activity, cfg, logger)

	return &fixture{
		orders:   orders,
		catalog:  catalog,
		gateway:  gateway,
		notifier: notifier,
		activity: activity,
		ctrl:     ctrl,
	}
}

func seedProduct(t *testing.T, catalog domain.CatalogRepository, id string, priceMinor, stock int64) {
	t.Helper()

	now := time.Now().UTC()
	err := catalog.CreateProduct(domain.Product{
		ID:         id,
		Name:       "Product " + id,
		PriceMinor: priceMinor,
		Stock:      stock,
		Images:     []string{"https://img.example.com/" + id},
		AgentID:    "agent-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func productStock(t *testing.T, catalog domain.CatalogRepository, id string) int64 {
	t.Helper()

	p, err := catalog.GetProduct(id)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.Stock
}

func deliveryRequest(method domain.PaymentMethod, qty int32) PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerID:      "customer-1",
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   method,
		DeliveryMethod:  domain.DeliveryMethodDelivery,
		DeliveryAddress: "12 Market Street",
		Items:           []CartLine{{ProductID: "prod-1", Quantity: qty}},
	}
}

func TestPlaceOrder_GatewayDefersStock(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, session, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodGateway, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if session == nil {
		t.Fatal("expected payment session for gateway order")
	}

	// subtotal 2*1000 + delivery fee 1000
	if order.TotalMinor != 3000 {
		t.Fatalf("expected total 3000, got %d", order.TotalMinor)
	}
	if order.Status != domain.OrderStatusPending || order.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("expected pending/pending, got %s/%s", order.Status, order.PaymentStatus)
	}

	// До success-колбэка сток не трогается и уведомлений нет.
	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock 5 before payment, got %d", got)
	}
	if f.notifier.placedCnt != 0 {
		t.Fatalf("expected no notifications before payment, got %d", f.notifier.placedCnt)
	}

	if err := f.ctrl.OnPaymentSuccess(order.ID, "ref-001"); err != nil {
		t.Fatalf("payment success: %v", err)
	}

	if got := productStock(t, f.catalog, "prod-1"); got != 3 {
		t.Fatalf("expected stock 3 after payment, got %d", got)
	}

	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !stored.IsPaid() {
		t.Fatal("expected order paid")
	}
	if stored.PaymentReference != "ref-001" {
		t.Fatalf("expected reference ref-001, got %s", stored.PaymentReference)
	}
	if !stored.StockAdjusted {
		t.Fatal("expected stock adjusted flag set")
	}
	if stored.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}

	if f.notifier.placedCnt != 1 || f.notifier.confirmedCnt != 1 {
		t.Fatalf("expected placed=1 confirmed=1, got %d/%d", f.notifier.placedCnt, f.notifier.confirmedCnt)
	}
}

func TestOnPaymentSuccess_Idempotent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodGateway, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if err := f.ctrl.OnPaymentSuccess(order.ID, "ref-001"); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if err := f.ctrl.OnPaymentSuccess(order.ID, "ref-001"); err != nil {
		t.Fatalf("second callback: %v", err)
	}

	// Повторный колбэк не списывает сток второй раз.
	if got := productStock(t, f.catalog, "prod-1"); got != 3 {
		t.Fatalf("expected stock 3 after duplicate callback, got %d", got)
	}
	if f.notifier.confirmedCnt != 1 {
		t.Fatalf("expected single payment notification, got %d", f.notifier.confirmedCnt)
	}
}

func TestOnPaymentSuccess_RejectedAfterCancel(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodGateway, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := f.ctrl.CancelOrder(order.ID, "customer-1"); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	// Запоздавший success-колбэк по отменённому заказу отклоняется:
	// повторное списание оставило бы сток без компенсации.
	if err := f.ctrl.OnPaymentSuccess(order.ID, "ref-late"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock untouched at 5, got %d", got)
	}

	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", stored.Status)
	}
	if stored.IsPaid() || stored.StockAdjusted {
		t.Fatalf("expected unpaid without stock flag, got paid=%v adjusted=%v", stored.IsPaid(), stored.StockAdjusted)
	}
	if f.notifier.placedCnt != 0 || f.notifier.confirmedCnt != 0 {
		t.Fatalf("expected no payment notifications, got placed=%d confirmed=%d", f.notifier.placedCnt, f.notifier.confirmedCnt)
	}
}

func TestMarkPaid_RejectedAfterCancel(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	// Наличные: оформление списало сток (5 -> 4), отмена вернула (-> 5).
	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := f.ctrl.CancelOrder(order.ID, "customer-1"); err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	if _, err := f.ctrl.MarkPaid(order.ID, "admin-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock still 5, got %d", got)
	}
	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.IsPaid() {
		t.Fatal("expected cancelled order to stay unpaid")
	}
	if f.notifier.confirmedCnt != 0 {
		t.Fatalf("expected no payment notification, got %d", f.notifier.confirmedCnt)
	}
}

func TestMarkPaid_AllowedAfterDelivery(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.ctrl.AdvanceStatus(order.ID, "agent-1"); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	// Поздний расчёт наличными после доставки допустим; сток не трогается.
	updated, err := f.ctrl.MarkPaid(order.ID, "admin-1")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !updated.IsPaid() {
		t.Fatal("expected delivered order paid")
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 4 {
		t.Fatalf("expected stock 4, got %d", got)
	}
}

func TestPlaceOrder_SnapshotFrozenAgainstCatalogEdits(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// Редактирование карточки товара после оформления.
	product, err := f.catalog.GetProduct("prod-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	product.Name = "Renamed Product"
	product.PriceMinor = 9000
	if err := f.catalog.UpdateProduct(product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	// Снапшот позиций и суммы заказа заморожены на момент покупки.
	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(stored.Items))
	}
	item := stored.Items[0]
	if item.Name != "Product prod-1" {
		t.Fatalf("expected frozen name, got %q", item.Name)
	}
	if item.PriceMinor != 1000 {
		t.Fatalf("expected frozen price 1000, got %d", item.PriceMinor)
	}
	// subtotal 2*1000 + delivery fee 1000
	if stored.TotalMinor != 3000 {
		t.Fatalf("expected total 3000, got %d", stored.TotalMinor)
	}
}

func TestPlaceOrder_CashCapturesStockEagerly(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, session, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if session != nil {
		t.Fatal("expected no payment session for cash order")
	}

	if got := productStock(t, f.catalog, "prod-1"); got != 4 {
		t.Fatalf("expected stock 4 after cash placement, got %d", got)
	}
	if f.notifier.placedCnt != 1 {
		t.Fatalf("expected placed notification, got %d", f.notifier.placedCnt)
	}

	// MarkPaid не трогает сток: для наличных он уже списан.
	if _, err := f.ctrl.MarkPaid(order.ID, "admin-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 4 {
		t.Fatalf("expected stock 4 after mark paid, got %d", got)
	}

	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !stored.IsPaid() {
		t.Fatal("expected order paid")
	}
	if f.notifier.confirmedCnt != 1 {
		t.Fatalf("expected payment notification, got %d", f.notifier.confirmedCnt)
	}

	// Повторный MarkPaid — no-op.
	if _, err := f.ctrl.MarkPaid(order.ID, "admin-1"); err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	if f.notifier.confirmedCnt != 1 {
		t.Fatalf("expected no extra notification, got %d", f.notifier.confirmedCnt)
	}
}

func TestPlaceOrder_CashDeferredPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CashStockPolicy = StockCaptureOnPayment
	f := newFixture(t, cfg)
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock untouched at placement, got %d", got)
	}

	// При отложенной политике списание происходит при подтверждении оплаты.
	if _, err := f.ctrl.MarkPaid(order.ID, "admin-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 3 {
		t.Fatalf("expected stock 3 after mark paid, got %d", got)
	}
}

func TestPlaceOrder_RejectsInsufficientStock(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 1)

	_, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 2))
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Отклонённый заказ не трогает каталог.
	if got := productStock(t, f.catalog, "prod-1"); got != 1 {
		t.Fatalf("expected stock 1, got %d", got)
	}
}

func TestPlaceOrder_RejectsUnknownSize(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	now := time.Now().UTC()
	if err := f.catalog.CreateProduct(domain.Product{
		ID:         "prod-sized",
		Name:       "Sized Product",
		PriceMinor: 500,
		Stock:      10,
		Sizes:      []string{"M", "L"},
		Images:     []string{"https://img.example.com/prod-sized"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	req := deliveryRequest(domain.PaymentMethodCash, 1)
	req.Items = []CartLine{{ProductID: "prod-sized", Quantity: 1, SelectedSize: "XXL"}}

	_, _, err := f.ctrl.PlaceOrder(req)
	if !errors.Is(err, domain.ErrSizeUnavailable) {
		t.Fatalf("expected ErrSizeUnavailable, got %v", err)
	}
}

func TestPlaceOrder_PickupSkipsDeliveryFee(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(PlaceOrderRequest{
		CustomerID:     "customer-1",
		PaymentMethod:  domain.PaymentMethodCash,
		DeliveryMethod: domain.DeliveryMethodPickup,
		PickupLocation: "Main Store",
		Items:          []CartLine{{ProductID: "prod-1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.DeliveryFeeMinor != 0 {
		t.Fatalf("expected no delivery fee for pickup, got %d", order.DeliveryFeeMinor)
	}
	if order.TotalMinor != 1000 {
		t.Fatalf("expected total 1000, got %d", order.TotalMinor)
	}
}

func TestPlaceOrder_GatewayFailureKeepsOrderPending(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)
	f.gateway.InitiateErr = errors.New("widget unavailable")

	order, session, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodGateway, 1))
	if !errors.Is(err, domain.ErrPaymentGateway) {
		t.Fatalf("expected ErrPaymentGateway, got %v", err)
	}
	if session != nil {
		t.Fatal("expected no session on gateway failure")
	}

	// Заказ записан и остаётся pending/pending, оплату можно повторить.
	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != domain.OrderStatusPending || stored.IsPaid() {
		t.Fatalf("expected pending unpaid order, got %s paid=%v", stored.Status, stored.IsPaid())
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock untouched, got %d", got)
	}
}

func TestAdvanceStatus_DeliveryPath(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	want := []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusOutForDelivery,
		domain.OrderStatusDelivered,
	}
	for _, expected := range want {
		updated, err := f.ctrl.AdvanceStatus(order.ID, "agent-1")
		if err != nil {
			t.Fatalf("advance to %s: %v", expected, err)
		}
		if updated.Status != expected {
			t.Fatalf("expected %s, got %s", expected, updated.Status)
		}
	}

	// Терминальный статус отклоняет дальнейшие переходы без мутаций.
	before := f.notifier.statusCnt
	if _, err := f.ctrl.AdvanceStatus(order.ID, "agent-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.notifier.statusCnt != before {
		t.Fatal("expected no notification for rejected transition")
	}

	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", stored.Status)
	}
}

func TestAdvanceStatus_PickupPath(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(PlaceOrderRequest{
		CustomerID:     "customer-1",
		PaymentMethod:  domain.PaymentMethodCash,
		DeliveryMethod: domain.DeliveryMethodPickup,
		PickupLocation: "Main Store",
		Items:          []CartLine{{ProductID: "prod-1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	want := []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusReadyForPickup,
		domain.OrderStatusPickedUp,
	}
	for _, expected := range want {
		updated, err := f.ctrl.AdvanceStatus(order.ID, "agent-1")
		if err != nil {
			t.Fatalf("advance to %s: %v", expected, err)
		}
		if updated.Status != expected {
			t.Fatalf("expected %s, got %s", expected, updated.Status)
		}
	}
}

func TestCancelOrder_RestoresCapturedStock(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	// Наличные: сток списан при оформлении (5 -> 4).
	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if got := productStock(t, f.catalog, "prod-1"); got != 4 {
		t.Fatalf("expected stock 4, got %d", got)
	}

	cancelled, err := f.ctrl.CancelOrder(order.ID, "customer-1")
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// Отмена возвращает списанный сток.
	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	if f.notifier.lastTo != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled notification, got %s", f.notifier.lastTo)
	}
}

func TestCancelOrder_PendingGatewayLeavesStock(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodGateway, 2))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := f.ctrl.CancelOrder(order.ID, "customer-1"); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	// Сток не списывался — и возвращать нечего.
	if got := productStock(t, f.catalog, "prod-1"); got != 5 {
		t.Fatalf("expected stock 5, got %d", got)
	}
}

func TestCancelOrder_RejectedAfterConfirmation(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := f.ctrl.AdvanceStatus(order.ID, "agent-1"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if _, err := f.ctrl.CancelOrder(order.ID, "customer-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDeleteOrders_SkipsMissingAndAudits(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	order, _, err := f.ctrl.PlaceOrder(deliveryRequest(domain.PaymentMethodCash, 1))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	deleted, err := f.ctrl.DeleteOrders("admin-1", []string{order.ID, "missing-id"})
	if err != nil {
		t.Fatalf("delete orders: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	if _, err := f.orders.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected order gone, got %v", err)
	}

	entries, err := f.activity.List(10)
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != "orders.bulk_delete" || entries[0].PerformedBy != "admin-1" {
		t.Fatalf("unexpected audit entry: %+v", entries[0])
	}
}

func TestPlaceOrder_ValidationFailures(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	seedProduct(t, f.catalog, "prod-1", 1000, 5)

	tests := []struct {
		name    string
		mutate  func(r *PlaceOrderRequest)
		wantErr error
	}{
		{
			name:    "empty cart",
			mutate:  func(r *PlaceOrderRequest) { r.Items = nil },
			wantErr: domain.ErrItemsRequired,
		},
		{
			name:    "zero quantity",
			mutate:  func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 },
			wantErr: domain.ErrItemQtyInvalid,
		},
		{
			name:    "missing product",
			mutate:  func(r *PlaceOrderRequest) { r.Items[0].ProductID = "ghost" },
			wantErr: domain.ErrProductNotFound,
		},
		{
			name:    "delivery without address",
			mutate:  func(r *PlaceOrderRequest) { r.DeliveryAddress = "" },
			wantErr: domain.ErrDeliveryAddressRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := deliveryRequest(domain.PaymentMethodCash, 1)
			tc.mutate(&req)

			_, _, err := f.ctrl.PlaceOrder(req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
