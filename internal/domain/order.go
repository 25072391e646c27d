package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в витрине.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, оплата и подтверждение ещё впереди.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён персоналом.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusOutForDelivery — заказ передан курьеру (только delivery).
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	// OrderStatusReadyForPickup — заказ собран и ждёт клиента (только pickup).
	OrderStatusReadyForPickup OrderStatus = "ready-for-pickup"
	// OrderStatusDelivered — терминальный статус для delivery.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusPickedUp — терминальный статус для pickup.
	OrderStatusPickedUp OrderStatus = "picked-up"
	// OrderStatusCancelled — заказ отменён; достижим только из pending.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus — единственный источник истины о факте оплаты заказа.
type PaymentStatus string

const (
	// PaymentStatusPending — оплата не подтверждена.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid — оплата подтверждена шлюзом или персоналом.
	PaymentStatusPaid PaymentStatus = "paid"
)

// DeliveryMethod фиксируется при создании заказа и никогда не меняется.
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// PaymentMethod задаёт способ оплаты заказа.
type PaymentMethod string

const (
	// PaymentMethodGateway — оплата через внешний платёжный виджет.
	PaymentMethodGateway PaymentMethod = "gateway"
	// PaymentMethodCash — наличные при получении (отложенная оплата).
	PaymentMethodCash PaymentMethod = "cash"
)

// OrderItem — замороженный снимок позиции на момент покупки.
// Последующие правки каталога не меняют историю заказов.
type OrderItem struct {
	// ProductID — иммутабельный идентификатор товара; все агрегации ходят по нему.
	ProductID string
	// AgentID копируется из товара для атрибуции продаж агенту.
	AgentID string
	// Name фиксируется на момент покупки.
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// Quantity — количество единиц.
	Quantity int32
	// SelectedSize — выбранный размер, пустой если товар без размеров.
	SelectedSize string
}

// Order агрегирует состояние заказа, снимок позиций и платёжные поля.
type Order struct {
	ID         string
	CustomerID string
	Items      []OrderItem

	SubtotalMinor    int64
	DeliveryFeeMinor int64
	TotalMinor       int64

	DeliveryMethod  DeliveryMethod
	DeliveryAddress string
	PickupLocation  string

	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference string

	Status OrderStatus

	// StockAdjusted показывает, списывались ли остатки под этот заказ.
	// По нему отмена решает, надо ли возвращать сток, а подтверждение
	// оплаты — надо ли списывать повторно.
	StockAdjusted bool

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

// IsTerminal сообщает, достиг ли заказ конечного статуса.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusDelivered, OrderStatusPickedUp, OrderStatusCancelled:
		return true
	}
	return false
}

// IsPaid — единый предикат оплаченности (см. PaymentStatus).
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Сверяем subtotal с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Quantity) * item.PriceMinor
	}
	if calc != o.SubtotalMinor {
		errs = append(errs, ErrSubtotalMismatch)
	}
	if o.DeliveryFeeMinor < 0 {
		errs = append(errs, ErrDeliveryFeeNegative)
	}
	if o.TotalMinor != o.SubtotalMinor+o.DeliveryFeeMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	switch o.DeliveryMethod {
	case DeliveryMethodDelivery:
		if o.DeliveryAddress == "" {
			errs = append(errs, ErrDeliveryAddressRequired)
		}
	case DeliveryMethodPickup:
		if o.PickupLocation == "" {
			errs = append(errs, ErrPickupLocationRequired)
		}
	default:
		errs = append(errs, ErrDeliveryMethodInvalid)
	}

	switch o.PaymentMethod {
	case PaymentMethodGateway, PaymentMethodCash:
	default:
		errs = append(errs, ErrPaymentMethodInvalid)
	}

	return errs
}
