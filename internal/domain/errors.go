package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка позиции без ссылки на товар.
	ErrItemProductRequired = errors.New("item product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия subtotal и суммы позиций.
	ErrSubtotalMismatch = errors.New("order subtotal does not match items sum")
	// Ошибка отрицательной стоимости доставки.
	ErrDeliveryFeeNegative = errors.New("delivery fee must be non-negative")
	// Ошибка нарушения инварианта total = subtotal + delivery fee.
	ErrTotalMismatch = errors.New("order total does not equal subtotal plus delivery fee")
	// Ошибка отсутствующего адреса при deliveryMethod=delivery.
	ErrDeliveryAddressRequired = errors.New("delivery address is required for delivery orders")
	// Ошибка отсутствующей точки выдачи при deliveryMethod=pickup.
	ErrPickupLocationRequired = errors.New("pickup location is required for pickup orders")
	// Ошибка неизвестного способа доставки.
	ErrDeliveryMethodInvalid = errors.New("delivery method must be delivery or pickup")
	// Ошибка неизвестного способа оплаты.
	ErrPaymentMethodInvalid = errors.New("payment method must be gateway or cash")
	// Ошибка выбора размера, которого нет у товара.
	ErrSizeUnavailable = errors.New("selected size is not available for product")

	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// Ошибка compare price, не превышающей основную цену.
	ErrComparePriceInvalid = errors.New("compare price must be greater than price")
	// Ошибка количества изображений вне диапазона 1..6.
	ErrProductImagesInvalid = errors.New("product must have between 1 and 6 images")
	// Ошибка отрицательного остатка товара.
	ErrProductStockInvalid = errors.New("product stock must be non-negative")
	// Ошибка отсутствующего slug категории.
	ErrCategorySlugRequired = errors.New("category slug is required")
	// Ошибка slug, непригодного для URL.
	ErrCategorySlugInvalid = errors.New("category slug must be url-safe")
	// Ошибка отсутствующего имени категории.
	ErrCategoryNameRequired = errors.New("category name is required")
	// Ошибка занятого slug категории.
	ErrCategorySlugTaken = errors.New("category slug already in use")

	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotificationNotFound возвращается, если уведомление не найдено или принадлежит другому получателю.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrAnnouncementNotFound возвращается, если объявление не найдено.
	ErrAnnouncementNotFound = errors.New("announcement not found")

	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	// Вызывающий может повторить операцию со свежим состоянием.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrInsufficientStock — списание увело бы остаток в минус; операция отклоняется, не клампится.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition — запрошенный переход отсутствует в таблице переходов.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrPaymentGateway — платёжный виджет не инициализировался или провайдер вернул ошибку.
	ErrPaymentGateway = errors.New("payment gateway error")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsNotFound сообщает, что сущность отсутствует в хранилище.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrAnnouncementNotFound)
}
