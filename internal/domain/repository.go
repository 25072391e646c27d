package domain

// ProductFilter ограничивает выборку товаров.
type ProductFilter struct {
	CategoryID   string
	AgentID      string
	FeaturedOnly bool
}

// CatalogRepository описывает требования к хранилищу каталога.
// Чтения могут быть устаревшими (eventual consistency внешнего стора);
// вызывающие не должны полагаться на read-after-write между вызовами.
type CatalogRepository interface {
	CreateProduct(p Product) error
	// GetProduct возвращает товар или ErrProductNotFound.
	GetProduct(id string) (Product, error)
	ListProducts(filter ProductFilter) ([]Product, error)
	UpdateProduct(p Product) error
	DeleteProduct(id string) error

	// AdjustStock атомарно применяет дельту к остатку.
	// Возвращает новый остаток; ErrInsufficientStock, если результат ушёл бы
	// в минус; ErrProductNotFound, если товара больше нет.
	AdjustStock(productID string, delta int64) (int64, error)

	CreateCategory(c Category) error
	GetCategory(id string) (Category, error)
	ListCategories(activeOnly bool) ([]Category, error)
	UpdateCategory(c Category) error
	DeleteCategory(id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
	// List возвращает все заказы, новые первыми.
	List(limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ без следа (hard delete, только для администратора).
	Delete(id string) error
}

// NotificationRepository хранит in-app уведомления.
type NotificationRepository interface {
	Create(n Notification) error
	ListByRecipient(recipientID string, limit int) ([]Notification, error)
	// MarkRead помечает уведомление прочитанным; запись должна принадлежать получателю.
	MarkRead(id, recipientID string) error
	UnreadCount(recipientID string) (int, error)
}

// AnnouncementRepository хранит системные объявления.
type AnnouncementRepository interface {
	Create(a Announcement) error
	Get(id string) (Announcement, error)
	// ListForRole возвращает активные объявления, видимые роли, новые первыми.
	ListForRole(role Role) ([]Announcement, error)
	ListAll() ([]Announcement, error)
	Update(a Announcement) error
	Delete(id string) error
}

// ActivityLogRepository — append-only журнал аудита.
type ActivityLogRepository interface {
	Append(e ActivityLogEntry) error
	List(limit int) ([]ActivityLogEntry, error)
}
