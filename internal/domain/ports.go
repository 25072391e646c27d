package domain

// PaymentRequest — параметры открытия платёжного виджета.
type PaymentRequest struct {
	OrderID       string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

// PaymentSession — ссылка на hosted-виджет провайдера.
// Провайдер асинхронно вызовет ровно один из callback-путей: success или cancel.
type PaymentSession struct {
	Reference   string
	CheckoutURL string
}

// PaymentGateway оборачивает клиентский виджет внешнего платёжного провайдера.
// Адаптер не хранит бизнес-состояние; вся персистентность — на контроллере.
type PaymentGateway interface {
	// Initiate открывает платёжную сессию под заказ.
	Initiate(req PaymentRequest) (PaymentSession, error)
}

// PushMessage — полезная нагрузка пуш-уведомления.
type PushMessage struct {
	RecipientID string
	Title       string
	Body        string
	OrderID     string
}

// PushPublisher — best-effort канал пуш-уведомлений без гарантий доставки.
// Ошибки публикации логируются и глотаются, ретраев и DLQ нет.
type PushPublisher interface {
	PublishPush(msg PushMessage) error
}

// AlertKind выбирает сигнал для дашборда персонала.
type AlertKind string

const (
	// AlertKindUrgent — трёхтональный сигнал для новых заказов.
	AlertKindUrgent AlertKind = "urgent"
	// AlertKindNormal — двухтональный сигнал для остальных событий.
	AlertKindNormal AlertKind = "normal"
)

// StaffAlert — локальное звуковое/визуальное оповещение активной staff-сессии.
// Это device-bound сигнал, не гарантия доставки.
type StaffAlert struct {
	Kind    AlertKind
	Title   string
	Message string
	OrderID string
}

// AlertSink принимает оповещения для подключённых дашбордов.
type AlertSink interface {
	Alert(a StaffAlert)
}
