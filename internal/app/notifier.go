package app

import (
	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/service/lifecycle"
)

// multiNotifier размножает события жизненного цикла по нескольким
// получателям: диспетчер уведомлений плюс, при наличии Kafka,
// publisher доменных событий. Каждый получатель best-effort.
type multiNotifier struct {
	targets []lifecycle.Notifier
}

var _ lifecycle.Notifier = (*multiNotifier)(nil)

func newMultiNotifier(targets ...lifecycle.Notifier) *multiNotifier {
	filtered := make([]lifecycle.Notifier, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			filtered = append(filtered, t)
		}
	}
	return &multiNotifier{targets: filtered}
}

func (m *multiNotifier) OrderPlaced(order domain.Order) {
	for _, t := range m.targets {
		t.OrderPlaced(order)
	}
}

func (m *multiNotifier) PaymentConfirmed(order domain.Order) {
	for _, t := range m.targets {
		t.PaymentConfirmed(order)
	}
}

func (m *multiNotifier) StatusChanged(order domain.Order, from, to domain.OrderStatus) {
	for _, t := range m.targets {
		t.StatusChanged(order, from, to)
	}
}
