package payment

import (
	"fmt"
	"sync"

	"github.com/blusmotif/storefront/internal/domain"
)

// MockGateway — конфигурируемая заглушка PaymentGateway для разработки и тестов.
type MockGateway struct {
	mu sync.Mutex

	InitiateErr error

	InitiateCalls int
	LastRequest   domain.PaymentRequest
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Initiate возвращает детерминированную сессию и считает вызовы.
func (m *MockGateway) Initiate(req domain.PaymentRequest) (domain.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitiateCalls++
	m.LastRequest = req
	if m.InitiateErr != nil {
		return domain.PaymentSession{}, m.InitiateErr
	}
	return domain.PaymentSession{
		Reference:   fmt.Sprintf("mock-ref-%s", req.OrderID),
		CheckoutURL: fmt.Sprintf("https://checkout.example.com/%s", req.OrderID),
	}, nil
}

var _ domain.PaymentGateway = (*MockGateway)(nil)
