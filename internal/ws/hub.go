package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
)

// alertPayload — JSON-кадр, уходящий на staff-дашборды. Kind выбирает
// звук на клиенте: urgent — трёхтональный, normal — двухтональный.
type alertPayload struct {
	Kind    domain.AlertKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	OrderID string           `json:"order_id,omitempty"`
	Ts      time.Time        `json:"ts"`
}

// Hub рассылает оповещения всем подключённым staff-сессиям.
// Канал best-effort: при переполнении очереди кадр отбрасывается,
// доставка никогда не блокирует бизнес-операцию.
type Hub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	logger     *log.Entry
}

// NewHub создаёт hub; Run нужно запустить в отдельной горутине.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		logger:     log.WithField("component", "ws-hub"),
	}
}

// Register подключает staff-сессию к рассылке.
func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

// Unregister отключает сессию и закрывает соединение.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// Alert сериализует оповещение и ставит его в очередь рассылки.
// Реализует domain.AlertSink.
func (h *Hub) Alert(a domain.StaffAlert) {
	payload := alertPayload{
		Kind:    a.Kind,
		Title:   a.Title,
		Message: a.Message,
		OrderID: a.OrderID,
		Ts:      time.Now().UTC(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).Error("marshal alert failed")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.WithField("order_id", a.OrderID).Warn("alert queue full, frame dropped")
	}
}

// Run обслуживает подключения и рассылку до конца жизни процесса.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.logger.WithField("clients", h.ClientCount()).Info("staff dashboard connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount возвращает число подключённых сессий.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var _ domain.AlertSink = (*Hub)(nil)
