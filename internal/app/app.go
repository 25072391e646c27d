package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/handler"
	healthcheck "github.com/blusmotif/storefront/internal/health"
	"github.com/blusmotif/storefront/internal/messaging/kafka"
	"github.com/blusmotif/storefront/internal/service/inventory"
	"github.com/blusmotif/storefront/internal/service/lifecycle"
	"github.com/blusmotif/storefront/internal/service/notify"
	"github.com/blusmotif/storefront/internal/service/payment"
	"github.com/blusmotif/storefront/internal/version"
	"github.com/blusmotif/storefront/internal/ws"
)

const shutdownTimeout = 5 * time.Second

// Run поднимает всё приложение: хранилища, диспетчер уведомлений,
// контроллер заказов, API и служебный HTTP. Блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	hub := ws.NewHub()
	go hub.Run()

	kafkaProducer := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	// Push-канал и publisher доменных событий живут только при Kafka.
	var push domain.PushPublisher
	extraNotifiers := make([]lifecycle.Notifier, 0, 1)
	if kafkaProducer != nil {
		push = kafka.NewPushChannel(kafkaProducer)
		extraNotifiers = append(extraNotifiers, kafka.NewOrderEventPublisher(kafkaProducer))
	}

	dispatcher := notify.NewDispatcher(deps.Notifications, hub, push, logger)
	notifiers := append([]lifecycle.Notifier{dispatcher}, extraNotifiers...)

	adjuster := inventory.NewAdjuster(deps.Catalog, logger)
	// NOTE: мок-шлюз оплаты для разработки и демо; в продакшене сюда
	// подставляется клиент реального платёжного провайдера.
	gateway := payment.NewMockGateway()

	controller := lifecycle.NewController(
		deps.Orders,
		deps.Catalog,
		adjuster,
		gateway,
		newMultiNotifier(notifiers...),
		deps.Activity,
		cfg.Lifecycle,
		logger,
	)

	api := buildRouter(controller, deps, hub)

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return deps.Store.Ping(context.Background())
		}))
	}
	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- api.Listen(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		if err := api.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.WithError(err).Warn("api shutdown with error")
		}
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		return err
	}
}

// buildRouter собирает Fiber-приложение со всеми маршрутами API.
func buildRouter(controller *lifecycle.Controller, deps *Dependencies, hub *ws.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	checkoutHandler := handler.NewCheckoutHandler(controller)
	orderHandler := handler.NewOrderHandler(controller, deps.Orders)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications, deps.Announcements)
	dashboardHandler := handler.NewDashboardHandler(deps.Orders, deps.Catalog, deps.Activity)

	api := app.Group("/api/v1")

	api.Post("/checkout", checkoutHandler.PlaceOrder)
	api.Post("/payments/callback", checkoutHandler.PaymentCallback)
	api.Post("/payments/cancelled", checkoutHandler.PaymentCancelled)

	api.Get("/orders", orderHandler.List)
	api.Get("/orders/:id", orderHandler.Get)
	api.Post("/orders/:id/advance", orderHandler.Advance)
	api.Post("/orders/:id/mark-paid", orderHandler.MarkPaid)
	api.Post("/orders/:id/cancel", orderHandler.Cancel)
	api.Post("/orders/bulk-delete", orderHandler.BulkDelete)

	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Put("/products/:id", catalogHandler.UpdateProduct)
	api.Delete("/products/:id", catalogHandler.DeleteProduct)

	api.Get("/categories", catalogHandler.ListCategories)
	api.Post("/categories", catalogHandler.CreateCategory)
	api.Put("/categories/:id", catalogHandler.UpdateCategory)
	api.Delete("/categories/:id", catalogHandler.DeleteCategory)

	api.Get("/notifications", notificationHandler.List)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)
	api.Get("/notifications/unread-count", notificationHandler.UnreadCount)

	api.Get("/announcements", notificationHandler.ListAnnouncements)
	api.Post("/announcements", notificationHandler.CreateAnnouncement)
	api.Put("/announcements/:id", notificationHandler.UpdateAnnouncement)
	api.Delete("/announcements/:id", notificationHandler.DeleteAnnouncement)

	api.Get("/dashboard/stats", dashboardHandler.Stats)
	api.Get("/dashboard/activity", dashboardHandler.ActivityLog)

	// Staff-дашборды подписываются на звуковые оповещения по WebSocket.
	app.Use("/ws/alerts", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/alerts", websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
		defer hub.Unregister(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

// startOpsServer запускает служебный HTTP: /metrics и health checks.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("ops shutdown with error")
	}
}
