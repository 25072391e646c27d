package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/storage/memory"
	"github.com/blusmotif/storefront/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения и, при postgres-драйвере,
// само подключение к базе.
type Dependencies struct {
	Orders        domain.OrderRepository
	Catalog       domain.CatalogRepository
	Notifications domain.NotificationRepository
	Announcements domain.AnnouncementRepository
	Activity      domain.ActivityLogRepository

	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies собирает хранилища согласно конфигурации.
// Memory-драйвер нужен для разработки и тестов; postgres — для продакшена.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case "", "memory":
		logger.Info("using in-memory storage")
		return &Dependencies{
			Orders:        memory.NewOrderRepository(),
			Catalog:       memory.NewCatalogRepository(),
			Notifications: memory.NewNotificationRepository(),
			Announcements: memory.NewAnnouncementRepository(),
			Activity:      memory.NewActivityLogRepository(),
			Logger:        logger,
		}, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("storage driver is postgres but dsn is empty")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		logger.Info("using postgres storage")
		return &Dependencies{
			Orders:        postgres.NewOrderRepository(store),
			Catalog:       postgres.NewCatalogRepository(store),
			Notifications: postgres.NewNotificationRepository(store),
			Announcements: postgres.NewAnnouncementRepository(store),
			Activity:      postgres.NewActivityLogRepository(store),
			Store:         store,
			Logger:        logger,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close освобождает ресурсы, связанные с хранилищем.
func (d *Dependencies) Close() error {
	if d == nil || d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
