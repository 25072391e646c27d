package app

import (
	"os"
	"strconv"

	"github.com/blusmotif/storefront/internal/service/lifecycle"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного API (Fiber).
	HTTPAddr string
	// OpsAddr — адрес служебного HTTP: метрики и health checks.
	OpsAddr string

	// StorageDriver выбирает хранилище: "memory" или "postgres".
	StorageDriver string
	PostgresDSN   string
	// PostgresAutoMigrate применяет up-миграции при старте.
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустой = без Kafka.
	KafkaBrokers string

	// Lifecycle — бизнес-параметры контроллера заказов.
	Lifecycle lifecycle.Config
}

// DefaultConfig возвращает базовые значения для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		OpsAddr:       ":9090",
		StorageDriver: "memory",
		Lifecycle:     lifecycle.DefaultConfig(),
	}
}

// ReadConfig собирает конфигурацию из переменных окружения поверх дефолтов.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STOREFRONT_OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}
	if v := os.Getenv("STOREFRONT_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_AUTO_MIGRATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = b
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("STOREFRONT_DELIVERY_FEE_MINOR"); v != "" {
		if fee, err := strconv.ParseInt(v, 10, 64); err == nil && fee >= 0 {
			cfg.Lifecycle.DeliveryFeeMinor = fee
		}
	}
	if v := os.Getenv("STOREFRONT_CURRENCY"); v != "" {
		cfg.Lifecycle.Currency = v
	}
	if v := os.Getenv("STOREFRONT_CASH_STOCK_POLICY"); v != "" {
		switch lifecycle.StockCapturePolicy(v) {
		case lifecycle.StockCaptureOnPlacement, lifecycle.StockCaptureOnPayment:
			cfg.Lifecycle.CashStockPolicy = lifecycle.StockCapturePolicy(v)
		}
	}
	return cfg
}
