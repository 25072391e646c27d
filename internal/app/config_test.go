package app

import (
	"testing"

	"github.com/blusmotif/storefront/internal/service/lifecycle"
)

func TestReadConfig_Defaults(t *testing.T) {
	cfg := ReadConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.OpsAddr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.OpsAddr)
	}
	if cfg.StorageDriver != "memory" {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}
	if cfg.Lifecycle.CashStockPolicy != lifecycle.StockCaptureOnPlacement {
		t.Fatalf("expected eager cash stock policy, got %s", cfg.Lifecycle.CashStockPolicy)
	}
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_ADDR", ":18080")
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "postgres")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "postgres://localhost/storefront")
	t.Setenv("STOREFRONT_POSTGRES_AUTO_MIGRATE", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("STOREFRONT_DELIVERY_FEE_MINOR", "2500")
	t.Setenv("STOREFRONT_CURRENCY", "NGN")
	t.Setenv("STOREFRONT_CASH_STOCK_POLICY", "on-payment")

	cfg := ReadConfig()

	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected :18080, got %s", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != "postgres" || cfg.PostgresDSN == "" {
		t.Fatalf("expected postgres driver with DSN, got %+v", cfg)
	}
	if !cfg.PostgresAutoMigrate {
		t.Fatal("expected auto migrate enabled")
	}
	if cfg.KafkaBrokers != "kafka-1:9092,kafka-2:9092" {
		t.Fatalf("unexpected brokers: %s", cfg.KafkaBrokers)
	}
	if cfg.Lifecycle.DeliveryFeeMinor != 2500 {
		t.Fatalf("expected fee 2500, got %d", cfg.Lifecycle.DeliveryFeeMinor)
	}
	if cfg.Lifecycle.Currency != "NGN" {
		t.Fatalf("expected NGN, got %s", cfg.Lifecycle.Currency)
	}
	if cfg.Lifecycle.CashStockPolicy != lifecycle.StockCaptureOnPayment {
		t.Fatalf("expected deferred policy, got %s", cfg.Lifecycle.CashStockPolicy)
	}
}

func TestReadConfig_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("STOREFRONT_DELIVERY_FEE_MINOR", "-5")
	t.Setenv("STOREFRONT_CASH_STOCK_POLICY", "whenever")
	t.Setenv("STOREFRONT_POSTGRES_AUTO_MIGRATE", "maybe")

	cfg := ReadConfig()

	if cfg.Lifecycle.DeliveryFeeMinor != lifecycle.DefaultConfig().DeliveryFeeMinor {
		t.Fatalf("expected default fee, got %d", cfg.Lifecycle.DeliveryFeeMinor)
	}
	if cfg.Lifecycle.CashStockPolicy != lifecycle.StockCaptureOnPlacement {
		t.Fatalf("expected default policy, got %s", cfg.Lifecycle.CashStockPolicy)
	}
	if cfg.PostgresAutoMigrate {
		t.Fatal("expected auto migrate off for unparsable value")
	}
}
