package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/blusmotif/storefront/internal/domain"
	"github.com/blusmotif/storefront/internal/storage/memory"
)

func TestActivityLogRepository_ListNewestFirst(t *testing.T) {
	repo := memory.NewActivityLogRepository()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		err := repo.Append(domain.ActivityLogEntry{
			ID:          fmt.Sprintf("entry-%d", i),
			Action:      "orders.bulk_delete",
			PerformedBy: "admin-1",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := repo.List(0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 || entries[0].ID != "entry-2" || entries[2].ID != "entry-0" {
		t.Fatalf("expected newest first, got %+v", entries)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("list limited failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "entry-2" {
		t.Fatalf("expected 2 newest entries, got %+v", limited)
	}
}
