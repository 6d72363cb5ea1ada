package repo

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/valchyai/ops-backend/internal/domain"
)

func TestMarkDelivery_SuccessAndDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.WebhookEvent{})
	ctx := context.Background()

	if err := MarkDelivery(ctx, db, "SM100", "4165550100", "FirstName", time.Hour); err != nil {
		t.Fatalf("MarkDelivery: %v", err)
	}

	// Carrier redelivery of the same SID must come back as ErrDuplicate.
	if err := MarkDelivery(ctx, db, "SM100", "4165550100", "FirstName", time.Hour); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// A different SID from the same phone is a fresh delivery.
	if err := MarkDelivery(ctx, db, "SM101", "4165550100", "LastName", time.Hour); err != nil {
		t.Fatalf("MarkDelivery second SID: %v", err)
	}
}

func TestPurgeExpiredDeliveries(t *testing.T) {
	db := newTestDB(t, &domain.WebhookEvent{})
	ctx := context.Background()

	if err := MarkDelivery(ctx, db, "SM1", "555", "FirstName", -time.Minute); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if err := MarkDelivery(ctx, db, "SM2", "555", "LastName", time.Hour); err != nil {
		t.Fatalf("seed fresh: %v", err)
	}

	n, err := PurgeExpiredDeliveries(ctx, db, time.Now().UTC())
	if err != nil {
		t.Fatalf("PurgeExpiredDeliveries: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d rows, want 1", n)
	}

	var remaining int64
	if err := db.Model(&domain.WebhookEvent{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("remaining = %d", remaining)
	}
}

func TestMarkDelivery_ReclaimsExpiredRow(t *testing.T) {
	db := newTestDB(t, &domain.WebhookEvent{})
	ctx := context.Background()

	if err := MarkDelivery(ctx, db, "SM1", "555", "FirstName", -time.Minute); err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	// A marker past its horizon counts as absent for a new delivery.
	if err := MarkDelivery(ctx, db, "SM1", "555", "LastName", time.Hour); err != nil {
		t.Fatalf("expected expired row to be reclaimed, got %v", err)
	}

	// The reclaimed marker is live again.
	if err := MarkDelivery(ctx, db, "SM1", "555", "LastName", time.Hour); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate after reclaim, got %v", err)
	}
}

func TestReleaseDelivery_AllowsRetry(t *testing.T) {
	db := newTestDB(t, &domain.WebhookEvent{})
	ctx := context.Background()

	if err := MarkDelivery(ctx, db, "SM1", "555", "FirstName", time.Hour); err != nil {
		t.Fatalf("MarkDelivery: %v", err)
	}
	if err := ReleaseDelivery(ctx, db, "SM1"); err != nil {
		t.Fatalf("ReleaseDelivery: %v", err)
	}
	if err := MarkDelivery(ctx, db, "SM1", "555", "FirstName", time.Hour); err != nil {
		t.Fatalf("retry after release: %v", err)
	}
}

func TestStartDeliverySweeper_PurgesExpired(t *testing.T) {
	db := newTestDB(t, &domain.WebhookEvent{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := MarkDelivery(ctx, db, "SM1", "555", "FirstName", -time.Minute); err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	StartDeliverySweeper(ctx, db, 10*time.Millisecond, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var n int64
		if err := db.Model(&domain.WebhookEvent{}).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expired marker not purged")
}

func TestMarkDelivery_Error_NoTable(t *testing.T) {
	db := newTestDB(t) // intentionally NOT migrating webhook_events
	err := MarkDelivery(context.Background(), db, "SM1", "555", "FirstName", time.Hour)
	if err == nil || err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got %v", err)
	}
}
