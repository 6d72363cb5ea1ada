// Package repo implements the local persistence layer, backed by GORM.
// This file provides repository functions for webhook dedupe markers.
//
// Carriers redeliver inbound-SMS webhooks on timeouts, so every delivery
// carries a unique message SID. Inserting the SID under a unique index is
// the idempotency mechanism: the first delivery wins, redeliveries hit the
// constraint and come back as ErrDuplicate.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/domain"
)

// MarkDelivery records a processed webhook delivery. Returns ErrDuplicate
// when the SID was already recorded inside the dedupe horizon; a row past
// its ExpiresAt counts as absent and is reclaimed for the new delivery.
func MarkDelivery(ctx context.Context, db *gorm.DB, messageSid, fromPhone, field string, ttl time.Duration) error {
	now := time.Now().UTC()
	row := &domain.WebhookEvent{
		ID:         uuid.NewString(),
		MessageSid: messageSid,
		FromPhone:  fromPhone,
		Field:      field,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return reclaimExpired(ctx, db, messageSid, fromPhone, field, now, ttl)
		}
		return err
	}
	return nil
}

// reclaimExpired takes over an existing marker whose horizon has passed.
// The guarded UPDATE keeps the claim atomic: exactly one caller flips the
// expired row, everyone else gets ErrDuplicate.
func reclaimExpired(ctx context.Context, db *gorm.DB, messageSid, fromPhone, field string, now time.Time, ttl time.Duration) error {
	res := db.WithContext(ctx).Model(&domain.WebhookEvent{}).
		Where("message_sid = ? AND expires_at <= ?", messageSid, now).
		Updates(map[string]any{
			"from_phone": fromPhone,
			"field":      field,
			"created_at": now,
			"expires_at": now.Add(ttl),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// ReleaseDelivery removes the marker for messageSid so the carrier's
// redelivery can be processed. Called when the record store write failed
// after the SID was claimed.
func ReleaseDelivery(ctx context.Context, db *gorm.DB, messageSid string) error {
	return db.WithContext(ctx).
		Where("message_sid = ?", messageSid).
		Delete(&domain.WebhookEvent{}).Error
}

// PurgeExpiredDeliveries deletes dedupe markers past their horizon and
// reports how many were removed.
func PurgeExpiredDeliveries(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.WebhookEvent{})
	return res.RowsAffected, res.Error
}

// StartDeliverySweeper runs a background loop purging expired dedupe
// markers so webhook_events stays bounded. Non-positive intervals fall
// back to one hour. The loop stops when ctx is cancelled.
func StartDeliverySweeper(ctx context.Context, db *gorm.DB, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := PurgeExpiredDeliveries(ctx, db, time.Now().UTC())
				if err != nil {
					log.Error().Err(err).Msg("webhook dedupe sweep failed")
				} else if n > 0 {
					log.Debug().Int64("purged", n).Msg("webhook dedupe markers purged")
				}
			}
		}
	}()
}
