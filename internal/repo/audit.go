// Package repo implements the local persistence layer, backed by GORM.
// This file provides repository functions for the append-only audit log.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving business rules to the services package.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/domain"
)

// InsertAudit appends one audit row. Audit writes are best-effort from the
// caller's perspective; the raw DB error is returned for logging.
func InsertAudit(ctx context.Context, db *gorm.DB, actor, action, target, detail string) error {
	row := &domain.AuditEntry{
		ID:        uuid.NewString(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(row).Error
}

// ListAudit returns the most recent audit rows, newest first, optionally
// filtered by target. limit is clamped to [1, 500].
func ListAudit(ctx context.Context, db *gorm.DB, target string, limit int) ([]domain.AuditEntry, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	q := db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if target != "" {
		q = q.Where("target = ?", target)
	}
	var rows []domain.AuditEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
