// Package services – AuditService
//
// This file implements the read side of the local audit log, exposed on the
// dashboard so staff can review recent outbound actions.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/repo"
)

// AuditService reads the local audit log.
type AuditService struct {
	// DB is the local audit database.
	DB *gorm.DB
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// List returns recent audit rows, newest first, optionally filtered by
// target phone or card number.
func (s *AuditService) List(ctx context.Context, target string, limit int) ([]domain.AuditEntry, error) {
	return repo.ListAudit(ctx, s.DB, target, limit)
}
