// Package services – CallerService
//
// This file implements the CallerService, which manages the Call History
// table: recording inbound calls as they arrive from the phone system,
// listing the history for the dashboard, and letting staff classify a call
// after the fact.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/rs/zerolog"

	"github.com/valchyai/ops-backend/internal/domain"
)

// CallerService provides operations over the Call History table.
type CallerService struct {
	// Store is the external record store client.
	Store RecordStore
	// Table is the Call History table name.
	Table string
	// DB is the local audit database; nil disables auditing.
	DB *gorm.DB
	// Log receives audit failures.
	Log zerolog.Logger
}

// NewCallerService constructs a CallerService.
func NewCallerService(store RecordStore, table string, db *gorm.DB, log zerolog.Logger) *CallerService {
	return &CallerService{Store: store, Table: table, DB: db, Log: log}
}

// Add records an inbound call. The phone is stored as received; lookups
// normalize on read. name is optional.
func (s *CallerService) Add(ctx context.Context, phone, name string) (map[string]any, error) {
	fields := map[string]any{domain.FieldPhone: phone}
	if name != "" {
		fields[domain.FieldName] = name
	}
	rec, err := s.Store.Create(ctx, s.Table, fields)
	if err != nil {
		return nil, err
	}
	return rec.Flatten(), nil
}

// History returns every call history record.
func (s *CallerService) History(ctx context.Context) ([]map[string]any, error) {
	recs, err := s.Store.Find(ctx, s.Table, "", 0)
	if err != nil {
		return nil, err
	}
	return flatten(recs), nil
}

// UpdateCallType classifies the call record with the given id. callType is
// validated against the accepted enum.
func (s *CallerService) UpdateCallType(ctx context.Context, id, callType string) (map[string]any, error) {
	if !domain.ValidCallType(callType) {
		return nil, ErrInvalidCallType
	}
	rec, err := s.Store.Update(ctx, s.Table, id, map[string]any{
		domain.FieldCallType: callType,
	})
	if err != nil {
		return nil, err
	}
	return rec.Flatten(), nil
}
