// Package services – ClientService
//
// This file implements the ClientService, which manages client records in
// the external record store: listing, phone-based lookup, intake
// find-or-create, and single-field reads and writes. Phone numbers are
// digit-normalized before every lookup because they arrive in inconsistent
// formats across the dashboard, the carrier, and manual entry.
//
// Service-level errors (e.g., ErrClientNotFound) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/airtable"
	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/utils"
)

// FieldUpdate reports the outcome of a single-field write, echoing the
// previous value so staff can verify what changed.
type FieldUpdate struct {
	Updated       map[string]any `json:"updated"`
	OriginalValue any            `json:"originalValue"`
	NewValue      string         `json:"newValue"`
	NextField     string         `json:"nextField"`
}

// ClientService provides operations over the Clients table.
type ClientService struct {
	// Store is the external record store client.
	Store RecordStore
	// Table is the Clients table name.
	Table string
	// DB is the local audit database; nil disables auditing.
	DB *gorm.DB
	// Log receives audit failures.
	Log zerolog.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(store RecordStore, table string, db *gorm.DB, log zerolog.Logger) *ClientService {
	return &ClientService{Store: store, Table: table, DB: db, Log: log}
}

// List returns every client record, flattened to id-plus-fields maps.
func (s *ClientService) List(ctx context.Context) ([]map[string]any, error) {
	recs, err := s.Store.Find(ctx, s.Table, "", 0)
	if err != nil {
		return nil, err
	}
	return flatten(recs), nil
}

// SearchByPhone returns clients whose normalized phone number contains the
// normalized input. Returns ErrClientNotFound when nothing matches.
func (s *ClientService) SearchByPhone(ctx context.Context, phone string) ([]map[string]any, error) {
	digits := utils.NormalizePhone(phone)
	recs, err := s.Store.Find(ctx, s.Table, airtable.PhoneContains(digits), 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrClientNotFound
	}
	return flatten(recs), nil
}

// FindByPhone returns the first client whose phone equals the normalized
// input, or ErrClientNotFound.
func (s *ClientService) FindByPhone(ctx context.Context, phone string) (*airtable.Record, error) {
	digits := utils.NormalizePhone(phone)
	recs, err := s.Store.Find(ctx, s.Table, airtable.PhoneEq(digits), 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrClientNotFound
	}
	return &recs[0], nil
}

// FindOrCreate looks up a client by phone and creates one when none exists.
// New records start the intake sequence: Status "New" and the field pointer
// at the first intake field. The second return value reports whether the
// record already existed.
func (s *ClientService) FindOrCreate(ctx context.Context, phone string) (map[string]any, bool, error) {
	rec, err := s.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		return rec.Flatten(), true, nil
	case err != ErrClientNotFound:
		return nil, false, err
	}

	created, err := s.Store.Create(ctx, s.Table, map[string]any{
		domain.FieldPhone:           utils.NormalizePhone(phone),
		domain.FieldStatus:          domain.ClientStatusNew,
		domain.FieldNextFieldUpdate: domain.IntakeStart,
	})
	if err != nil {
		return nil, false, err
	}
	return created.Flatten(), false, nil
}

// GetField returns the value of one field on the client matching phone.
// Returns ErrFieldEmpty when the field is absent or blank, which callers
// surface as not-found.
func (s *ClientService) GetField(ctx context.Context, phone, field string) (any, error) {
	rec, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	v, ok := rec.Fields[field]
	if !ok || v == nil || v == "" {
		return nil, ErrFieldEmpty
	}
	return v, nil
}

// UpdateField writes value into field on the client matching phone,
// optionally moving the NEXT_FIELD_UPDATE pointer to nextField in the same
// write. The returned FieldUpdate carries the pre-write value.
func (s *ClientService) UpdateField(ctx context.Context, phone, field, value, nextField string) (*FieldUpdate, error) {
	rec, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{field: value}
	if nextField != "" {
		fields[domain.FieldNextFieldUpdate] = nextField
	}

	updated, err := s.Store.Update(ctx, s.Table, rec.ID, fields)
	if err != nil {
		return nil, err
	}

	out := &FieldUpdate{
		Updated:       updated.Flatten(),
		OriginalValue: rec.Fields[field],
		NewValue:      value,
		NextField:     nextField,
	}
	if nextField == "" {
		out.NextField = rec.StringField(domain.FieldNextFieldUpdate)
	}

	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditFieldUpdate,
		utils.NormalizePhone(phone), field)
	return out, nil
}

// UpdateFields patches multiple fields on the client matching phone in one
// store call. Used by the dashboard's full-record edit form.
func (s *ClientService) UpdateFields(ctx context.Context, phone string, fields map[string]any) (map[string]any, error) {
	rec, err := s.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	updated, err := s.Store.Update(ctx, s.Table, rec.ID, fields)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditFieldUpdate,
		utils.NormalizePhone(phone), strings.Join(names, ","))
	return updated.Flatten(), nil
}
