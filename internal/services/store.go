// Package services implements the business logic layer. This file defines
// the record store contract and the shared audit helper.
package services

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/airtable"
	"github.com/valchyai/ops-backend/internal/repo"
)

// RecordStore is the contract services require from the external record
// store client. *airtable.Client satisfies it; tests substitute fakes.
type RecordStore interface {
	// Find returns records from table matching formula. maxRecords <= 0
	// means no cap.
	Find(ctx context.Context, table, formula string, maxRecords int) ([]airtable.Record, error)

	// Create inserts one record with the given fields.
	Create(ctx context.Context, table string, fields map[string]any) (*airtable.Record, error)

	// Update patches the fields of the record with the given id.
	Update(ctx context.Context, table, id string, fields map[string]any) (*airtable.Record, error)
}

// audit appends a row to the local audit log. Audit failures never fail the
// user-facing operation; they are logged and dropped. A nil db disables
// auditing (used by tests that only exercise store logic).
func audit(ctx context.Context, db *gorm.DB, log zerolog.Logger, actor, action, target, detail string) {
	if db == nil {
		return
	}
	if err := repo.InsertAudit(ctx, db, actor, action, target, detail); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("target", target).
			Msg("audit write failed")
	}
}

// Actor identifiers recorded in audit rows.
const (
	actorStaff   = "staff"
	actorCarrier = "carrier"
)

// flatten converts records into the id-plus-fields maps returned by the
// read endpoints.
func flatten(recs []airtable.Record) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Flatten())
	}
	return out
}
