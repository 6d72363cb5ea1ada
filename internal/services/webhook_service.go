// Package services – WebhookService
//
// This file implements the WebhookService, which applies inbound SMS
// replies to client records. Each reply populates the field named by the
// client's NEXT_FIELD_UPDATE pointer and advances the pointer along the
// intake sequence.
//
// Processing order matters:
//
//  1. Dedupe by the carrier's message SID. Carriers redeliver webhooks on
//     timeouts; the first delivery wins and redeliveries return
//     ErrDuplicateDelivery without touching the record store. The claim is
//     released again when the record store write fails, so the carrier's
//     retry can deliver the value.
//  2. Look up the client and its pointer; refuse blank, completed, or
//     out-of-sequence pointer values before any write.
//  3. Normalize the value (name fields are title-cased) and write it
//     together with the advanced pointer in one store call.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/repo"
	"github.com/valchyai/ops-backend/internal/utils"
)

// DefaultDedupeTTL bounds how long processed message SIDs are remembered.
const DefaultDedupeTTL = 24 * time.Hour

// InboundResult reports what an inbound SMS changed.
type InboundResult struct {
	Field     string         `json:"field"`
	Value     string         `json:"value"`
	NextField string         `json:"nextField"`
	Updated   map[string]any `json:"updated"`
}

// WebhookService applies inbound SMS to the intake sequence.
type WebhookService struct {
	// Clients performs the record store reads and writes.
	Clients *ClientService
	// DB is the local database holding dedupe markers and the audit log.
	// nil disables both (tests).
	DB *gorm.DB
	// DedupeTTL is the redelivery suppression horizon.
	DedupeTTL time.Duration
	// Log receives audit and dedupe bookkeeping failures.
	Log zerolog.Logger
}

// NewWebhookService constructs a WebhookService with the default dedupe
// horizon.
func NewWebhookService(clients *ClientService, db *gorm.DB, log zerolog.Logger) *WebhookService {
	return &WebhookService{
		Clients:   clients,
		DB:        db,
		DedupeTTL: DefaultDedupeTTL,
		Log:       log,
	}
}

// Process applies one inbound SMS delivery. sid may be empty (some test
// harnesses omit it), in which case dedupe is skipped.
func (s *WebhookService) Process(ctx context.Context, sid, from, body string) (*InboundResult, error) {
	rec, err := s.Clients.FindByPhone(ctx, from)
	if err != nil {
		return nil, err
	}

	field := strings.TrimSpace(rec.StringField(domain.FieldNextFieldUpdate))
	switch {
	case field == "":
		return nil, ErrNoPendingField
	case field == domain.IntakeDone:
		return nil, ErrIntakeComplete
	case !domain.ValidIntakeField(field):
		return nil, ErrInvalidIntakeField
	}

	// Claim the SID before writing. A redelivery that lost the race gets
	// ErrDuplicateDelivery here and never reaches the record store.
	claimed := false
	if sid != "" && s.DB != nil {
		err := repo.MarkDelivery(ctx, s.DB, sid, utils.NormalizePhone(from), field, s.dedupeTTL())
		switch {
		case err == repo.ErrDuplicate:
			return nil, ErrDuplicateDelivery
		case err != nil:
			// Dedupe bookkeeping is best-effort: losing it risks a double
			// write, losing the webhook loses client data.
			s.Log.Error().Err(err).Str("sid", sid).Msg("webhook dedupe write failed")
		default:
			claimed = true
		}
	}

	value := strings.TrimSpace(body)
	if domain.IsNameField(field) {
		// Caser carries per-use state, so build one per call.
		value = cases.Title(language.English).String(strings.ToLower(value))
	}
	next, _ := domain.NextIntakeField(field)

	upd, err := s.Clients.UpdateField(ctx, from, field, value, next)
	if err != nil {
		// The value was never written; release the claim so the carrier's
		// redelivery is processed instead of rejected as a duplicate.
		if claimed {
			if relErr := repo.ReleaseDelivery(ctx, s.DB, sid); relErr != nil {
				s.Log.Error().Err(relErr).Str("sid", sid).Msg("webhook dedupe release failed")
			}
		}
		return nil, err
	}

	audit(ctx, s.DB, s.Log, actorCarrier, domain.AuditWebhookUpdate,
		utils.NormalizePhone(from), field)

	return &InboundResult{
		Field:     field,
		Value:     value,
		NextField: next,
		Updated:   upd.Updated,
	}, nil
}

func (s *WebhookService) dedupeTTL() time.Duration {
	if s.DedupeTTL > 0 {
		return s.DedupeTTL
	}
	return DefaultDedupeTTL
}
