// Locally persisted models. Unlike the record shapes in records.go these
// are owned by this service and mapped with GORM into the SQLite audit
// store: an append-only log of outbound actions, and dedupe markers for
// inbound webhook deliveries (carriers redeliver webhooks on timeouts).
package domain

import "time"

// Audit action identifiers recorded in AuditEntry.Action.
const (
	AuditSMSSend       = "sms.send"
	AuditVoiceCall     = "voice.call"
	AuditWebhookUpdate = "webhook.update"
	AuditCardIssue     = "card.issue"
	AuditCardUpdate    = "card.update"
	AuditFieldUpdate   = "field.update"
)

// AuditEntry is one row in the outbound-action audit log.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Actor: who triggered the action ("staff" for dashboard calls,
//     "carrier" for webhook-driven writes).
//   - Action: one of the Audit* constants above.
//   - Target: digit-normalized phone number or card number the action
//     addressed.
//   - Detail: short human-readable description (field written, SID, ...).
//   - CreatedAt: timestamp managed by GORM.
type AuditEntry struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Actor     string    `json:"actor"      gorm:"type:varchar(32);not null;index"`
	Action    string    `json:"action"     gorm:"type:varchar(32);not null;index"`
	Target    string    `json:"target"     gorm:"type:varchar(64);not null;index"`
	Detail    string    `json:"detail"     gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for AuditEntry.
func (AuditEntry) TableName() string { return "audit_entries" }

// WebhookEvent marks an inbound SMS delivery as processed. The unique
// MessageSid index is what makes webhook processing idempotent: a carrier
// redelivery inserts the same SID, hits the constraint, and is dropped.
//
// ExpiresAt bounds the dedupe horizon; lookups ignore expired rows and the
// sweep deletes them.
type WebhookEvent struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	MessageSid string    `json:"message_sid" gorm:"type:varchar(64);not null;uniqueIndex:ux_webhook_sid"`
	FromPhone  string    `json:"from_phone"  gorm:"type:varchar(32);not null;index"`
	Field      string    `json:"field"       gorm:"type:varchar(64);not null"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"  gorm:"index"`
}

// TableName returns the database table name for WebhookEvent.
func (WebhookEvent) TableName() string { return "webhook_events" }
