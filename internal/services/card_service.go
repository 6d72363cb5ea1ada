// Package services – CardService
//
// This file implements the CardService, which manages card records: listing,
// filtering by owner phone, issuing new cards, and status changes.
//
// Card numbers are generated locally and must be unique among existing
// cards. Uniqueness is a read-then-write check against the store with a
// bounded retry loop; when the ceiling is exceeded the operation fails
// closed with ErrCardExhausted instead of risking a duplicate. The TOCTOU
// window between check and insert is accepted given human-driven request
// rates.
package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/airtable"
	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/utils"
)

// DefaultCardAttempts bounds the uniqueness retry loop for card issuance.
const DefaultCardAttempts = 10

// CardService provides operations over the Cards table.
type CardService struct {
	// Store is the external record store client.
	Store RecordStore
	// Table is the Cards table name.
	Table string
	// Attempts caps uniqueness retries during issuance.
	Attempts int
	// DB is the local audit database; nil disables auditing.
	DB *gorm.DB
	// Log receives audit failures.
	Log zerolog.Logger
}

// NewCardService constructs a CardService with the default attempt ceiling.
func NewCardService(store RecordStore, table string, db *gorm.DB, log zerolog.Logger) *CardService {
	return &CardService{Store: store, Table: table, Attempts: DefaultCardAttempts, DB: db, Log: log}
}

// List returns every card record.
func (s *CardService) List(ctx context.Context) ([]map[string]any, error) {
	recs, err := s.Store.Find(ctx, s.Table, "", 0)
	if err != nil {
		return nil, err
	}
	return flatten(recs), nil
}

// ListByPhone returns cards owned by the normalized phone number. An empty
// result is returned as-is; absence of cards is not an error.
func (s *CardService) ListByPhone(ctx context.Context, phone string) ([]map[string]any, error) {
	digits := utils.NormalizePhone(phone)
	recs, err := s.Store.Find(ctx, s.Table, airtable.PhoneEq(digits), 0)
	if err != nil {
		return nil, err
	}
	return flatten(recs), nil
}

// Issue creates a card for the given owner phone with a freshly generated
// unique 16-digit number. status defaults to Active when empty; cardType
// and status are validated against the accepted enums.
func (s *CardService) Issue(ctx context.Context, phone, cardType, status string) (map[string]any, error) {
	if status == "" {
		status = domain.CardStatusActive
	}
	if !domain.ValidCardType(cardType) {
		return nil, ErrInvalidCardType
	}
	if !domain.ValidCardStatus(status) {
		return nil, ErrInvalidCardStatus
	}

	number, err := s.uniqueCardNumber(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.Store.Create(ctx, s.Table, map[string]any{
		domain.FieldCardNumber: number,
		domain.FieldPhone:      utils.NormalizePhone(phone),
		domain.FieldCardStatus: status,
		domain.FieldCardType:   cardType,
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditCardIssue,
		utils.NormalizePhone(phone), "type "+cardType)
	return rec.Flatten(), nil
}

// UpdateStatus sets the status of the card matching cardNumber (spaces and
// dashes stripped before comparison).
func (s *CardService) UpdateStatus(ctx context.Context, cardNumber, status string) (map[string]any, error) {
	if !domain.ValidCardStatus(status) {
		return nil, ErrInvalidCardStatus
	}

	number := utils.NormalizeCardNumber(cardNumber)
	if !utils.IsDigits(number) {
		// Stored numbers are all digits, so malformed input cannot match.
		return nil, ErrCardNotFound
	}
	recs, err := s.Store.Find(ctx, s.Table, airtable.Eq(domain.FieldCardNumber, number), 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrCardNotFound
	}

	updated, err := s.Store.Update(ctx, s.Table, recs[0].ID, map[string]any{
		domain.FieldCardStatus: status,
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditCardUpdate, number, "status "+status)
	return updated.Flatten(), nil
}

// uniqueCardNumber generates candidates until one is unused or the attempt
// ceiling is hit.
func (s *CardService) uniqueCardNumber(ctx context.Context) (string, error) {
	attempts := s.Attempts
	if attempts < 1 {
		attempts = DefaultCardAttempts
	}
	for i := 0; i < attempts; i++ {
		candidate, err := randomCardNumber()
		if err != nil {
			return "", err
		}
		existing, err := s.Store.Find(ctx, s.Table, airtable.Eq(domain.FieldCardNumber, candidate), 1)
		if err != nil {
			return "", err
		}
		if len(existing) == 0 {
			return candidate, nil
		}
	}
	return "", ErrCardExhausted
}

// randomCardNumber returns 16 random digits from crypto/rand, first digit
// nonzero so the number keeps its length everywhere it is displayed.
func randomCardNumber() (string, error) {
	digits := make([]byte, 16)
	for i := range digits {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate card number: %w", err)
		}
		d := n.Int64()
		if i == 0 {
			d++
		}
		digits[i] = byte('0' + d)
	}
	return string(digits), nil
}
