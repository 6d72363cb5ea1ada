// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate input, delegate to application
// services, and translate domain/service errors into HTTP results. They
// depend on abstract service interfaces so transport concerns stay separate
// from business logic.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valchyai/ops-backend/internal/cache"
	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/services"
	"github.com/valchyai/ops-backend/internal/twilio"
)

//
// Service contracts (context-aware)
//

// ClientService defines client record operations consumed by HTTP handlers.
type ClientService interface {
	// List returns every client record.
	List(ctx context.Context) ([]map[string]any, error)
	// SearchByPhone returns clients matching a (partial) phone number.
	SearchByPhone(ctx context.Context, phone string) ([]map[string]any, error)
	// FindOrCreate returns the client for phone, creating it when absent.
	FindOrCreate(ctx context.Context, phone string) (map[string]any, bool, error)
	// GetField returns one field value of the client matching phone.
	GetField(ctx context.Context, phone, field string) (any, error)
	// UpdateField writes one field, optionally moving the intake pointer.
	UpdateField(ctx context.Context, phone, field, value, nextField string) (*services.FieldUpdate, error)
	// UpdateFields patches multiple fields in one store call.
	UpdateFields(ctx context.Context, phone string, fields map[string]any) (map[string]any, error)
}

// CardService defines card record operations consumed by HTTP handlers.
type CardService interface {
	// List returns every card record.
	List(ctx context.Context) ([]map[string]any, error)
	// ListByPhone returns cards owned by phone.
	ListByPhone(ctx context.Context, phone string) ([]map[string]any, error)
	// Issue creates a card with a generated unique number.
	Issue(ctx context.Context, phone, cardType, status string) (map[string]any, error)
	// UpdateStatus sets the status of the card matching cardNumber.
	UpdateStatus(ctx context.Context, cardNumber, status string) (map[string]any, error)
}

// CallerService defines call history operations consumed by HTTP handlers.
type CallerService interface {
	// Add records an inbound call.
	Add(ctx context.Context, phone, name string) (map[string]any, error)
	// History returns every call history record.
	History(ctx context.Context) ([]map[string]any, error)
	// UpdateCallType classifies a call record.
	UpdateCallType(ctx context.Context, id, callType string) (map[string]any, error)
}

// MessagingService defines outbound carrier operations.
type MessagingService interface {
	// SendSMS submits one outbound message.
	SendSMS(ctx context.Context, to, body string) (*twilio.Message, error)
	// MessageStatus fetches the carrier's view of a sent message.
	MessageStatus(ctx context.Context, sid string) (*twilio.Message, error)
	// Call triggers an outbound fraud-alert voice call.
	Call(ctx context.Context, phone, name string) error
}

// WebhookService applies inbound SMS deliveries to client records.
type WebhookService interface {
	// Process applies one delivery identified by the carrier message SID.
	Process(ctx context.Context, sid, from, body string) (*services.InboundResult, error)
}

// AuditService reads the local audit log.
type AuditService interface {
	// List returns recent audit rows, newest first.
	List(ctx context.Context, target string, limit int) ([]domain.AuditEntry, error)
}

//
// Handler wiring
//

// Cache keys for the list endpoints.
const (
	cacheKeyClients = "clients"
	cacheKeyCards   = "cards"
	cacheKeyHistory = "caller-history"
)

// Handlers groups the HTTP endpoints for the ops dashboard API.
type Handlers struct {
	clients ClientService
	cards   CardService
	callers CallerService
	msg     MessagingService
	webhook WebhookService
	audits  AuditService
	cache   *cache.Cache
}

// New constructs a Handlers instance bound to the given services. cache may
// be nil, in which case reads always hit the record store.
func New(clients ClientService, cards CardService, callers CallerService,
	msg MessagingService, webhook WebhookService, audits AuditService,
	respCache *cache.Cache) *Handlers {
	return &Handlers{
		clients: clients,
		cards:   cards,
		callers: callers,
		msg:     msg,
		webhook: webhook,
		audits:  audits,
		cache:   respCache,
	}
}

// cached runs fn through the response cache when one is configured.
func (h *Handlers) cached(ctx context.Context, key string, fn cache.FetchFunc) (any, error) {
	if h.cache == nil {
		return fn(ctx)
	}
	return h.cache.Fetch(ctx, key, fn)
}

// failFromService translates service-level errors into HTTP results. It
// returns true when err was handled.
func failFromService(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrFieldEmpty),
		errors.Is(err, services.ErrNoPendingField):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCardStatus),
		errors.Is(err, services.ErrInvalidCardType),
		errors.Is(err, services.ErrInvalidCallType),
		errors.Is(err, services.ErrInvalidIntakeField):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrIntakeComplete):
		fail(c, http.StatusConflict, ErrCodeIntakeComplete, err.Error())
	case errors.Is(err, services.ErrDuplicateDelivery):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrCardExhausted):
		fail(c, http.StatusInternalServerError, ErrCodeCardExhausted, err.Error())
	default:
		// Upstream store/carrier failures surface their message, per the
		// operator-facing error contract.
		fail(c, http.StatusInternalServerError, ErrCodeUpstream, err.Error())
	}
	return true
}
