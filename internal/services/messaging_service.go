// Package services – MessagingService
//
// This file implements the MessagingService, the outbound side of the
// carrier integrations: sending SMS, fetching delivery status, and
// triggering fraud-alert voice calls. Every outbound action writes one
// audit row; carrier calls are single-attempt with the upstream error
// surfaced to the caller.
package services

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/valchyai/ops-backend/internal/domain"
	"github.com/valchyai/ops-backend/internal/twilio"
	"github.com/valchyai/ops-backend/internal/utils"
)

// SMSCarrier is the contract required from the SMS carrier client.
// *twilio.Client satisfies it.
type SMSCarrier interface {
	SendSMS(ctx context.Context, to, body string) (*twilio.Message, error)
	GetMessage(ctx context.Context, sid string) (*twilio.Message, error)
}

// VoiceCarrier is the contract required from the voice runtime client.
// *voiceflow.Client satisfies it.
type VoiceCarrier interface {
	Call(ctx context.Context, phone, name string) error
}

// MessagingService wraps the carrier clients with audit logging.
type MessagingService struct {
	// SMS is the SMS carrier client.
	SMS SMSCarrier
	// Voice is the voice runtime client.
	Voice VoiceCarrier
	// DB is the local audit database; nil disables auditing.
	DB *gorm.DB
	// Log receives audit failures.
	Log zerolog.Logger
}

// NewMessagingService constructs a MessagingService.
func NewMessagingService(sms SMSCarrier, voice VoiceCarrier, db *gorm.DB, log zerolog.Logger) *MessagingService {
	return &MessagingService{SMS: sms, Voice: voice, DB: db, Log: log}
}

// SendSMS submits one outbound message and audits the attempt.
func (s *MessagingService) SendSMS(ctx context.Context, to, body string) (*twilio.Message, error) {
	msg, err := s.SMS.SendSMS(ctx, to, body)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditSMSSend,
		utils.NormalizePhone(to), msg.Sid)
	return msg, nil
}

// MessageStatus fetches the carrier's view of a previously sent message.
func (s *MessagingService) MessageStatus(ctx context.Context, sid string) (*twilio.Message, error) {
	return s.SMS.GetMessage(ctx, sid)
}

// Call triggers an outbound fraud-alert voice call and audits it.
func (s *MessagingService) Call(ctx context.Context, phone, name string) error {
	if err := s.Voice.Call(ctx, phone, name); err != nil {
		return err
	}
	audit(ctx, s.DB, s.Log, actorStaff, domain.AuditVoiceCall,
		utils.NormalizePhone(phone), "fraud alert")
	return nil
}
