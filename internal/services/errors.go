// Package services implements the business logic between the HTTP handlers
// and the external collaborators (record store, SMS carrier, voice runtime)
// plus the local audit store. This file centralizes service-level error
// values so they can be consistently returned by service methods and
// translated into HTTP statuses at the handler layer.
package services

import "errors"

var (
	// ErrClientNotFound indicates no client record matches the given phone
	// number.
	ErrClientNotFound = errors.New("no client found with the provided phone number")

	// ErrCardNotFound indicates no card record matches the given card
	// number.
	ErrCardNotFound = errors.New("no card found with the provided card number")

	// ErrFieldEmpty indicates the requested client field exists but holds
	// no value.
	ErrFieldEmpty = errors.New("field has no value for this client")

	// ErrCardExhausted is returned when card number generation failed to
	// produce an unused number within the attempt ceiling. The operation
	// fails closed rather than risking a duplicate.
	ErrCardExhausted = errors.New("could not generate a unique card number")

	// ErrInvalidCardStatus is returned for card status values outside the
	// accepted enum.
	ErrInvalidCardStatus = errors.New("invalid card status")

	// ErrInvalidCardType is returned for card type values outside the
	// accepted enum.
	ErrInvalidCardType = errors.New("invalid card type")

	// ErrInvalidCallType is returned for call type values outside the
	// accepted enum.
	ErrInvalidCallType = errors.New("invalid call type")

	// ErrNoPendingField indicates the client has no NEXT_FIELD_UPDATE
	// pointer set, so an inbound SMS cannot be applied.
	ErrNoPendingField = errors.New("no pending field update for client")

	// ErrIntakeComplete indicates the client's intake sequence already
	// finished; further inbound SMS are not applied to any field.
	ErrIntakeComplete = errors.New("intake sequence already complete")

	// ErrInvalidIntakeField indicates the stored NEXT_FIELD_UPDATE pointer
	// names a field outside the intake sequence. The write is refused so a
	// corrupted pointer cannot direct an SMS into an arbitrary column.
	ErrInvalidIntakeField = errors.New("stored field pointer is not a valid intake field")

	// ErrDuplicateDelivery indicates this webhook delivery (by message SID)
	// was already processed.
	ErrDuplicateDelivery = errors.New("webhook delivery already processed")
)
