// Package domain defines the record shapes exchanged with the external
// record store (Clients, Cards, Call History tables), the enumerations
// those records carry, and the locally persisted audit models.
//
// The external entities are owned by the record store, not by this service:
// the types here mirror its field names (including spaces, via mapping
// helpers) and carry no persistence tags of their own.
package domain

// Card status values accepted by the Cards table.
const (
	CardStatusActive  = "Active"
	CardStatusBlocked = "Blocked"
	CardStatusFrozen  = "Frozen"
)

// Card type values accepted by the Cards table.
const (
	CardTypeDebit    = "Debit"
	CardTypeCredit   = "Credit"
	CardTypeBusiness = "Business"
)

// Call type values accepted by the Call History table.
const (
	CallTypeNoAction        = "No Action"
	CallTypeCardBlock       = "Card Block"
	CallTypeCardUnblock     = "Card Unblock"
	CallTypeCardApplication = "Card Application"
	CallTypeInquiry         = "Inquiry"
	CallTypeFraudAlert      = "Fraud Alert"
)

// ValidCardStatus reports whether s is an accepted card status.
func ValidCardStatus(s string) bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusFrozen:
		return true
	}
	return false
}

// ValidCardType reports whether s is an accepted card type.
func ValidCardType(s string) bool {
	switch s {
	case CardTypeDebit, CardTypeCredit, CardTypeBusiness:
		return true
	}
	return false
}

// ValidCallType reports whether s is an accepted call type.
func ValidCallType(s string) bool {
	switch s {
	case CallTypeNoAction, CallTypeCardBlock, CallTypeCardUnblock,
		CallTypeCardApplication, CallTypeInquiry, CallTypeFraudAlert:
		return true
	}
	return false
}

// CardStatuses returns the accepted card status values, for error messages.
func CardStatuses() []string {
	return []string{CardStatusActive, CardStatusBlocked, CardStatusFrozen}
}

// CardTypes returns the accepted card type values, for error messages.
func CardTypes() []string {
	return []string{CardTypeDebit, CardTypeCredit, CardTypeBusiness}
}

// CallTypes returns the accepted call type values, for error messages.
func CallTypes() []string {
	return []string{
		CallTypeNoAction, CallTypeCardBlock, CallTypeCardUnblock,
		CallTypeCardApplication, CallTypeInquiry, CallTypeFraudAlert,
	}
}

// Well-known field names in the Clients table. Phone is the de-facto join
// key across all three tables; NextFieldUpdate points at the field the next
// inbound SMS should populate.
const (
	FieldPhone           = "Phone"
	FieldName            = "Name"
	FieldStatus          = "Status"
	FieldNotes           = "Notes"
	FieldNextFieldUpdate = "NEXT_FIELD_UPDATE"
	FieldCardNumber      = "Card Number"
	FieldCardStatus      = "Status"
	FieldCardType        = "Type"
	FieldCallType        = "Call Type"
)

// ClientStatusNew is assigned to freshly created client records so staff can
// tell in-progress intakes from completed ones.
const ClientStatusNew = "New"
