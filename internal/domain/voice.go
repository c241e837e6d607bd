package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// InboxStatus is the lifecycle state of a captured voice command.
type InboxStatus string

const (
	InboxStatusCaptured          InboxStatus = "captured"
	InboxStatusParsed            InboxStatus = "parsed"
	InboxStatusNeedsConfirmation InboxStatus = "needs_confirmation"
	InboxStatusExecuted          InboxStatus = "executed"
	InboxStatusFailed            InboxStatus = "failed"
	InboxStatusDiscarded         InboxStatus = "discarded"
)

func (s InboxStatus) String() string { return string(s) }

func (s InboxStatus) IsValid() bool {
	switch s {
	case InboxStatusCaptured, InboxStatusParsed, InboxStatusNeedsConfirmation,
		InboxStatusExecuted, InboxStatusFailed, InboxStatusDiscarded:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s InboxStatus) IsTerminal() bool {
	return s == InboxStatusExecuted || s == InboxStatusDiscarded
}

// CommandSource identifies the client that submitted a command.
type CommandSource string

const (
	CommandSourceShortcut  CommandSource = "shortcut"
	CommandSourceMobileApp CommandSource = "mobile_app"
	CommandSourceWeb       CommandSource = "web"
	CommandSourceSystem    CommandSource = "system"
)

func (s CommandSource) String() string { return string(s) }

func (s CommandSource) IsValid() bool {
	switch s {
	case CommandSourceShortcut, CommandSourceMobileApp, CommandSourceWeb, CommandSourceSystem:
		return true
	}
	return false
}

// InboxEntry is one submitted voice command and everything the pipeline
// learned about it. (TenantID, IdempotencyKey) is unique.
type InboxEntry struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	UserID         uuid.UUID
	TokenID        *uuid.UUID
	Source         CommandSource
	Locale         *string
	IdempotencyKey string
	InputText      string
	ContextHints   map[string]string
	Status         InboxStatus

	IntentVersion *string
	// IntentPayload is the interpreter output stored verbatim.
	IntentPayload json.RawMessage
	Confidence    *float64

	ExecutionAction         *IntentAction
	ExecutionResult         json.RawMessage
	ErrorMessage            *string
	NeedsConfirmationReason *string
	ExecutionAttempts       int
	LastExecutedAt          *time.Time
	ExecutedTaskID          *uuid.UUID
	ExecutedAppointmentID   *uuid.UUID

	ConfirmedByUserID *uuid.UUID
	ConfirmedAt       *time.Time
	DiscardedByUserID *uuid.UUID
	DiscardedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeviceToken is a long-lived bearer credential issued to one user for one tenant.
type DeviceToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Name       string
	TokenHash  string
	Scopes     []string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// IsRevoked reports whether the token has been revoked.
func (t *DeviceToken) IsRevoked() bool { return t.RevokedAt != nil }

// IsExpired reports whether the token is expired at now.
func (t *DeviceToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// HasScope reports whether the token grants scope.
func (t *DeviceToken) HasScope(scope string) bool { return slices.Contains(t.Scopes, scope) }

// TokenContext is the identity resolved from a bearer credential.
// TokenID is nil for web-session credentials.
type TokenContext struct {
	TokenID  *uuid.UUID
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// TenantMembership is the per-request tenant/feature snapshot for a user.
type TenantMembership struct {
	UserID              uuid.UUID
	TenantID            uuid.UUID
	VoiceCaptureEnabled bool
	AutoExecuteEnabled  bool
}

// InboxEvent is an append-only audit record of an inbox entry transition.
type InboxEvent struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	TenantID  uuid.UUID
	ActorID   *uuid.UUID
	Event     string
	Status    InboxStatus
	Details   map[string]any
	CreatedAt time.Time
}

// Inbox event kinds.
const (
	InboxEventCaptured    = "captured"
	InboxEventInterpreted = "interpreted"
	InboxEventExecuted    = "executed"
	InboxEventConfirmed   = "confirmed"
	InboxEventRetried     = "retried"
	InboxEventDiscarded   = "discarded"
)

// Opt is one field of a partial update. Only fields with Set are written.
type Opt[T any] struct {
	V   T
	Set bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{V: v, Set: true} }

// InboxEntryUpdate is a partial update of an inbox entry. updated_at is
// always bumped.
type InboxEntryUpdate struct {
	Status                  Opt[InboxStatus]
	InputText               Opt[string]
	IntentVersion           Opt[*string]
	IntentPayload           Opt[json.RawMessage]
	Confidence              Opt[*float64]
	ExecutionAction         Opt[*IntentAction]
	ExecutionResult         Opt[json.RawMessage]
	ErrorMessage            Opt[*string]
	NeedsConfirmationReason Opt[*string]
	LastExecutedAt          Opt[*time.Time]
	ExecutedTaskID          Opt[*uuid.UUID]
	ExecutedAppointmentID   Opt[*uuid.UUID]
	ConfirmedByUserID       Opt[*uuid.UUID]
	ConfirmedAt             Opt[*time.Time]
	DiscardedByUserID       Opt[*uuid.UUID]
	DiscardedAt             Opt[*time.Time]

	// IncrementAttempts adds one to execution_attempts in the same statement.
	IncrementAttempts bool
}

// InboxFilter narrows a listing of inbox entries.
type InboxFilter struct {
	Status *InboxStatus
	Limit  int
	Offset int
}
