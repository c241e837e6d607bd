package domain

import (
	"github.com/google/uuid"
)

// EntityKind is the kind of business entity an intent hint may refer to.
type EntityKind string

const (
	EntityKindProject  EntityKind = "project"
	EntityKindCustomer EntityKind = "customer"
)

func (k EntityKind) String() string { return string(k) }

func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindProject, EntityKindCustomer:
		return true
	}
	return false
}

// EntityCandidate is one possible resolution of an entity hint.
type EntityCandidate struct {
	ID    uuid.UUID
	Label string
	Score float64
}

// EntityMatch is the ranked result of resolving an entity hint.
// Candidates are ordered by Score descending.
type EntityMatch struct {
	BestID     *uuid.UUID
	Confidence float64
	Candidates []EntityCandidate
}

// ExecutionStatus is the outcome of one execution attempt.
type ExecutionStatus string

const (
	ExecutionStatusExecuted          ExecutionStatus = "executed"
	ExecutionStatusNeedsConfirmation ExecutionStatus = "needs_confirmation"
	ExecutionStatusFailed            ExecutionStatus = "failed"
)

func (s ExecutionStatus) String() string { return string(s) }

// InboxStatus returns the entry status an execution outcome maps to.
func (s ExecutionStatus) InboxStatus() InboxStatus {
	switch s {
	case ExecutionStatusExecuted:
		return InboxStatusExecuted
	case ExecutionStatusNeedsConfirmation:
		return InboxStatusNeedsConfirmation
	default:
		return InboxStatusFailed
	}
}

// Reasons recorded on entries that need confirmation.
const (
	ReasonAutoExecuteDisabled    = "auto_execute_disabled"
	ReasonConfidenceNotHigh      = "confidence_not_high"
	ReasonIntentParseFailed      = "intent_parse_failed"
	ReasonProjectMatchAmbiguous  = "project_match_ambiguous"
	ReasonCustomerMatchAmbiguous = "customer_match_ambiguous"
)

// MatchAmbiguousReason returns the needs-confirmation reason for an
// unresolved hint of the given kind.
func MatchAmbiguousReason(kind EntityKind) string {
	return string(kind) + "_match_ambiguous"
}

// ExecutionResult is the outcome of running an intent through the engine.
type ExecutionResult struct {
	Status                  ExecutionStatus
	Action                  IntentAction
	Message                 string
	Confidence              float64
	ConfidenceLevel         ConfidenceLevel
	TaskID                  *uuid.UUID
	AppointmentID           *uuid.UUID
	NeedsConfirmationReason *string
	Details                 map[string]any
}

// NewTask is the input to the task-creation capability.
type NewTask struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description *string
	Priority    TaskPriority
	DueDate     *string
	ProjectID   *uuid.UUID
}

// NewAppointment is the input to the appointment-creation capability.
type NewAppointment struct {
	TenantID        uuid.UUID
	UserID          uuid.UUID
	Title           string
	CustomerID      *uuid.UUID
	CustomerName    *string
	Date            string
	Time            string
	DurationMinutes int
	Type            AppointmentType
}

// DefaultAppointmentMinutes is used when an appointment payload has no duration.
const DefaultAppointmentMinutes = 60

// EntityRef is a business entity a hint can be matched against.
// Code is the entity's human-facing number, when it has one.
type EntityRef struct {
	ID    uuid.UUID
	Label string
	Code  *string
}
