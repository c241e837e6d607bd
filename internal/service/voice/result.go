package voice

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// CaptureResult is the response to a capture. Idempotent is true when the
// key was already known and the stored entry was returned as is.
type CaptureResult struct {
	EntryID       uuid.UUID
	Status        domain.InboxStatus
	Message       string
	Idempotent    bool
	TaskID        *uuid.UUID
	AppointmentID *uuid.UUID
}

// ActionResult is the response to confirm and retry. Execution is nil when
// the engine did not run, e.g. because the text could not be interpreted.
type ActionResult struct {
	Entry     *domain.InboxEntry
	Execution *domain.ExecutionResult
}

// executionDocument is the stored form of an ExecutionResult.
type executionDocument struct {
	Status                  domain.ExecutionStatus `json:"status"`
	Action                  domain.IntentAction    `json:"action"`
	Message                 string                 `json:"message"`
	Confidence              float64                `json:"confidence"`
	ConfidenceLevel         domain.ConfidenceLevel `json:"confidenceLevel"`
	TaskID                  *uuid.UUID             `json:"taskId,omitempty"`
	AppointmentID           *uuid.UUID             `json:"appointmentId,omitempty"`
	NeedsConfirmationReason *string                `json:"needsConfirmationReason,omitempty"`
	Details                 map[string]any         `json:"details,omitempty"`
}

func marshalExecution(r domain.ExecutionResult) (json.RawMessage, error) {
	return json.Marshal(executionDocument{
		Status:                  r.Status,
		Action:                  r.Action,
		Message:                 r.Message,
		Confidence:              r.Confidence,
		ConfidenceLevel:         r.ConfidenceLevel,
		TaskID:                  r.TaskID,
		AppointmentID:           r.AppointmentID,
		NeedsConfirmationReason: r.NeedsConfirmationReason,
		Details:                 r.Details,
	})
}

func statusMessage(s domain.InboxStatus) string {
	switch s {
	case domain.InboxStatusCaptured:
		return "command captured, processing"
	case domain.InboxStatusParsed:
		return "command understood, executing"
	case domain.InboxStatusNeedsConfirmation:
		return "command needs confirmation"
	case domain.InboxStatusExecuted:
		return "command executed"
	case domain.InboxStatusFailed:
		return "command failed"
	case domain.InboxStatusDiscarded:
		return "command discarded"
	default:
		return string(s)
	}
}
