package rest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/voice"
)

type captureRequest struct {
	Text           string            `json:"text"`
	IdempotencyKey string            `json:"idempotencyKey"`
	Source         string            `json:"source"`
	Locale         *string           `json:"locale"`
	Hints          map[string]string `json:"hints"`
	Token          string            `json:"token"`
}

type reentryRequest struct {
	EditedText *string `json:"editedText"`
	Token      string  `json:"token"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type captureResponse struct {
	EntryID       uuid.UUID  `json:"entryId"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	Idempotent    bool       `json:"idempotent"`
	TaskID        *uuid.UUID `json:"taskId,omitempty"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
}

type actionResponse struct {
	Entry     entryResponse      `json:"entry"`
	Execution *executionResponse `json:"execution"`
}

type discardResponse struct {
	Entry entryResponse `json:"entry"`
}

type listResponse struct {
	Items  []entryResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type eventsResponse struct {
	Items []eventResponse `json:"items"`
}

type entryResponse struct {
	ID                      uuid.UUID         `json:"id"`
	Status                  string            `json:"status"`
	Source                  string            `json:"source"`
	Locale                  *string           `json:"locale,omitempty"`
	InputText               string            `json:"inputText"`
	ContextHints            map[string]string `json:"contextHints"`
	IntentVersion           *string           `json:"intentVersion,omitempty"`
	Intent                  json.RawMessage   `json:"intent,omitempty"`
	Confidence              *float64          `json:"confidence,omitempty"`
	ExecutionAction         *string           `json:"executionAction,omitempty"`
	ExecutionResult         json.RawMessage   `json:"executionResult,omitempty"`
	ErrorMessage            *string           `json:"errorMessage,omitempty"`
	NeedsConfirmationReason *string           `json:"needsConfirmationReason,omitempty"`
	ExecutionAttempts       int               `json:"executionAttempts"`
	LastExecutedAt          *time.Time        `json:"lastExecutedAt,omitempty"`
	ExecutedTaskID          *uuid.UUID        `json:"executedTaskId,omitempty"`
	ExecutedAppointmentID   *uuid.UUID        `json:"executedAppointmentId,omitempty"`
	ConfirmedByUserID       *uuid.UUID        `json:"confirmedByUserId,omitempty"`
	ConfirmedAt             *time.Time        `json:"confirmedAt,omitempty"`
	DiscardedByUserID       *uuid.UUID        `json:"discardedByUserId,omitempty"`
	DiscardedAt             *time.Time        `json:"discardedAt,omitempty"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

type executionResponse struct {
	Status                  string         `json:"status"`
	Action                  string         `json:"action"`
	Message                 string         `json:"message"`
	Confidence              float64        `json:"confidence"`
	ConfidenceLevel         string         `json:"confidenceLevel"`
	TaskID                  *uuid.UUID     `json:"taskId,omitempty"`
	AppointmentID           *uuid.UUID     `json:"appointmentId,omitempty"`
	NeedsConfirmationReason *string        `json:"needsConfirmationReason,omitempty"`
	Details                 map[string]any `json:"details,omitempty"`
}

type eventResponse struct {
	ID        uuid.UUID      `json:"id"`
	Event     string         `json:"event"`
	Status    string         `json:"status"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toCaptureResponse(r *voice.CaptureResult) captureResponse {
	return captureResponse{
		EntryID:       r.EntryID,
		Status:        r.Status.String(),
		Message:       r.Message,
		Idempotent:    r.Idempotent,
		TaskID:        r.TaskID,
		AppointmentID: r.AppointmentID,
	}
}

func toActionResponse(r *voice.ActionResult) actionResponse {
	resp := actionResponse{Entry: toEntryResponse(r.Entry)}
	if r.Execution != nil {
		exec := toExecutionResponse(*r.Execution)
		resp.Execution = &exec
	}
	return resp
}

func toEntryResponse(e *domain.InboxEntry) entryResponse {
	resp := entryResponse{
		ID:                      e.ID,
		Status:                  e.Status.String(),
		Source:                  e.Source.String(),
		Locale:                  e.Locale,
		InputText:               e.InputText,
		ContextHints:            e.ContextHints,
		IntentVersion:           e.IntentVersion,
		Intent:                  e.IntentPayload,
		Confidence:              e.Confidence,
		ExecutionResult:         e.ExecutionResult,
		ErrorMessage:            e.ErrorMessage,
		NeedsConfirmationReason: e.NeedsConfirmationReason,
		ExecutionAttempts:       e.ExecutionAttempts,
		LastExecutedAt:          e.LastExecutedAt,
		ExecutedTaskID:          e.ExecutedTaskID,
		ExecutedAppointmentID:   e.ExecutedAppointmentID,
		ConfirmedByUserID:       e.ConfirmedByUserID,
		ConfirmedAt:             e.ConfirmedAt,
		DiscardedByUserID:       e.DiscardedByUserID,
		DiscardedAt:             e.DiscardedAt,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
	if resp.ContextHints == nil {
		resp.ContextHints = map[string]string{}
	}
	if e.ExecutionAction != nil {
		a := e.ExecutionAction.String()
		resp.ExecutionAction = &a
	}
	return resp
}

func toExecutionResponse(r domain.ExecutionResult) executionResponse {
	return executionResponse{
		Status:                  r.Status.String(),
		Action:                  r.Action.String(),
		Message:                 r.Message,
		Confidence:              r.Confidence,
		ConfidenceLevel:         r.ConfidenceLevel.String(),
		TaskID:                  r.TaskID,
		AppointmentID:           r.AppointmentID,
		NeedsConfirmationReason: r.NeedsConfirmationReason,
		Details:                 r.Details,
	}
}

func toEventResponse(e domain.InboxEvent) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Event:     e.Event,
		Status:    e.Status.String(),
		ActorID:   e.ActorID,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}
