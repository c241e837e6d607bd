package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/voice"
	"github.com/heartmarshall/voicecommand-backend/pkg/ctxutil"
)

// IdempotencyKeyHeader may carry the capture key instead of the body field.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxBodyBytes = 64 << 10

// voiceService defines the pipeline operations served over REST.
type voiceService interface {
	Capture(ctx context.Context, input voice.CaptureInput) (*voice.CaptureResult, error)
	Confirm(ctx context.Context, input voice.ConfirmInput) (*voice.ActionResult, error)
	Retry(ctx context.Context, input voice.RetryInput) (*voice.ActionResult, error)
	Discard(ctx context.Context, input voice.DiscardInput) (*domain.InboxEntry, error)
	GetEntry(ctx context.Context, credential string, entryID uuid.UUID) (*domain.InboxEntry, error)
	ListEntries(ctx context.Context, input voice.ListInput) ([]*domain.InboxEntry, int, error)
	ListEvents(ctx context.Context, credential string, entryID uuid.UUID) ([]domain.InboxEvent, error)
}

// VoiceHandler serves the voice command endpoints.
type VoiceHandler struct {
	svc voiceService
	log *slog.Logger
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(svc voiceService, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{svc: svc, log: logger.With("handler", "voice")}
}

// Register mounts the voice routes on mux.
func (h *VoiceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/voice/commands", h.Capture)
	mux.HandleFunc("GET /v1/voice/commands", h.List)
	mux.HandleFunc("GET /v1/voice/commands/{id}", h.Get)
	mux.HandleFunc("GET /v1/voice/commands/{id}/events", h.Events)
	mux.HandleFunc("POST /v1/voice/commands/{id}/confirm", h.Confirm)
	mux.HandleFunc("POST /v1/voice/commands/{id}/retry", h.Retry)
	mux.HandleFunc("POST /v1/voice/commands/{id}/discard", h.Discard)
}

// Capture handles POST /v1/voice/commands. A new entry answers 202, a
// replayed idempotency key 200.
func (h *VoiceHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if !h.decode(w, r, &req) {
		return
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	}

	result, err := h.svc.Capture(r.Context(), voice.CaptureInput{
		Credential:     credential(r, req.Token),
		Text:           req.Text,
		IdempotencyKey: key,
		Source:         domain.CommandSource(req.Source),
		Locale:         req.Locale,
		Hints:          req.Hints,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusAccepted
	if result.Idempotent {
		status = http.StatusOK
	}
	writeJSON(w, status, toCaptureResponse(result))
}

// Confirm handles POST /v1/voice/commands/{id}/confirm.
func (h *VoiceHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	var req reentryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.Confirm(r.Context(), voice.ConfirmInput{
		Credential: credential(r, req.Token),
		EntryID:    id,
		EditedText: req.EditedText,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(result))
}

// Retry handles POST /v1/voice/commands/{id}/retry.
func (h *VoiceHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	var req reentryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.Retry(r.Context(), voice.RetryInput{
		Credential: credential(r, req.Token),
		EntryID:    id,
		EditedText: req.EditedText,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(result))
}

// Discard handles POST /v1/voice/commands/{id}/discard.
func (h *VoiceHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	var req tokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.svc.Discard(r.Context(), voice.DiscardInput{
		Credential: credential(r, req.Token),
		EntryID:    id,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, discardResponse{Entry: toEntryResponse(entry)})
}

// Get handles GET /v1/voice/commands/{id}.
func (h *VoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), credential(r, ""), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// Events handles GET /v1/voice/commands/{id}/events.
func (h *VoiceHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	events, err := h.svc.ListEvents(r.Context(), credential(r, ""), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := eventsResponse{Items: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		resp.Items = append(resp.Items, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /v1/voice/commands?status=&limit=&offset=.
func (h *VoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := voice.ListInput{Credential: credential(r, "")}

	var errs []domain.FieldError
	if s := q.Get("status"); s != "" {
		status := domain.InboxStatus(s)
		input.Status = &status
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be an integer"})
		}
		input.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "offset", Message: "must be an integer"})
		}
		input.Offset = n
	}
	if len(errs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(errs))
		return
	}

	entries, total, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listResponse{
		Items:  make([]entryResponse, 0, len(entries)),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads an optional JSON body into v. An empty body leaves v zero.
func (h *VoiceHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, domain.CodeValidation, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, domain.CodeValidation, "invalid request body")
	return false
}

// credential prefers the header or query credential over the body token.
func credential(r *http.Request, bodyToken string) string {
	if c, ok := ctxutil.CredentialFromCtx(r.Context()); ok {
		return c
	}
	return strings.TrimSpace(bodyToken)
}

func entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid entry id",
			Code:   domain.CodeValidation,
			Fields: []fieldError{{Field: "id", Message: "must be a UUID"}},
		})
		return uuid.Nil, false
	}
	return id, true
}
