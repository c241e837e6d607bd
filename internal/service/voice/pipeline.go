package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/execution"
	"github.com/heartmarshall/voicecommand-backend/internal/service/interpret"
)

const defaultBackgroundTimeout = 45 * time.Second

// runOptions controls one pass of the pipeline over an entry.
type runOptions struct {
	actorID     *uuid.UUID // nil for the background run
	force       bool
	autoExecute bool
	// reinterpret ignores any stored intent.
	reinterpret bool
	// editedText replaces the captured text when it differs from it.
	editedText *string
	// confirmed stamps confirmedBy/At with actorID.
	confirmed bool
}

// startPipeline runs the first pipeline pass for a freshly captured entry
// detached from the request. The run outlives the request but not the
// configured background timeout.
func (s *Service) startPipeline(ctx context.Context, entry *domain.InboxEntry, autoExecute bool) {
	timeout := s.cfg.BackgroundTimeout
	if timeout <= 0 {
		timeout = defaultBackgroundTimeout
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				s.log.ErrorContext(bg, "panic in background pipeline",
					slog.String("entry_id", entry.ID.String()),
					slog.Any("panic", r),
				)
			}
		}()

		updated, _, err := s.run(bg, entry, runOptions{autoExecute: autoExecute, reinterpret: true})
		if err != nil {
			s.log.ErrorContext(bg, "background pipeline failed",
				slog.String("entry_id", entry.ID.String()),
				slog.String("error", err.Error()),
			)
			return
		}
		s.log.InfoContext(bg, "background pipeline finished",
			slog.String("entry_id", updated.ID.String()),
			slog.String("status", updated.Status.String()),
		)
	}()
}

// run interprets the entry (or decodes its stored intent), executes it and
// stores the outcome. Interpretation, matching and execution outcomes are
// recorded on the entry; only storage failures are returned. The returned
// result is nil when the engine did not run.
func (s *Service) run(ctx context.Context, entry *domain.InboxEntry, opts runOptions) (*domain.InboxEntry, *domain.ExecutionResult, error) {
	intent, entry, err := s.intentFor(ctx, entry, opts)
	if err != nil {
		return nil, nil, err
	}
	if intent == nil {
		return entry, nil, nil
	}

	result := s.executor.Execute(ctx, execution.Input{
		Intent:             intent,
		TenantID:           entry.TenantID,
		UserID:             entry.UserID,
		AutoExecuteEnabled: opts.autoExecute,
		ForceExecute:       opts.force,
	})

	entry, err = s.storeResult(ctx, entry, result, opts)
	if err != nil {
		return nil, nil, err
	}
	return entry, &result, nil
}

// intentFor returns the intent to execute. A nil intent with a nil error
// means interpretation failed and the entry now needs confirmation.
func (s *Service) intentFor(ctx context.Context, entry *domain.InboxEntry, opts runOptions) (*domain.Intent, *domain.InboxEntry, error) {
	text := entry.InputText
	textChanged := false
	if opts.editedText != nil {
		if edited := strings.TrimSpace(*opts.editedText); edited != entry.InputText {
			text = edited
			textChanged = true
		}
	}

	if !opts.reinterpret && !textChanged && len(entry.IntentPayload) > 0 {
		intent, err := s.interpreter.Decode(entry.IntentPayload)
		if err == nil {
			return intent, entry, nil
		}
		s.log.WarnContext(ctx, "stored intent rejected, interpreting again",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	locale := s.cfg.DefaultLocale
	if entry.Locale != nil {
		locale = *entry.Locale
	}
	intent, raw, err := s.interpreter.Interpret(ctx, interpret.Input{
		Text:   text,
		Locale: locale,
		Hints:  entry.ContextHints,
	})

	var upd domain.InboxEntryUpdate
	if textChanged {
		upd.InputText = domain.Some(text)
	}

	if err != nil {
		msg := err.Error()
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			msg = pe.Message
		}
		reason := domain.ReasonIntentParseFailed

		upd.Status = domain.Some(domain.InboxStatusNeedsConfirmation)
		upd.NeedsConfirmationReason = domain.Some(&reason)
		upd.ErrorMessage = domain.Some(&msg)
		upd.IntentVersion = domain.Some[*string](nil)
		upd.IntentPayload = domain.Some[json.RawMessage](nil)
		upd.Confidence = domain.Some[*float64](nil)
		s.stamp(&upd, opts)

		updated, uerr := s.inbox.Update(ctx, entry.TenantID, entry.ID, upd)
		if uerr != nil {
			return nil, nil, fmt.Errorf("store parse failure: %w", uerr)
		}

		s.log.InfoContext(ctx, "command not understood",
			slog.String("entry_id", entry.ID.String()),
			slog.String("text", preview(text)),
			slog.String("reason", msg),
		)
		s.record(ctx, updated, opts.actorID, domain.InboxEventInterpreted, map[string]any{
			"ok":    false,
			"error": msg,
		})
		return nil, updated, nil
	}

	version := intent.Version
	confidence := intent.Confidence
	upd.Status = domain.Some(domain.InboxStatusParsed)
	upd.IntentVersion = domain.Some(&version)
	upd.IntentPayload = domain.Some(raw)
	upd.Confidence = domain.Some(&confidence)
	upd.ErrorMessage = domain.Some[*string](nil)
	upd.NeedsConfirmationReason = domain.Some[*string](nil)

	updated, err := s.inbox.Update(ctx, entry.TenantID, entry.ID, upd)
	if err != nil {
		return nil, nil, fmt.Errorf("store intent: %w", err)
	}

	s.record(ctx, updated, opts.actorID, domain.InboxEventInterpreted, map[string]any{
		"ok":              true,
		"action":          intent.Action.String(),
		"confidence":      intent.Confidence,
		"confidenceLevel": intent.ConfidenceLevel.String(),
	})
	return intent, updated, nil
}

// storeResult folds an execution result into the entry.
func (s *Service) storeResult(ctx context.Context, entry *domain.InboxEntry, result domain.ExecutionResult, opts runOptions) (*domain.InboxEntry, error) {
	doc, err := marshalExecution(result)
	if err != nil {
		return nil, fmt.Errorf("marshal execution result: %w", err)
	}

	now := s.now()
	action := result.Action
	var errMsg *string
	if result.Status == domain.ExecutionStatusFailed {
		msg := result.Message
		errMsg = &msg
	}

	upd := domain.InboxEntryUpdate{
		Status:                  domain.Some(result.Status.InboxStatus()),
		NeedsConfirmationReason: domain.Some(result.NeedsConfirmationReason),
		ExecutionAction:         domain.Some(&action),
		ExecutionResult:         domain.Some(doc),
		ErrorMessage:            domain.Some(errMsg),
		LastExecutedAt:          domain.Some(&now),
		ExecutedTaskID:          domain.Some(result.TaskID),
		ExecutedAppointmentID:   domain.Some(result.AppointmentID),
		IncrementAttempts:       true,
	}
	s.stamp(&upd, opts)

	updated, err := s.inbox.Update(ctx, entry.TenantID, entry.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("store execution result: %w", err)
	}

	attrs := []any{
		slog.String("entry_id", updated.ID.String()),
		slog.String("status", result.Status.String()),
		slog.Bool("forced", opts.force),
	}
	if result.NeedsConfirmationReason != nil {
		attrs = append(attrs, slog.String("reason", *result.NeedsConfirmationReason))
	}
	s.log.InfoContext(ctx, "execution outcome stored", attrs...)

	details := map[string]any{
		"status":  result.Status.String(),
		"message": result.Message,
		"forced":  opts.force,
	}
	if result.NeedsConfirmationReason != nil {
		details["reason"] = *result.NeedsConfirmationReason
	}
	s.record(ctx, updated, opts.actorID, domain.InboxEventExecuted, details)

	return updated, nil
}

func (s *Service) stamp(upd *domain.InboxEntryUpdate, opts runOptions) {
	if !opts.confirmed {
		return
	}
	now := s.now()
	upd.ConfirmedByUserID = domain.Some(opts.actorID)
	upd.ConfirmedAt = domain.Some(&now)
}
