package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// hint is one free-text entity reference carried by a payload.
type hint struct {
	kind domain.EntityKind
	text string
}

// resolution is the outcome of resolving one hint.
type resolution struct {
	hint  hint
	id    *uuid.UUID
	match *domain.EntityMatch
	err   error
}

func (r resolution) ambiguous() bool { return r.id == nil }

// Execute gates and runs an intent. Gates apply in order and the first one
// that fires decides the result: force, auto-execute, confidence, entity
// ambiguity. It never returns an error; failures are reported in the result.
func (s *Service) Execute(ctx context.Context, in Input) domain.ExecutionResult {
	intent := in.Intent
	result := domain.ExecutionResult{
		Action:          intent.Action,
		Confidence:      intent.Confidence,
		ConfidenceLevel: intent.ConfidenceLevel,
		Details:         map[string]any{},
	}

	if !in.ForceExecute {
		if !in.AutoExecuteEnabled {
			return needsConfirmation(result, domain.ReasonAutoExecuteDisabled, "automatic execution is disabled for this tenant")
		}
		if intent.ConfidenceLevel != domain.ConfidenceHigh {
			return needsConfirmation(result, domain.ReasonConfidenceNotHigh,
				fmt.Sprintf("confidence %s (%.2f) requires confirmation", intent.ConfidenceLevel, intent.Confidence))
		}
	}

	resolved := s.resolveHints(ctx, in.TenantID, payloadHints(intent.Payload))
	for _, r := range resolved {
		if !r.ambiguous() {
			continue
		}
		if in.ForceExecute {
			s.log.InfoContext(ctx, "ambiguous hint ignored under force",
				slog.String("kind", r.hint.kind.String()),
				slog.String("tenant_id", in.TenantID.String()),
			)
			continue
		}
		details := ambiguityDetails(r)
		result.Details = details
		return needsConfirmation(result, domain.MatchAmbiguousReason(r.hint.kind),
			fmt.Sprintf("%s %q matches no single %s", r.hint.kind, r.hint.text, r.hint.kind))
	}

	return s.dispatch(ctx, in, resolved, result)
}

// dispatch creates the business object the payload describes.
func (s *Service) dispatch(ctx context.Context, in Input, resolved []resolution, result domain.ExecutionResult) domain.ExecutionResult {
	switch p := in.Intent.Payload.(type) {
	case domain.TaskPayload:
		id, err := s.items.CreateTask(ctx, domain.NewTask{
			TenantID:    in.TenantID,
			UserID:      in.UserID,
			Title:       p.Title,
			Description: p.Description,
			Priority:    p.Priority,
			DueDate:     p.DueDate,
			ProjectID:   resolvedID(resolved, domain.EntityKindProject),
		})
		if err != nil {
			return s.failed(ctx, result, err)
		}
		result.Status = domain.ExecutionStatusExecuted
		result.TaskID = &id
		result.Message = fmt.Sprintf("task %q created", p.Title)

	case domain.AppointmentPayload:
		title := deref(p.Title)
		if title == "" {
			title = appointmentTitle(p)
		}
		duration := domain.DefaultAppointmentMinutes
		if p.DurationMinutes != nil {
			duration = *p.DurationMinutes
		}
		id, err := s.items.CreateAppointment(ctx, domain.NewAppointment{
			TenantID:        in.TenantID,
			UserID:          in.UserID,
			Title:           title,
			CustomerID:      resolvedID(resolved, domain.EntityKindCustomer),
			CustomerName:    p.CustomerName,
			Date:            p.Date,
			Time:            p.Time,
			DurationMinutes: duration,
			Type:            p.Type,
		})
		if err != nil {
			return s.failed(ctx, result, err)
		}
		result.Status = domain.ExecutionStatusExecuted
		result.AppointmentID = &id
		result.Message = fmt.Sprintf("appointment on %s at %s created", p.Date, p.Time)

	default:
		return s.failed(ctx, result, fmt.Errorf("%w: unsupported action %q", domain.ErrExecutionFailed, in.Intent.Action))
	}

	s.log.InfoContext(ctx, "intent executed",
		slog.String("action", result.Action.String()),
		slog.String("tenant_id", in.TenantID.String()),
		slog.Bool("forced", in.ForceExecute),
	)
	return result
}

// resolveHints resolves all hints concurrently. A hint resolves when exactly
// one candidate reaches the match threshold.
func (s *Service) resolveHints(ctx context.Context, tenantID uuid.UUID, hints []hint) []resolution {
	out := make([]resolution, len(hints))
	if len(hints) == 0 {
		return out
	}

	// Workers record failures in out, so one failed hint never cancels the others.
	var g errgroup.Group
	for i, h := range hints {
		g.Go(func() error {
			out[i] = resolution{hint: h}
			match, err := s.resolver.MatchByHint(ctx, h.text, tenantID, h.kind)
			if err != nil {
				out[i].err = err
				return nil
			}
			out[i].match = match
			out[i].id = s.accepted(match)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// accepted returns the id of the only candidate at or above the threshold.
func (s *Service) accepted(match *domain.EntityMatch) *uuid.UUID {
	var id *uuid.UUID
	for _, c := range match.Candidates {
		if c.Score < s.matchThreshold {
			continue
		}
		if id != nil {
			return nil
		}
		cid := c.ID
		id = &cid
	}
	return id
}

func (s *Service) failed(ctx context.Context, result domain.ExecutionResult, err error) domain.ExecutionResult {
	s.log.WarnContext(ctx, "intent execution failed",
		slog.String("action", result.Action.String()),
		slog.String("error", err.Error()),
	)
	result.Status = domain.ExecutionStatusFailed
	result.Message = err.Error()
	return result
}

func needsConfirmation(result domain.ExecutionResult, reason, message string) domain.ExecutionResult {
	result.Status = domain.ExecutionStatusNeedsConfirmation
	result.NeedsConfirmationReason = &reason
	result.Message = message
	return result
}

// payloadHints lists the entity references of a payload.
func payloadHints(p domain.IntentPayload) []hint {
	switch p := p.(type) {
	case domain.TaskPayload:
		if text := deref(p.ProjectHint); text != "" {
			return []hint{{kind: domain.EntityKindProject, text: text}}
		}
	case domain.AppointmentPayload:
		if text := deref(p.CustomerName); text != "" {
			return []hint{{kind: domain.EntityKindCustomer, text: text}}
		}
	}
	return nil
}

func ambiguityDetails(r resolution) map[string]any {
	details := map[string]any{
		"entity": r.hint.kind.String(),
		"hint":   r.hint.text,
	}
	candidates := []map[string]any{}
	if r.match != nil {
		for _, c := range r.match.Candidates {
			candidates = append(candidates, map[string]any{
				"id":    c.ID.String(),
				"label": c.Label,
				"score": c.Score,
			})
		}
	}
	details["candidates"] = candidates
	if r.err != nil {
		details["error"] = r.err.Error()
	}
	return details
}

func resolvedID(resolved []resolution, kind domain.EntityKind) *uuid.UUID {
	for _, r := range resolved {
		if r.hint.kind == kind {
			return r.id
		}
	}
	return nil
}

func appointmentTitle(p domain.AppointmentPayload) string {
	label := string(p.Type)
	if name := deref(p.CustomerName); name != "" {
		return label + ": " + name
	}
	return label
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
