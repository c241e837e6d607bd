package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Capture stores a voice command at most once per idempotency key and starts
// its interpretation in the background. A repeated key returns the stored
// entry's current state and does not run the pipeline again.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (*CaptureResult, error) {
	c, err := s.authorize(ctx, input.Credential)
	if err != nil {
		return nil, err
	}
	if !c.membership.VoiceCaptureEnabled {
		return nil, fmt.Errorf("%w: voice capture is disabled for this tenant", domain.ErrForbidden)
	}

	if err := input.Validate(s.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = domain.CommandSourceShortcut
	}
	text := strings.TrimSpace(input.Text)

	entry, created, err := s.inbox.CaptureOrFetch(ctx, &domain.InboxEntry{
		ID:             uuid.New(),
		TenantID:       c.token.TenantID,
		UserID:         c.token.UserID,
		TokenID:        c.token.TokenID,
		Source:         source,
		Locale:         trimOrNil(input.Locale),
		IdempotencyKey: input.IdempotencyKey,
		InputText:      text,
		ContextHints:   input.Hints,
	})
	if err != nil {
		return nil, fmt.Errorf("capture inbox entry: %w", err)
	}

	result := &CaptureResult{
		EntryID:       entry.ID,
		Status:        entry.Status,
		Message:       statusMessage(entry.Status),
		Idempotent:    !created,
		TaskID:        entry.ExecutedTaskID,
		AppointmentID: entry.ExecutedAppointmentID,
	}

	if !created {
		s.log.InfoContext(ctx, "idempotent capture replay",
			slog.String("entry_id", entry.ID.String()),
			slog.String("status", entry.Status.String()),
		)
		return result, nil
	}

	s.log.InfoContext(ctx, "voice command captured",
		slog.String("entry_id", entry.ID.String()),
		slog.String("tenant_id", entry.TenantID.String()),
		slog.String("source", source.String()),
		slog.String("text", preview(text)),
	)
	s.record(ctx, entry, c.userID(), domain.InboxEventCaptured, map[string]any{
		"source": source.String(),
	})

	s.startPipeline(ctx, entry, c.membership.AutoExecuteEnabled)

	return result, nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
