package voice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Confirm executes an entry on the user's behalf, skipping the automatic
// gates. Edited text replaces the captured text and is interpreted again;
// otherwise the stored intent is reused.
func (s *Service) Confirm(ctx context.Context, input ConfirmInput) (*ActionResult, error) {
	c, err := s.authorize(ctx, input.Credential)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(s.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	entry, err := s.openEntry(ctx, c, input.EntryID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entry, c.userID(), domain.InboxEventConfirmed, editDetails(input.EditedText))

	updated, result, err := s.run(ctx, entry, runOptions{
		actorID:    c.userID(),
		force:      true,
		editedText: input.EditedText,
		confirmed:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("confirm entry: %w", err)
	}

	s.log.InfoContext(ctx, "entry confirmed",
		slog.String("entry_id", updated.ID.String()),
		slog.String("user_id", c.token.UserID.String()),
		slog.String("status", updated.Status.String()),
	)
	return &ActionResult{Entry: updated, Execution: result}, nil
}

// Retry runs an entry through the gated pipeline again with the tenant's
// current settings.
func (s *Service) Retry(ctx context.Context, input RetryInput) (*ActionResult, error) {
	c, err := s.authorize(ctx, input.Credential)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(s.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	entry, err := s.openEntry(ctx, c, input.EntryID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entry, c.userID(), domain.InboxEventRetried, editDetails(input.EditedText))

	updated, result, err := s.run(ctx, entry, runOptions{
		actorID:     c.userID(),
		autoExecute: c.membership.AutoExecuteEnabled,
		editedText:  input.EditedText,
	})
	if err != nil {
		return nil, fmt.Errorf("retry entry: %w", err)
	}

	s.log.InfoContext(ctx, "entry retried",
		slog.String("entry_id", updated.ID.String()),
		slog.String("user_id", c.token.UserID.String()),
		slog.String("status", updated.Status.String()),
	)
	return &ActionResult{Entry: updated, Execution: result}, nil
}

// Discard moves a non-terminal entry to discarded. The entry row stays
// locked from the status check until the update commits.
func (s *Service) Discard(ctx context.Context, input DiscardInput) (*domain.InboxEntry, error) {
	c, err := s.authorize(ctx, input.Credential)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var discarded *domain.InboxEntry
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		entry, err := s.lockOpenEntry(ctx, c, input.EntryID)
		if err != nil {
			return err
		}

		now := s.now()
		discarded, err = s.inbox.Update(ctx, entry.TenantID, entry.ID, domain.InboxEntryUpdate{
			Status:            domain.Some(domain.InboxStatusDiscarded),
			DiscardedByUserID: domain.Some(c.userID()),
			DiscardedAt:       domain.Some(&now),
		})
		if err != nil {
			return fmt.Errorf("discard inbox entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entry discarded",
		slog.String("entry_id", discarded.ID.String()),
		slog.String("user_id", c.token.UserID.String()),
	)
	s.record(ctx, discarded, c.userID(), domain.InboxEventDiscarded, nil)

	return discarded, nil
}

func editDetails(editedText *string) map[string]any {
	if editedText == nil {
		return nil
	}
	return map[string]any{"edited": true, "text": preview(*editedText)}
}
