package voice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// GetEntry returns one entry of the caller's tenant.
func (s *Service) GetEntry(ctx context.Context, credential string, entryID uuid.UUID) (*domain.InboxEntry, error) {
	c, err := s.authorize(ctx, credential)
	if err != nil {
		return nil, err
	}
	if entryID == uuid.Nil {
		return nil, domain.NewValidationError("entry_id", "required")
	}

	entry, err := s.inbox.GetByID(ctx, c.token.TenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("get inbox entry: %w", err)
	}
	return entry, nil
}

// ListEntries returns the caller's entries newest first and the total
// number of entries matching the filter.
func (s *Service) ListEntries(ctx context.Context, input ListInput) ([]*domain.InboxEntry, int, error) {
	c, err := s.authorize(ctx, input.Credential)
	if err != nil {
		return nil, 0, err
	}
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.inbox.ListByUser(ctx, c.token.TenantID, c.token.UserID, domain.InboxFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list inbox entries: %w", err)
	}
	return entries, total, nil
}

// ListEvents returns the audit trail of one entry, oldest first.
func (s *Service) ListEvents(ctx context.Context, credential string, entryID uuid.UUID) ([]domain.InboxEvent, error) {
	entry, err := s.GetEntry(ctx, credential, entryID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByEntry(ctx, entry.TenantID, entry.ID, maxEventsPerEntry)
	if err != nil {
		return nil, fmt.Errorf("list inbox events: %w", err)
	}
	return events, nil
}
