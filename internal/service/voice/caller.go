package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// caller is an authenticated identity together with its tenant snapshot.
type caller struct {
	token      *domain.TokenContext
	membership *domain.TenantMembership
}

func (c *caller) userID() *uuid.UUID {
	id := c.token.UserID
	return &id
}

// authorize authenticates credential and checks that the credential's tenant
// is the user's tenant.
func (s *Service) authorize(ctx context.Context, credential string) (*caller, error) {
	tc, err := s.auth.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.GetMembership(ctx, tc.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user has no tenant", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	if m.TenantID != tc.TenantID {
		s.log.WarnContext(ctx, "credential tenant mismatch",
			slog.String("user_id", tc.UserID.String()),
			slog.String("token_tenant_id", tc.TenantID.String()),
			slog.String("user_tenant_id", m.TenantID.String()),
		)
		return nil, fmt.Errorf("%w: credential does not belong to the user's tenant", domain.ErrForbidden)
	}

	return &caller{token: tc, membership: m}, nil
}

// openEntry loads an entry of the caller's tenant that may still change.
// Terminal entries yield domain.ErrConflict.
func (s *Service) openEntry(ctx context.Context, c *caller, id uuid.UUID) (*domain.InboxEntry, error) {
	entry, err := s.inbox.GetByID(ctx, c.token.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get inbox entry: %w", err)
	}
	return ensureOpen(entry)
}

// lockOpenEntry is openEntry with the row locked. It must run inside RunInTx.
func (s *Service) lockOpenEntry(ctx context.Context, c *caller, id uuid.UUID) (*domain.InboxEntry, error) {
	entry, err := s.inbox.GetForUpdate(ctx, c.token.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("lock inbox entry: %w", err)
	}
	return ensureOpen(entry)
}

func ensureOpen(entry *domain.InboxEntry) (*domain.InboxEntry, error) {
	if entry.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: entry is already %s", domain.ErrConflict, entry.Status)
	}
	return entry, nil
}
