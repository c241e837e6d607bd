package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// IssueDeviceToken mints a device token for a user in the user's tenant.
// Only the keyed hash is stored.
func (s *Service) IssueDeviceToken(ctx context.Context, input IssueTokenInput) (*IssuedToken, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	membership, err := s.memberships.GetMembership(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth.IssueDeviceToken get membership: %w", err)
	}

	scopes := input.Scopes
	if len(scopes) == 0 {
		scopes = []string{s.cfg.RequiredScope}
	}
	ttl := input.TTL
	if ttl == 0 {
		ttl = s.cfg.DeviceTokenTTL
	}

	raw, hash, err := s.hasher.GenerateDeviceToken()
	if err != nil {
		return nil, fmt.Errorf("auth.IssueDeviceToken generate: %w", err)
	}

	token, err := s.tokens.Create(ctx, &domain.DeviceToken{
		ID:        uuid.New(),
		UserID:    membership.UserID,
		TenantID:  membership.TenantID,
		Name:      strings.TrimSpace(input.Name),
		TokenHash: hash,
		Scopes:    scopes,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("auth.IssueDeviceToken store: %w", err)
	}

	s.log.InfoContext(ctx, "device token issued",
		slog.String("token_id", token.ID.String()),
		slog.String("user_id", token.UserID.String()),
		slog.String("tenant_id", token.TenantID.String()),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return &IssuedToken{Raw: raw, Token: token}, nil
}

// RevokeDeviceToken revokes a token. Revoking an already revoked token is a no-op.
func (s *Service) RevokeDeviceToken(ctx context.Context, tokenID uuid.UUID) (*domain.DeviceToken, error) {
	if tokenID == uuid.Nil {
		return nil, domain.NewValidationError("token_id", "required")
	}

	token, err := s.tokens.Revoke(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("auth.RevokeDeviceToken: %w", err)
	}

	s.log.InfoContext(ctx, "device token revoked",
		slog.String("token_id", token.ID.String()),
		slog.String("user_id", token.UserID.String()),
	)
	return token, nil
}
