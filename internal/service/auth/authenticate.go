package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/auth"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Authenticate resolves a raw bearer credential to the identity it grants.
//
// Device tokens are looked up by keyed hash. Missing, malformed or unknown
// credentials yield domain.ErrUnauthorized; revoked, expired or out-of-scope
// tokens yield domain.ErrForbidden. Any other credential is validated as a
// web-session JWT when sessions are enabled.
func (s *Service) Authenticate(ctx context.Context, credential string) (*domain.TokenContext, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("auth.Authenticate: missing credential: %w", domain.ErrUnauthorized)
	}

	if !auth.IsDeviceToken(credential) {
		return s.authenticateSession(credential)
	}

	token, err := s.tokens.GetByHash(ctx, s.hasher.Hash(credential))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("auth.Authenticate: unknown token: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.Authenticate get token: %w", err)
	}

	now := s.now()
	switch {
	case token.IsRevoked():
		return nil, fmt.Errorf("auth.Authenticate: token revoked: %w", domain.ErrForbidden)
	case token.IsExpired(now):
		return nil, fmt.Errorf("auth.Authenticate: token expired: %w", domain.ErrForbidden)
	case !token.HasScope(s.cfg.RequiredScope):
		return nil, fmt.Errorf("auth.Authenticate: missing scope %s: %w", s.cfg.RequiredScope, domain.ErrForbidden)
	}

	if err := s.tokens.TouchLastUsed(ctx, token.ID, now); err != nil {
		s.log.WarnContext(ctx, "touch device token failed",
			slog.String("token_id", token.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	tokenID := token.ID
	return &domain.TokenContext{
		TokenID:  &tokenID,
		UserID:   token.UserID,
		TenantID: token.TenantID,
	}, nil
}

func (s *Service) authenticateSession(credential string) (*domain.TokenContext, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("auth.Authenticate: malformed credential: %w", domain.ErrUnauthorized)
	}

	claims, err := s.sessions.ValidateSessionToken(credential)
	if err != nil {
		return nil, fmt.Errorf("auth.Authenticate session: %v: %w", err, domain.ErrUnauthorized)
	}
	if claims.UserID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, fmt.Errorf("auth.Authenticate: session without identity: %w", domain.ErrUnauthorized)
	}
	if !slices.Contains(claims.Scopes, s.cfg.RequiredScope) {
		return nil, fmt.Errorf("auth.Authenticate: session missing scope %s: %w", s.cfg.RequiredScope, domain.ErrForbidden)
	}

	return &domain.TokenContext{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
	}, nil
}
