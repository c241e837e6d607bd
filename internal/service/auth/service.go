// Package auth resolves voice credentials to a tenant-scoped identity and
// manages device tokens.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/auth"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// tokenRepo defines the device token repository interface needed by auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*domain.DeviceToken, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	Revoke(ctx context.Context, id uuid.UUID) (*domain.DeviceToken, error)
}

// membershipRepo resolves a user to their tenant.
type membershipRepo interface {
	GetMembership(ctx context.Context, userID uuid.UUID) (*domain.TenantMembership, error)
}

// tokenHasher computes and mints device token secrets.
type tokenHasher interface {
	Hash(raw string) string
	GenerateDeviceToken() (raw string, hash string, err error)
}

// sessionValidator validates web-session JWTs.
type sessionValidator interface {
	ValidateSessionToken(token string) (auth.SessionClaims, error)
}

// Service implements credential authentication and device token management.
type Service struct {
	log         *slog.Logger
	tokens      tokenRepo
	memberships membershipRepo
	hasher      tokenHasher
	sessions    sessionValidator // nil when web sessions are disabled
	cfg         config.AuthConfig
	now         func() time.Time
}

// NewService creates a new auth service instance. sessions may be nil, in
// which case only device tokens are accepted.
func NewService(
	logger *slog.Logger,
	tokens tokenRepo,
	memberships membershipRepo,
	hasher tokenHasher,
	sessions sessionValidator,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "auth"),
		tokens:      tokens,
		memberships: memberships,
		hasher:      hasher,
		sessions:    sessions,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}
