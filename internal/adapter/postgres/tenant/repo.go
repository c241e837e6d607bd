// Package tenant resolves users to their tenant and its voice feature flags.
package tenant

import (
	"context"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Repo reads tenant membership backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tenant repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Tenants without a settings row get the column defaults: capture on, auto-execute off.
const getMembershipSQL = `
SELECT u.id, u.tenant_id,
       COALESCE(s.voice_capture_enabled, true),
       COALESCE(s.auto_execute_enabled, false)
FROM users u
LEFT JOIN tenant_settings s ON s.tenant_id = u.tenant_id
WHERE u.id = $1`

// GetMembership returns the user's tenant and its feature flags.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) GetMembership(ctx context.Context, userID uuid.UUID) (*domain.TenantMembership, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var m domain.TenantMembership
	err := q.QueryRow(ctx, getMembershipSQL, userID).Scan(
		&m.UserID,
		&m.TenantID,
		&m.VoiceCaptureEnabled,
		&m.AutoExecuteEnabled,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", userID)
	}

	return &m, nil
}
