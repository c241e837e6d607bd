// Package devicetoken implements the DeviceToken repository using PostgreSQL.
package devicetoken

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Repo provides device-token persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new device token repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const tokenColumns = `id, user_id, tenant_id, name, token_hash, scopes, expires_at, revoked_at, last_used_at, created_at`

const createSQL = `
INSERT INTO device_tokens (id, user_id, tenant_id, name, token_hash, scopes, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + tokenColumns

const getByHashSQL = `
SELECT ` + tokenColumns + `
FROM device_tokens
WHERE token_hash = $1`

const touchSQL = `
UPDATE device_tokens SET last_used_at = $2 WHERE id = $1`

const revokeSQL = `
UPDATE device_tokens
SET revoked_at = COALESCE(revoked_at, now())
WHERE id = $1
RETURNING ` + tokenColumns

const revokeExpiredSQL = `
UPDATE device_tokens
SET revoked_at = $1
WHERE expires_at < $1 AND revoked_at IS NULL`

// Create inserts a new device token. The raw secret never reaches this layer.
func (r *Repo) Create(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	scopes := token.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	row := q.QueryRow(ctx, createSQL,
		token.ID,
		token.UserID,
		token.TenantID,
		token.Name,
		token.TokenHash,
		scopes,
		token.ExpiresAt.UTC(),
		time.Now().UTC().Truncate(time.Microsecond),
	)

	created, err := scanToken(row)
	if err != nil {
		return nil, postgres.MapError(err, "device_token", token.ID)
	}

	return created, nil
}

// GetByHash returns the token stored under hash regardless of its state;
// revocation, expiry and scope are the caller's decisions.
// Returns domain.ErrNotFound if no token has that hash.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.DeviceToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	token, err := scanToken(q.QueryRow(ctx, getByHashSQL, tokenHash))
	if err != nil {
		return nil, postgres.MapError(err, "device_token", nil)
	}

	return token, nil
}

// TouchLastUsed sets last_used_at for a token.
func (r *Repo) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, touchSQL, id, at.UTC())
	if err != nil {
		return postgres.MapError(err, "device_token", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("device_token %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Revoke stamps revoked_at. Idempotent: the first revocation time is kept.
func (r *Repo) Revoke(ctx context.Context, id uuid.UUID) (*domain.DeviceToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	token, err := scanToken(q.QueryRow(ctx, revokeSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "device_token", id)
	}

	return token, nil
}

// RevokeExpired stamps revoked_at on every unrevoked token whose expiry is
// before now and returns how many were revoked. Rows are never deleted:
// inbox entries keep referencing the token that captured them.
func (r *Repo) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, revokeExpiredSQL, now.UTC().Truncate(time.Microsecond))
	if err != nil {
		return 0, postgres.MapError(err, "device_token", nil)
	}

	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*domain.DeviceToken, error) {
	var t domain.DeviceToken
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.TenantID,
		&t.Name,
		&t.TokenHash,
		&t.Scopes,
		&t.ExpiresAt,
		&t.RevokedAt,
		&t.LastUsedAt,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
