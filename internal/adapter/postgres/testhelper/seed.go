package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// MemberOption adjusts the tenant settings created by SeedMember.
type MemberOption func(*domain.TenantMembership)

// WithVoiceCapture sets voice_capture_enabled.
func WithVoiceCapture(enabled bool) MemberOption {
	return func(m *domain.TenantMembership) { m.VoiceCaptureEnabled = enabled }
}

// WithAutoExecute sets auto_execute_enabled.
func WithAutoExecute(enabled bool) MemberOption {
	return func(m *domain.TenantMembership) { m.AutoExecuteEnabled = enabled }
}

// SeedMember creates a tenant, its settings and one user in it.
// Voice capture is enabled and auto-execute disabled unless overridden.
func SeedMember(t *testing.T, pool *pgxpool.Pool, opts ...MemberOption) domain.TenantMembership {
	t.Helper()
	ctx := context.Background()

	m := domain.TenantMembership{
		UserID:              uuid.New(),
		TenantID:            uuid.New(),
		VoiceCaptureEnabled: true,
	}
	for _, opt := range opts {
		opt(&m)
	}

	suffix := uniqueSuffix()

	if _, err := pool.Exec(ctx,
		`INSERT INTO tenants (id, name) VALUES ($1, $2)`,
		m.TenantID, "Tenant "+suffix,
	); err != nil {
		t.Fatalf("testhelper: SeedMember insert tenant: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO tenant_settings (tenant_id, voice_capture_enabled, auto_execute_enabled) VALUES ($1, $2, $3)`,
		m.TenantID, m.VoiceCaptureEnabled, m.AutoExecuteEnabled,
	); err != nil {
		t.Fatalf("testhelper: SeedMember insert tenant_settings: %v", err)
	}

	SeedUser(t, pool, m.TenantID, m.UserID)

	return m
}

// SeedUser inserts a user with id into an existing tenant.
func SeedUser(t *testing.T, pool *pgxpool.Pool, tenantID, userID uuid.UUID) {
	t.Helper()

	suffix := uniqueSuffix()
	if _, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, tenant_id, email, name) VALUES ($1, $2, $3, $4)`,
		userID, tenantID, "user-"+suffix+"@example.com", "User "+suffix,
	); err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
}

// SeedDeviceToken stores a device token for the member with the given hash.
func SeedDeviceToken(t *testing.T, pool *pgxpool.Pool, m domain.TenantMembership, hash string, scopes []string, expiresAt time.Time) domain.DeviceToken {
	t.Helper()

	token := domain.DeviceToken{
		ID:        uuid.New(),
		UserID:    m.UserID,
		TenantID:  m.TenantID,
		Name:      "test device",
		TokenHash: hash,
		Scopes:    scopes,
		ExpiresAt: expiresAt.UTC().Truncate(time.Microsecond),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if _, err := pool.Exec(context.Background(),
		`INSERT INTO device_tokens (id, user_id, tenant_id, name, token_hash, scopes, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		token.ID, token.UserID, token.TenantID, token.Name, token.TokenHash, token.Scopes, token.ExpiresAt, token.CreatedAt,
	); err != nil {
		t.Fatalf("testhelper: SeedDeviceToken: %v", err)
	}

	return token
}

// SeedProject creates a project in tenantID.
func SeedProject(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, number, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if _, err := pool.Exec(context.Background(),
		`INSERT INTO projects (id, tenant_id, number, name) VALUES ($1, $2, $3, $4)`,
		id, tenantID, number, name,
	); err != nil {
		t.Fatalf("testhelper: SeedProject: %v", err)
	}
	return id
}

// SeedCustomer creates a customer in tenantID.
func SeedCustomer(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if _, err := pool.Exec(context.Background(),
		`INSERT INTO customers (id, tenant_id, name) VALUES ($1, $2, $3)`,
		id, tenantID, name,
	); err != nil {
		t.Fatalf("testhelper: SeedCustomer: %v", err)
	}
	return id
}

// SeedInboxEntry inserts a captured inbox entry for m with a random
// idempotency key.
func SeedInboxEntry(t *testing.T, pool *pgxpool.Pool, m domain.TenantMembership, text string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if _, err := pool.Exec(context.Background(),
		`INSERT INTO inbox_entries (id, tenant_id, user_id, source, idempotency_key, input_text, status)
		 VALUES ($1, $2, $3, 'shortcut', $4, $5, 'captured')`,
		id, m.TenantID, m.UserID, "key-"+uniqueSuffix(), text,
	); err != nil {
		t.Fatalf("testhelper: SeedInboxEntry: %v", err)
	}
	return id
}
