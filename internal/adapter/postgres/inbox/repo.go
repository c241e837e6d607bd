// Package inbox implements the voice command inbox using PostgreSQL.
// Entries are unique per (tenant, idempotency key).
package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// ConstraintTenantKey is the unique constraint over (tenant_id, idempotency_key).
const ConstraintTenantKey = "inbox_entries_tenant_key_uniq"

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Repo provides inbox entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
	sb sq.StatementBuilderType
}

// New creates a new inbox repository.
func New(db postgres.Querier) *Repo {
	return &Repo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var columns = []string{
	"id", "tenant_id", "user_id", "token_id", "source", "locale",
	"idempotency_key", "input_text", "context_hints", "status",
	"intent_version", "intent_payload", "confidence",
	"execution_action", "execution_result", "error_message", "needs_confirmation_reason",
	"execution_attempts", "last_executed_at", "executed_task_id", "executed_appointment_id",
	"confirmed_by_user_id", "confirmed_at", "discarded_by_user_id", "discarded_at",
	"created_at", "updated_at",
}

const returningColumns = `id, tenant_id, user_id, token_id, source, locale,
	idempotency_key, input_text, context_hints, status,
	intent_version, intent_payload, confidence,
	execution_action, execution_result, error_message, needs_confirmation_reason,
	execution_attempts, last_executed_at, executed_task_id, executed_appointment_id,
	confirmed_by_user_id, confirmed_at, discarded_by_user_id, discarded_at,
	created_at, updated_at`

const insertSQL = `
INSERT INTO inbox_entries (id, tenant_id, user_id, token_id, source, locale,
	idempotency_key, input_text, context_hints, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
RETURNING ` + returningColumns

const getByKeySQL = `
SELECT ` + returningColumns + `
FROM inbox_entries
WHERE tenant_id = $1 AND idempotency_key = $2`

const getByIDSQL = `
SELECT ` + returningColumns + `
FROM inbox_entries
WHERE id = $1 AND tenant_id = $2`

const getForUpdateSQL = getByIDSQL + `
FOR UPDATE`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CaptureOrFetch inserts entry with status captured. If an entry with the
// same tenant and idempotency key already exists, that entry is returned
// unchanged and created is false. It must not run inside a transaction:
// the failed insert would abort it before the fetch.
func (r *Repo) CaptureOrFetch(ctx context.Context, entry *domain.InboxEntry) (*domain.InboxEntry, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	hints := entry.ContextHints
	if hints == nil {
		hints = map[string]string{}
	}
	hintsJSON, err := json.Marshal(hints)
	if err != nil {
		return nil, false, fmt.Errorf("inbox_entry marshal context hints: %w", err)
	}

	row := q.QueryRow(ctx, insertSQL,
		entry.ID,
		entry.TenantID,
		entry.UserID,
		entry.TokenID,
		string(entry.Source),
		entry.Locale,
		entry.IdempotencyKey,
		entry.InputText,
		hintsJSON,
		string(domain.InboxStatusCaptured),
		time.Now().UTC(),
	)

	created, err := scanEntry(row)
	if err == nil {
		return created, true, nil
	}
	if !postgres.IsUniqueViolation(err, ConstraintTenantKey) {
		return nil, false, postgres.MapError(err, "inbox_entry", entry.IdempotencyKey)
	}

	existing, err := scanEntry(q.QueryRow(ctx, getByKeySQL, entry.TenantID, entry.IdempotencyKey))
	if err != nil {
		return nil, false, postgres.MapError(err, "inbox_entry", entry.IdempotencyKey)
	}
	return existing, false, nil
}

// Update applies the set fields of upd to the entry and returns the stored row.
// Returns domain.ErrNotFound if the entry does not exist in the tenant.
func (r *Repo) Update(ctx context.Context, tenantID, id uuid.UUID, upd domain.InboxEntryUpdate) (*domain.InboxEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := r.sb.Update("inbox_entries").Set("updated_at", time.Now().UTC())

	if upd.Status.Set {
		b = b.Set("status", string(upd.Status.V))
	}
	if upd.InputText.Set {
		b = b.Set("input_text", upd.InputText.V)
	}
	if upd.IntentVersion.Set {
		b = b.Set("intent_version", upd.IntentVersion.V)
	}
	if upd.IntentPayload.Set {
		b = b.Set("intent_payload", nullableJSON(upd.IntentPayload.V))
	}
	if upd.Confidence.Set {
		b = b.Set("confidence", upd.Confidence.V)
	}
	if upd.ExecutionAction.Set {
		var action *string
		if upd.ExecutionAction.V != nil {
			s := string(*upd.ExecutionAction.V)
			action = &s
		}
		b = b.Set("execution_action", action)
	}
	if upd.ExecutionResult.Set {
		b = b.Set("execution_result", nullableJSON(upd.ExecutionResult.V))
	}
	if upd.ErrorMessage.Set {
		b = b.Set("error_message", upd.ErrorMessage.V)
	}
	if upd.NeedsConfirmationReason.Set {
		b = b.Set("needs_confirmation_reason", upd.NeedsConfirmationReason.V)
	}
	if upd.LastExecutedAt.Set {
		b = b.Set("last_executed_at", upd.LastExecutedAt.V)
	}
	if upd.ExecutedTaskID.Set {
		b = b.Set("executed_task_id", upd.ExecutedTaskID.V)
	}
	if upd.ExecutedAppointmentID.Set {
		b = b.Set("executed_appointment_id", upd.ExecutedAppointmentID.V)
	}
	if upd.ConfirmedByUserID.Set {
		b = b.Set("confirmed_by_user_id", upd.ConfirmedByUserID.V)
	}
	if upd.ConfirmedAt.Set {
		b = b.Set("confirmed_at", upd.ConfirmedAt.V)
	}
	if upd.DiscardedByUserID.Set {
		b = b.Set("discarded_by_user_id", upd.DiscardedByUserID.V)
	}
	if upd.DiscardedAt.Set {
		b = b.Set("discarded_at", upd.DiscardedAt.V)
	}
	if upd.IncrementAttempts {
		b = b.Set("execution_attempts", sq.Expr("execution_attempts + 1"))
	}

	query, args, err := b.
		Where(sq.Eq{"id": id, "tenant_id": tenantID}).
		Suffix("RETURNING " + returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update inbox_entry: %w", err)
	}

	entry, err := scanEntry(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "inbox_entry", id)
	}
	return entry, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an entry by primary key within a tenant.
// Returns domain.ErrNotFound if the entry does not exist or belongs to another tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	entry, err := scanEntry(q.QueryRow(ctx, getByIDSQL, id, tenantID))
	if err != nil {
		return nil, postgres.MapError(err, "inbox_entry", id)
	}
	return entry, nil
}

// GetForUpdate is GetByID with the row locked until the caller's
// transaction ends. Outside a transaction the lock is released immediately.
func (r *Repo) GetForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	entry, err := scanEntry(q.QueryRow(ctx, getForUpdateSQL, id, tenantID))
	if err != nil {
		return nil, postgres.MapError(err, "inbox_entry", id)
	}
	return entry, nil
}

// ListByUser returns a user's entries newest first, plus the total count
// matching the filter.
func (r *Repo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, f domain.InboxFilter) ([]*domain.InboxEntry, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset := max(f.Offset, 0)

	where := sq.Eq{"tenant_id": tenantID, "user_id": userID}
	if f.Status != nil {
		where["status"] = string(*f.Status)
	}

	countQuery, countArgs, err := r.sb.Select("count(*)").From("inbox_entries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count inbox_entries: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inbox_entries: %w", err)
	}

	query, args, err := r.sb.Select(columns...).
		From("inbox_entries").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list inbox_entries: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inbox_entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.InboxEntry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inbox_entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list inbox_entries: %w", err)
	}

	return entries, total, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.InboxEntry, error) {
	var (
		e         domain.InboxEntry
		source    string
		status    string
		hints     []byte
		payload   []byte
		action    *string
		execution []byte
	)

	err := row.Scan(
		&e.ID, &e.TenantID, &e.UserID, &e.TokenID, &source, &e.Locale,
		&e.IdempotencyKey, &e.InputText, &hints, &status,
		&e.IntentVersion, &payload, &e.Confidence,
		&action, &execution, &e.ErrorMessage, &e.NeedsConfirmationReason,
		&e.ExecutionAttempts, &e.LastExecutedAt, &e.ExecutedTaskID, &e.ExecutedAppointmentID,
		&e.ConfirmedByUserID, &e.ConfirmedAt, &e.DiscardedByUserID, &e.DiscardedAt,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Source = domain.CommandSource(source)
	e.Status = domain.InboxStatus(status)
	if action != nil {
		a := domain.IntentAction(*action)
		e.ExecutionAction = &a
	}
	if len(payload) > 0 {
		e.IntentPayload = json.RawMessage(payload)
	}
	if len(execution) > 0 {
		e.ExecutionResult = json.RawMessage(execution)
	}
	e.ContextHints = map[string]string{}
	if len(hints) > 0 {
		if err := json.Unmarshal(hints, &e.ContextHints); err != nil {
			return nil, fmt.Errorf("inbox_entry %s unmarshal context hints: %w", e.ID, err)
		}
	}

	return &e, nil
}

// nullableJSON maps an empty document to SQL NULL.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
