// Package audit implements the append-only inbox event log using PostgreSQL.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Repo provides inbox event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const appendSQL = `
INSERT INTO inbox_events (id, entry_id, tenant_id, actor_id, event, status, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listByEntrySQL = `
SELECT id, entry_id, tenant_id, actor_id, event, status, details, created_at
FROM inbox_events
WHERE entry_id = $1 AND tenant_id = $2
ORDER BY created_at, id
LIMIT $3`

// Append stores one event. ID and CreatedAt are filled in when zero.
func (r *Repo) Append(ctx context.Context, event domain.InboxEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	details := event.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("inbox_event marshal details: %w", err)
	}

	_, err = q.Exec(ctx, appendSQL,
		event.ID,
		event.EntryID,
		event.TenantID,
		event.ActorID,
		event.Event,
		string(event.Status),
		detailsJSON,
		event.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "inbox_event", event.ID)
	}

	return nil
}

// ListByEntry returns an entry's events oldest first, at most limit.
func (r *Repo) ListByEntry(ctx context.Context, tenantID, entryID uuid.UUID, limit int) ([]domain.InboxEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByEntrySQL, entryID, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list inbox_events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.InboxEvent, 0)
	for rows.Next() {
		var (
			e       domain.InboxEvent
			status  string
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.EntryID, &e.TenantID, &e.ActorID, &e.Event, &status, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inbox_event: %w", err)
		}
		e.Status = domain.InboxStatus(status)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("inbox_event %s unmarshal details: %w", e.ID, err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inbox_events: %w", err)
	}

	return events, nil
}
