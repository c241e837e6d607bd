// Package workitem persists the business objects voice commands create
// (tasks, appointments) and lists the entities hints resolve against.
package workitem

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// Repo provides task, appointment and entity lookup persistence.
type Repo struct {
	db postgres.Querier
	sb sq.StatementBuilderType
}

// New creates a new work item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Dates and times arrive as validated YYYY-MM-DD / HH:MM strings; the casts
// let PostgreSQL parse them.
const createTaskSQL = `
INSERT INTO tasks (id, tenant_id, created_by, project_id, title, description, priority, due_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::date, $9)`

const createAppointmentSQL = `
INSERT INTO appointments (id, tenant_id, created_by, customer_id, customer_name, title, starts_on, starts_at, duration_minutes, type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::text::date, $8::text::time, $9, $10, $11)`

// CreateTask inserts a task and returns its id.
func (r *Repo) CreateTask(ctx context.Context, t domain.NewTask) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	priority := t.Priority
	if priority == "" {
		priority = domain.TaskPriorityNormal
	}

	id := uuid.New()
	_, err := q.Exec(ctx, createTaskSQL,
		id,
		t.TenantID,
		t.UserID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(priority),
		t.DueDate,
		time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "task", id)
	}

	return id, nil
}

// CreateAppointment inserts an appointment and returns its id.
func (r *Repo) CreateAppointment(ctx context.Context, a domain.NewAppointment) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	duration := a.DurationMinutes
	if duration <= 0 {
		duration = domain.DefaultAppointmentMinutes
	}

	id := uuid.New()
	_, err := q.Exec(ctx, createAppointmentSQL,
		id,
		a.TenantID,
		a.UserID,
		a.CustomerID,
		a.CustomerName,
		a.Title,
		a.Date,
		a.Time,
		duration,
		string(a.Type),
		time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "appointment", id)
	}

	return id, nil
}

// ListEntityRefs returns every entity of kind in the tenant.
func (r *Repo) ListEntityRefs(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind) ([]domain.EntityRef, error) {
	var query sq.SelectBuilder
	switch kind {
	case domain.EntityKindProject:
		query = r.sb.Select("id", "number || ' ' || name", "number").
			From("projects").
			Where(sq.Eq{"tenant_id": tenantID}).
			OrderBy("number")
	case domain.EntityKindCustomer:
		query = r.sb.Select("id", "name", "NULL::text").
			From("customers").
			Where(sq.Eq{"tenant_id": tenantID}).
			OrderBy("name")
	default:
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown entity kind %q", kind))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", kind, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s refs: %w", kind, err)
	}
	defer rows.Close()

	var refs []domain.EntityRef
	for rows.Next() {
		var ref domain.EntityRef
		if err := rows.Scan(&ref.ID, &ref.Label, &ref.Code); err != nil {
			return nil, fmt.Errorf("scan %s ref: %w", kind, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s refs: %w", kind, err)
	}

	return refs, nil
}
