// Package voice orchestrates the voice command pipeline: capture into the
// inbox, background interpretation and execution, and the confirm, retry and
// discard transitions that re-enter it.
package voice

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/execution"
	"github.com/heartmarshall/voicecommand-backend/internal/service/interpret"
)

const maxEventsPerEntry = 100

type authenticator interface {
	Authenticate(ctx context.Context, credential string) (*domain.TokenContext, error)
}

type membershipRepo interface {
	GetMembership(ctx context.Context, userID uuid.UUID) (*domain.TenantMembership, error)
}

type inboxRepo interface {
	CaptureOrFetch(ctx context.Context, entry *domain.InboxEntry) (*domain.InboxEntry, bool, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, upd domain.InboxEntryUpdate) (*domain.InboxEntry, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error)
	// GetForUpdate is GetByID holding a row lock until the surrounding tx ends.
	GetForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, f domain.InboxFilter) ([]*domain.InboxEntry, int, error)
}

type eventLog interface {
	Append(ctx context.Context, event domain.InboxEvent) error
	ListByEntry(ctx context.Context, tenantID, entryID uuid.UUID, limit int) ([]domain.InboxEvent, error)
}

type interpreter interface {
	Interpret(ctx context.Context, input interpret.Input) (*domain.Intent, json.RawMessage, error)
	Decode(raw json.RawMessage) (*domain.Intent, error)
}

type executor interface {
	Execute(ctx context.Context, in execution.Input) domain.ExecutionResult
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs the voice command pipeline.
type Service struct {
	log         *slog.Logger
	auth        authenticator
	memberships membershipRepo
	inbox       inboxRepo
	events      eventLog
	interpreter interpreter
	executor    executor
	tx          txManager
	cfg         config.VoiceConfig
	now         func() time.Time

	wg sync.WaitGroup
}

// NewService creates a new voice pipeline service.
func NewService(
	logger *slog.Logger,
	auth authenticator,
	memberships membershipRepo,
	inbox inboxRepo,
	events eventLog,
	interpreter interpreter,
	executor executor,
	tx txManager,
	cfg config.VoiceConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "voice"),
		auth:        auth,
		memberships: memberships,
		inbox:       inbox,
		events:      events,
		interpreter: interpreter,
		executor:    executor,
		tx:          tx,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Wait blocks until every background pipeline run started by Capture has
// finished. Call it during shutdown after the HTTP server stopped accepting
// requests.
func (s *Service) Wait() {
	s.wg.Wait()
}

// record appends an audit event. Failures are logged and otherwise ignored.
func (s *Service) record(ctx context.Context, entry *domain.InboxEntry, actorID *uuid.UUID, event string, details map[string]any) {
	err := s.events.Append(ctx, domain.InboxEvent{
		EntryID:  entry.ID,
		TenantID: entry.TenantID,
		ActorID:  actorID,
		Event:    event,
		Status:   entry.Status,
		Details:  details,
	})
	if err != nil {
		s.log.WarnContext(ctx, "audit event not recorded",
			slog.String("entry_id", entry.ID.String()),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50])
	}
	return s
}
