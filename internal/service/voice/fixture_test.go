package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/execution"
	"github.com/heartmarshall/voicecommand-backend/internal/service/interpret"
)

//go:generate moq -out authenticator_mock_test.go -pkg voice . authenticator
//go:generate moq -out membership_repo_mock_test.go -pkg voice . membershipRepo
//go:generate moq -out inbox_repo_mock_test.go -pkg voice . inboxRepo
//go:generate moq -out event_log_mock_test.go -pkg voice . eventLog
//go:generate moq -out interpreter_mock_test.go -pkg voice . interpreter
//go:generate moq -out executor_mock_test.go -pkg voice . executor
//go:generate moq -out tx_manager_mock_test.go -pkg voice . txManager

const goodCredential = "vdt_good"

var storedIntent = json.RawMessage(`{"version":"v1","action":"create_task"}`)

// fixture wires the service to mocks backed by an in-memory inbox.
type fixture struct {
	svc     *Service
	auth    *authenticatorMock
	members *membershipRepoMock
	inbox   *inboxRepoMock
	events  *eventLogMock
	interp  *interpreterMock
	exec    *executorMock
	tx      *txManagerMock

	token domain.TokenContext

	mu         sync.Mutex
	membership domain.TenantMembership
	entries    map[uuid.UUID]*domain.InboxEntry
	keys       map[string]uuid.UUID
	taskID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID, userID, tokenID := uuid.New(), uuid.New(), uuid.New()
	f := &fixture{
		token: domain.TokenContext{TokenID: &tokenID, UserID: userID, TenantID: tenantID},
		membership: domain.TenantMembership{
			UserID:              userID,
			TenantID:            tenantID,
			VoiceCaptureEnabled: true,
			AutoExecuteEnabled:  true,
		},
		entries: map[uuid.UUID]*domain.InboxEntry{},
		keys:    map[string]uuid.UUID{},
		taskID:  uuid.New(),
	}

	f.auth = &authenticatorMock{
		AuthenticateFunc: func(ctx context.Context, credential string) (*domain.TokenContext, error) {
			if credential != goodCredential {
				return nil, domain.ErrUnauthorized
			}
			tc := f.token
			return &tc, nil
		},
	}
	f.members = &membershipRepoMock{
		GetMembershipFunc: func(ctx context.Context, userID uuid.UUID) (*domain.TenantMembership, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			m := f.membership
			return &m, nil
		},
	}
	f.inbox = &inboxRepoMock{
		CaptureOrFetchFunc: func(ctx context.Context, entry *domain.InboxEntry) (*domain.InboxEntry, bool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			key := entry.TenantID.String() + "/" + entry.IdempotencyKey
			if id, ok := f.keys[key]; ok {
				return copyEntry(f.entries[id]), false, nil
			}
			stored := copyEntry(entry)
			stored.Status = domain.InboxStatusCaptured
			stored.CreatedAt = time.Now().UTC()
			stored.UpdatedAt = stored.CreatedAt
			f.entries[stored.ID] = stored
			f.keys[key] = stored.ID
			return copyEntry(stored), true, nil
		},
		UpdateFunc: func(ctx context.Context, tenantID, id uuid.UUID, upd domain.InboxEntryUpdate) (*domain.InboxEntry, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			e, ok := f.entries[id]
			if !ok || e.TenantID != tenantID {
				return nil, fmt.Errorf("inbox_entry %s: %w", id, domain.ErrNotFound)
			}
			applyUpdate(e, upd)
			return copyEntry(e), nil
		},
		GetByIDFunc: func(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			e, ok := f.entries[id]
			if !ok || e.TenantID != tenantID {
				return nil, fmt.Errorf("inbox_entry %s: %w", id, domain.ErrNotFound)
			}
			return copyEntry(e), nil
		},
		GetForUpdateFunc: func(ctx context.Context, tenantID, id uuid.UUID) (*domain.InboxEntry, error) {
			if ctx.Value(inTxKey{}) == nil {
				return nil, errors.New("row lock taken outside a transaction")
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			e, ok := f.entries[id]
			if !ok || e.TenantID != tenantID {
				return nil, fmt.Errorf("inbox_entry %s: %w", id, domain.ErrNotFound)
			}
			return copyEntry(e), nil
		},
		ListByUserFunc: func(ctx context.Context, tenantID, userID uuid.UUID, filter domain.InboxFilter) ([]*domain.InboxEntry, int, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var out []*domain.InboxEntry
			for _, e := range f.entries {
				if e.TenantID == tenantID && e.UserID == userID {
					out = append(out, copyEntry(e))
				}
			}
			return out, len(out), nil
		},
	}
	f.events = &eventLogMock{
		AppendFunc: func(ctx context.Context, event domain.InboxEvent) error { return nil },
		ListByEntryFunc: func(ctx context.Context, tenantID, entryID uuid.UUID, limit int) ([]domain.InboxEvent, error) {
			return nil, nil
		},
	}
	f.interp = &interpreterMock{
		InterpretFunc: func(ctx context.Context, input interpret.Input) (*domain.Intent, json.RawMessage, error) {
			return testIntent(domain.ConfidenceHigh), storedIntent, nil
		},
		DecodeFunc: func(raw json.RawMessage) (*domain.Intent, error) {
			return testIntent(domain.ConfidenceHigh), nil
		},
	}
	f.exec = &executorMock{
		ExecuteFunc: func(ctx context.Context, in execution.Input) domain.ExecutionResult {
			id := f.taskID
			return domain.ExecutionResult{
				Status:          domain.ExecutionStatusExecuted,
				Action:          in.Intent.Action,
				Message:         "task created",
				Confidence:      in.Intent.Confidence,
				ConfidenceLevel: in.Intent.ConfidenceLevel,
				TaskID:          &id,
			}
		},
	}
	f.tx = &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(context.WithValue(ctx, inTxKey{}, true))
		},
	}

	f.svc = NewService(slog.Default(), f.auth, f.members, f.inbox, f.events, f.interp, f.exec, f.tx, config.VoiceConfig{
		MaxTextLength:     2000,
		BackgroundTimeout: 5 * time.Second,
		DefaultLocale:     "de-DE",
	})
	return f
}

// inTxKey marks contexts handed out by the fake transaction manager.
type inTxKey struct{}

// seed stores an entry of the fixture's user directly.
func (f *fixture) seed(status domain.InboxStatus, payload json.RawMessage) *domain.InboxEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &domain.InboxEntry{
		ID:             uuid.New(),
		TenantID:       f.token.TenantID,
		UserID:         f.token.UserID,
		Source:         domain.CommandSourceShortcut,
		IdempotencyKey: "seed-" + uuid.NewString(),
		InputText:      "Fliesen bestellen für P-100",
		ContextHints:   map[string]string{},
		Status:         status,
		IntentPayload:  payload,
		CreatedAt:      time.Now().UTC(),
	}
	f.entries[e.ID] = e
	f.keys[e.TenantID.String()+"/"+e.IdempotencyKey] = e.ID
	return copyEntry(e)
}

func (f *fixture) entry(id uuid.UUID) *domain.InboxEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyEntry(f.entries[id])
}

func (f *fixture) setMembership(fn func(m *domain.TenantMembership)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.membership)
}

func (f *fixture) eventKinds() []string {
	var kinds []string
	for _, c := range f.events.AppendCalls() {
		kinds = append(kinds, c.Event.Event)
	}
	return kinds
}

func testIntent(level domain.ConfidenceLevel) *domain.Intent {
	return &domain.Intent{
		Version:         domain.IntentVersionV1,
		Action:          domain.IntentActionCreateTask,
		Summary:         "Order tiles",
		Confidence:      0.92,
		ConfidenceLevel: level,
		Payload:         domain.TaskPayload{Title: "Fliesen bestellen", Priority: domain.TaskPriorityNormal},
	}
}

func copyEntry(e *domain.InboxEntry) *domain.InboxEntry {
	cp := *e
	return &cp
}

// applyUpdate mirrors the repository's partial update.
func applyUpdate(e *domain.InboxEntry, upd domain.InboxEntryUpdate) {
	if upd.Status.Set {
		e.Status = upd.Status.V
	}
	if upd.InputText.Set {
		e.InputText = upd.InputText.V
	}
	if upd.IntentVersion.Set {
		e.IntentVersion = upd.IntentVersion.V
	}
	if upd.IntentPayload.Set {
		e.IntentPayload = upd.IntentPayload.V
	}
	if upd.Confidence.Set {
		e.Confidence = upd.Confidence.V
	}
	if upd.ExecutionAction.Set {
		e.ExecutionAction = upd.ExecutionAction.V
	}
	if upd.ExecutionResult.Set {
		e.ExecutionResult = upd.ExecutionResult.V
	}
	if upd.ErrorMessage.Set {
		e.ErrorMessage = upd.ErrorMessage.V
	}
	if upd.NeedsConfirmationReason.Set {
		e.NeedsConfirmationReason = upd.NeedsConfirmationReason.V
	}
	if upd.LastExecutedAt.Set {
		e.LastExecutedAt = upd.LastExecutedAt.V
	}
	if upd.ExecutedTaskID.Set {
		e.ExecutedTaskID = upd.ExecutedTaskID.V
	}
	if upd.ExecutedAppointmentID.Set {
		e.ExecutedAppointmentID = upd.ExecutedAppointmentID.V
	}
	if upd.ConfirmedByUserID.Set {
		e.ConfirmedByUserID = upd.ConfirmedByUserID.V
	}
	if upd.ConfirmedAt.Set {
		e.ConfirmedAt = upd.ConfirmedAt.V
	}
	if upd.DiscardedByUserID.Set {
		e.DiscardedByUserID = upd.DiscardedByUserID.V
	}
	if upd.DiscardedAt.Set {
		e.DiscardedAt = upd.DiscardedAt.V
	}
	if upd.IncrementAttempts {
		e.ExecutionAttempts++
	}
	e.UpdatedAt = time.Now().UTC()
}
