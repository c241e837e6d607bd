package voice

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

var _ eventLog = &eventLogMock{}

type eventLogMock struct {
	AppendFunc      func(ctx context.Context, event domain.InboxEvent) error
	ListByEntryFunc func(ctx context.Context, tenantID uuid.UUID, entryID uuid.UUID, limit int) ([]domain.InboxEvent, error)

	calls struct {
		Append []struct {
			Ctx   context.Context
			Event domain.InboxEvent
		}
		ListByEntry []struct {
			Ctx      context.Context
			TenantID uuid.UUID
			EntryID  uuid.UUID
			Limit    int
		}
	}
	lockAppend      sync.RWMutex
	lockListByEntry sync.RWMutex
}

func (mock *eventLogMock) Append(ctx context.Context, event domain.InboxEvent) error {
	if mock.AppendFunc == nil {
		panic("eventLogMock.AppendFunc: method is nil but eventLog.Append was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event domain.InboxEvent
	}{Ctx: ctx, Event: event}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, event)
}

func (mock *eventLogMock) AppendCalls() []struct {
	Ctx   context.Context
	Event domain.InboxEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *eventLogMock) ListByEntry(ctx context.Context, tenantID uuid.UUID, entryID uuid.UUID, limit int) ([]domain.InboxEvent, error) {
	if mock.ListByEntryFunc == nil {
		panic("eventLogMock.ListByEntryFunc: method is nil but eventLog.ListByEntry was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID uuid.UUID
		EntryID  uuid.UUID
		Limit    int
	}{Ctx: ctx, TenantID: tenantID, EntryID: entryID, Limit: limit}
	mock.lockListByEntry.Lock()
	mock.calls.ListByEntry = append(mock.calls.ListByEntry, callInfo)
	mock.lockListByEntry.Unlock()
	return mock.ListByEntryFunc(ctx, tenantID, entryID, limit)
}

func (mock *eventLogMock) ListByEntryCalls() []struct {
	Ctx      context.Context
	TenantID uuid.UUID
	EntryID  uuid.UUID
	Limit    int
} {
	mock.lockListByEntry.RLock()
	calls := mock.calls.ListByEntry
	mock.lockListByEntry.RUnlock()
	return calls
}
