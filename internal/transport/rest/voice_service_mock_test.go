package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/voice"
)

var _ voiceService = &voiceServiceMock{}

type voiceServiceMock struct {
	CaptureFunc     func(ctx context.Context, input voice.CaptureInput) (*voice.CaptureResult, error)
	ConfirmFunc     func(ctx context.Context, input voice.ConfirmInput) (*voice.ActionResult, error)
	RetryFunc       func(ctx context.Context, input voice.RetryInput) (*voice.ActionResult, error)
	DiscardFunc     func(ctx context.Context, input voice.DiscardInput) (*domain.InboxEntry, error)
	GetEntryFunc    func(ctx context.Context, credential string, entryID uuid.UUID) (*domain.InboxEntry, error)
	ListEntriesFunc func(ctx context.Context, input voice.ListInput) ([]*domain.InboxEntry, int, error)
	ListEventsFunc  func(ctx context.Context, credential string, entryID uuid.UUID) ([]domain.InboxEvent, error)

	calls struct {
		Capture []struct {
			Ctx   context.Context
			Input voice.CaptureInput
		}
		Confirm []struct {
			Ctx   context.Context
			Input voice.ConfirmInput
		}
		Retry []struct {
			Ctx   context.Context
			Input voice.RetryInput
		}
		Discard []struct {
			Ctx   context.Context
			Input voice.DiscardInput
		}
		GetEntry []struct {
			Ctx        context.Context
			Credential string
			EntryID    uuid.UUID
		}
		ListEntries []struct {
			Ctx   context.Context
			Input voice.ListInput
		}
		ListEvents []struct {
			Ctx        context.Context
			Credential string
			EntryID    uuid.UUID
		}
	}
	lockCapture     sync.RWMutex
	lockConfirm     sync.RWMutex
	lockRetry       sync.RWMutex
	lockDiscard     sync.RWMutex
	lockGetEntry    sync.RWMutex
	lockListEntries sync.RWMutex
	lockListEvents  sync.RWMutex
}

func (mock *voiceServiceMock) Capture(ctx context.Context, input voice.CaptureInput) (*voice.CaptureResult, error) {
	if mock.CaptureFunc == nil {
		panic("voiceServiceMock.CaptureFunc: method is nil but voiceService.Capture was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.CaptureInput
	}{Ctx: ctx, Input: input}
	mock.lockCapture.Lock()
	mock.calls.Capture = append(mock.calls.Capture, callInfo)
	mock.lockCapture.Unlock()
	return mock.CaptureFunc(ctx, input)
}

func (mock *voiceServiceMock) CaptureCalls() []struct {
	Ctx   context.Context
	Input voice.CaptureInput
} {
	mock.lockCapture.RLock()
	calls := mock.calls.Capture
	mock.lockCapture.RUnlock()
	return calls
}

func (mock *voiceServiceMock) Confirm(ctx context.Context, input voice.ConfirmInput) (*voice.ActionResult, error) {
	if mock.ConfirmFunc == nil {
		panic("voiceServiceMock.ConfirmFunc: method is nil but voiceService.Confirm was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.ConfirmInput
	}{Ctx: ctx, Input: input}
	mock.lockConfirm.Lock()
	mock.calls.Confirm = append(mock.calls.Confirm, callInfo)
	mock.lockConfirm.Unlock()
	return mock.ConfirmFunc(ctx, input)
}

func (mock *voiceServiceMock) ConfirmCalls() []struct {
	Ctx   context.Context
	Input voice.ConfirmInput
} {
	mock.lockConfirm.RLock()
	calls := mock.calls.Confirm
	mock.lockConfirm.RUnlock()
	return calls
}

func (mock *voiceServiceMock) Retry(ctx context.Context, input voice.RetryInput) (*voice.ActionResult, error) {
	if mock.RetryFunc == nil {
		panic("voiceServiceMock.RetryFunc: method is nil but voiceService.Retry was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.RetryInput
	}{Ctx: ctx, Input: input}
	mock.lockRetry.Lock()
	mock.calls.Retry = append(mock.calls.Retry, callInfo)
	mock.lockRetry.Unlock()
	return mock.RetryFunc(ctx, input)
}

func (mock *voiceServiceMock) RetryCalls() []struct {
	Ctx   context.Context
	Input voice.RetryInput
} {
	mock.lockRetry.RLock()
	calls := mock.calls.Retry
	mock.lockRetry.RUnlock()
	return calls
}

func (mock *voiceServiceMock) Discard(ctx context.Context, input voice.DiscardInput) (*domain.InboxEntry, error) {
	if mock.DiscardFunc == nil {
		panic("voiceServiceMock.DiscardFunc: method is nil but voiceService.Discard was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.DiscardInput
	}{Ctx: ctx, Input: input}
	mock.lockDiscard.Lock()
	mock.calls.Discard = append(mock.calls.Discard, callInfo)
	mock.lockDiscard.Unlock()
	return mock.DiscardFunc(ctx, input)
}

func (mock *voiceServiceMock) DiscardCalls() []struct {
	Ctx   context.Context
	Input voice.DiscardInput
} {
	mock.lockDiscard.RLock()
	calls := mock.calls.Discard
	mock.lockDiscard.RUnlock()
	return calls
}

func (mock *voiceServiceMock) GetEntry(ctx context.Context, credential string, entryID uuid.UUID) (*domain.InboxEntry, error) {
	if mock.GetEntryFunc == nil {
		panic("voiceServiceMock.GetEntryFunc: method is nil but voiceService.GetEntry was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Credential string
		EntryID    uuid.UUID
	}{Ctx: ctx, Credential: credential, EntryID: entryID}
	mock.lockGetEntry.Lock()
	mock.calls.GetEntry = append(mock.calls.GetEntry, callInfo)
	mock.lockGetEntry.Unlock()
	return mock.GetEntryFunc(ctx, credential, entryID)
}

func (mock *voiceServiceMock) GetEntryCalls() []struct {
	Ctx        context.Context
	Credential string
	EntryID    uuid.UUID
} {
	mock.lockGetEntry.RLock()
	calls := mock.calls.GetEntry
	mock.lockGetEntry.RUnlock()
	return calls
}

func (mock *voiceServiceMock) ListEntries(ctx context.Context, input voice.ListInput) ([]*domain.InboxEntry, int, error) {
	if mock.ListEntriesFunc == nil {
		panic("voiceServiceMock.ListEntriesFunc: method is nil but voiceService.ListEntries was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.ListInput
	}{Ctx: ctx, Input: input}
	mock.lockListEntries.Lock()
	mock.calls.ListEntries = append(mock.calls.ListEntries, callInfo)
	mock.lockListEntries.Unlock()
	return mock.ListEntriesFunc(ctx, input)
}

func (mock *voiceServiceMock) ListEntriesCalls() []struct {
	Ctx   context.Context
	Input voice.ListInput
} {
	mock.lockListEntries.RLock()
	calls := mock.calls.ListEntries
	mock.lockListEntries.RUnlock()
	return calls
}

func (mock *voiceServiceMock) ListEvents(ctx context.Context, credential string, entryID uuid.UUID) ([]domain.InboxEvent, error) {
	if mock.ListEventsFunc == nil {
		panic("voiceServiceMock.ListEventsFunc: method is nil but voiceService.ListEvents was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Credential string
		EntryID    uuid.UUID
	}{Ctx: ctx, Credential: credential, EntryID: entryID}
	mock.lockListEvents.Lock()
	mock.calls.ListEvents = append(mock.calls.ListEvents, callInfo)
	mock.lockListEvents.Unlock()
	return mock.ListEventsFunc(ctx, credential, entryID)
}

func (mock *voiceServiceMock) ListEventsCalls() []struct {
	Ctx        context.Context
	Credential string
	EntryID    uuid.UUID
} {
	mock.lockListEvents.RLock()
	calls := mock.calls.ListEvents
	mock.lockListEvents.RUnlock()
	return calls
}
