package resolve

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

var _ entityLookup = &entityLookupMock{}

type entityLookupMock struct {
	LookupFunc func(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind, hint string) ([]domain.EntityCandidate, error)

	calls struct {
		Lookup []struct {
			Ctx      context.Context
			TenantID uuid.UUID
			Kind     domain.EntityKind
			Hint     string
		}
	}
	lockLookup sync.RWMutex
}

func (mock *entityLookupMock) Lookup(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind, hint string) ([]domain.EntityCandidate, error) {
	if mock.LookupFunc == nil {
		panic("entityLookupMock.LookupFunc: method is nil but entityLookup.Lookup was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID uuid.UUID
		Kind     domain.EntityKind
		Hint     string
	}{Ctx: ctx, TenantID: tenantID, Kind: kind, Hint: hint}
	mock.lockLookup.Lock()
	mock.calls.Lookup = append(mock.calls.Lookup, callInfo)
	mock.lockLookup.Unlock()
	return mock.LookupFunc(ctx, tenantID, kind, hint)
}

func (mock *entityLookupMock) LookupCalls() []struct {
	Ctx      context.Context
	TenantID uuid.UUID
	Kind     domain.EntityKind
	Hint     string
} {
	mock.lockLookup.RLock()
	calls := mock.calls.Lookup
	mock.lockLookup.RUnlock()
	return calls
}
