package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

var _ tokenRepo = &tokenRepoMock{}

type tokenRepoMock struct {
	CreateFunc        func(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error)
	GetByHashFunc     func(ctx context.Context, tokenHash string) (*domain.DeviceToken, error)
	TouchLastUsedFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeFunc        func(ctx context.Context, id uuid.UUID) (*domain.DeviceToken, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Token *domain.DeviceToken
		}
		GetByHash []struct {
			Ctx       context.Context
			TokenHash string
		}
		TouchLastUsed []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
		Revoke []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockCreate        sync.RWMutex
	lockGetByHash     sync.RWMutex
	lockTouchLastUsed sync.RWMutex
	lockRevoke        sync.RWMutex
}

func (mock *tokenRepoMock) Create(ctx context.Context, token *domain.DeviceToken) (*domain.DeviceToken, error) {
	if mock.CreateFunc == nil {
		panic("tokenRepoMock.CreateFunc: method is nil but tokenRepo.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token *domain.DeviceToken
	}{Ctx: ctx, Token: token}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, token)
}

func (mock *tokenRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	Token *domain.DeviceToken
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *tokenRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.DeviceToken, error) {
	if mock.GetByHashFunc == nil {
		panic("tokenRepoMock.GetByHashFunc: method is nil but tokenRepo.GetByHash was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TokenHash string
	}{Ctx: ctx, TokenHash: tokenHash}
	mock.lockGetByHash.Lock()
	mock.calls.GetByHash = append(mock.calls.GetByHash, callInfo)
	mock.lockGetByHash.Unlock()
	return mock.GetByHashFunc(ctx, tokenHash)
}

func (mock *tokenRepoMock) GetByHashCalls() []struct {
	Ctx       context.Context
	TokenHash string
} {
	mock.lockGetByHash.RLock()
	calls := mock.calls.GetByHash
	mock.lockGetByHash.RUnlock()
	return calls
}

func (mock *tokenRepoMock) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.TouchLastUsedFunc == nil {
		panic("tokenRepoMock.TouchLastUsedFunc: method is nil but tokenRepo.TouchLastUsed was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, At: at}
	mock.lockTouchLastUsed.Lock()
	mock.calls.TouchLastUsed = append(mock.calls.TouchLastUsed, callInfo)
	mock.lockTouchLastUsed.Unlock()
	return mock.TouchLastUsedFunc(ctx, id, at)
}

func (mock *tokenRepoMock) TouchLastUsedCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	mock.lockTouchLastUsed.RLock()
	calls := mock.calls.TouchLastUsed
	mock.lockTouchLastUsed.RUnlock()
	return calls
}

func (mock *tokenRepoMock) Revoke(ctx context.Context, id uuid.UUID) (*domain.DeviceToken, error) {
	if mock.RevokeFunc == nil {
		panic("tokenRepoMock.RevokeFunc: method is nil but tokenRepo.Revoke was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockRevoke.Lock()
	mock.calls.Revoke = append(mock.calls.Revoke, callInfo)
	mock.lockRevoke.Unlock()
	return mock.RevokeFunc(ctx, id)
}

func (mock *tokenRepoMock) RevokeCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockRevoke.RLock()
	calls := mock.calls.Revoke
	mock.lockRevoke.RUnlock()
	return calls
}
