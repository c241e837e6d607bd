package voice

import (
	"context"
	"sync"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

var _ authenticator = &authenticatorMock{}

type authenticatorMock struct {
	AuthenticateFunc func(ctx context.Context, credential string) (*domain.TokenContext, error)

	calls struct {
		Authenticate []struct {
			Ctx        context.Context
			Credential string
		}
	}
	lockAuthenticate sync.RWMutex
}

func (mock *authenticatorMock) Authenticate(ctx context.Context, credential string) (*domain.TokenContext, error) {
	if mock.AuthenticateFunc == nil {
		panic("authenticatorMock.AuthenticateFunc: method is nil but authenticator.Authenticate was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Credential string
	}{Ctx: ctx, Credential: credential}
	mock.lockAuthenticate.Lock()
	mock.calls.Authenticate = append(mock.calls.Authenticate, callInfo)
	mock.lockAuthenticate.Unlock()
	return mock.AuthenticateFunc(ctx, credential)
}

func (mock *authenticatorMock) AuthenticateCalls() []struct {
	Ctx        context.Context
	Credential string
} {
	mock.lockAuthenticate.RLock()
	calls := mock.calls.Authenticate
	mock.lockAuthenticate.RUnlock()
	return calls
}
