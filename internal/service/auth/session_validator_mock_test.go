package auth

import (
	"sync"

	"github.com/heartmarshall/voicecommand-backend/internal/auth"
)

var _ sessionValidator = &sessionValidatorMock{}

type sessionValidatorMock struct {
	ValidateSessionTokenFunc func(token string) (auth.SessionClaims, error)

	calls struct {
		ValidateSessionToken []struct {
			Token string
		}
	}
	lockValidateSessionToken sync.RWMutex
}

func (mock *sessionValidatorMock) ValidateSessionToken(token string) (auth.SessionClaims, error) {
	if mock.ValidateSessionTokenFunc == nil {
		panic("sessionValidatorMock.ValidateSessionTokenFunc: method is nil but sessionValidator.ValidateSessionToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateSessionToken.Lock()
	mock.calls.ValidateSessionToken = append(mock.calls.ValidateSessionToken, callInfo)
	mock.lockValidateSessionToken.Unlock()
	return mock.ValidateSessionTokenFunc(token)
}

func (mock *sessionValidatorMock) ValidateSessionTokenCalls() []struct {
	Token string
} {
	mock.lockValidateSessionToken.RLock()
	calls := mock.calls.ValidateSessionToken
	mock.lockValidateSessionToken.RUnlock()
	return calls
}
