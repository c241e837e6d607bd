package voice

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/interpret"
)

var _ interpreter = &interpreterMock{}

type interpreterMock struct {
	InterpretFunc func(ctx context.Context, input interpret.Input) (*domain.Intent, json.RawMessage, error)
	DecodeFunc    func(raw json.RawMessage) (*domain.Intent, error)

	calls struct {
		Interpret []struct {
			Ctx   context.Context
			Input interpret.Input
		}
		Decode []struct {
			Raw json.RawMessage
		}
	}
	lockInterpret sync.RWMutex
	lockDecode    sync.RWMutex
}

func (mock *interpreterMock) Interpret(ctx context.Context, input interpret.Input) (*domain.Intent, json.RawMessage, error) {
	if mock.InterpretFunc == nil {
		panic("interpreterMock.InterpretFunc: method is nil but interpreter.Interpret was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input interpret.Input
	}{Ctx: ctx, Input: input}
	mock.lockInterpret.Lock()
	mock.calls.Interpret = append(mock.calls.Interpret, callInfo)
	mock.lockInterpret.Unlock()
	return mock.InterpretFunc(ctx, input)
}

func (mock *interpreterMock) InterpretCalls() []struct {
	Ctx   context.Context
	Input interpret.Input
} {
	mock.lockInterpret.RLock()
	calls := mock.calls.Interpret
	mock.lockInterpret.RUnlock()
	return calls
}

func (mock *interpreterMock) Decode(raw json.RawMessage) (*domain.Intent, error) {
	if mock.DecodeFunc == nil {
		panic("interpreterMock.DecodeFunc: method is nil but interpreter.Decode was just called")
	}
	callInfo := struct {
		Raw json.RawMessage
	}{Raw: raw}
	mock.lockDecode.Lock()
	mock.calls.Decode = append(mock.calls.Decode, callInfo)
	mock.lockDecode.Unlock()
	return mock.DecodeFunc(raw)
}

func (mock *interpreterMock) DecodeCalls() []struct {
	Raw json.RawMessage
} {
	mock.lockDecode.RLock()
	calls := mock.calls.Decode
	mock.lockDecode.RUnlock()
	return calls
}
