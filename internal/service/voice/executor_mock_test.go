package voice

import (
	"context"
	"sync"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/service/execution"
)

var _ executor = &executorMock{}

type executorMock struct {
	ExecuteFunc func(ctx context.Context, in execution.Input) domain.ExecutionResult

	calls struct {
		Execute []struct {
			Ctx context.Context
			In  execution.Input
		}
	}
	lockExecute sync.RWMutex
}

func (mock *executorMock) Execute(ctx context.Context, in execution.Input) domain.ExecutionResult {
	if mock.ExecuteFunc == nil {
		panic("executorMock.ExecuteFunc: method is nil but executor.Execute was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  execution.Input
	}{Ctx: ctx, In: in}
	mock.lockExecute.Lock()
	mock.calls.Execute = append(mock.calls.Execute, callInfo)
	mock.lockExecute.Unlock()
	return mock.ExecuteFunc(ctx, in)
}

func (mock *executorMock) ExecuteCalls() []struct {
	Ctx context.Context
	In  execution.Input
} {
	mock.lockExecute.RLock()
	calls := mock.calls.Execute
	mock.lockExecute.RUnlock()
	return calls
}
