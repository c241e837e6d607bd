package execution

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

var _ workItems = &workItemsMock{}

type workItemsMock struct {
	CreateTaskFunc        func(ctx context.Context, t domain.NewTask) (uuid.UUID, error)
	CreateAppointmentFunc func(ctx context.Context, a domain.NewAppointment) (uuid.UUID, error)

	calls struct {
		CreateTask []struct {
			Ctx context.Context
			T   domain.NewTask
		}
		CreateAppointment []struct {
			Ctx context.Context
			A   domain.NewAppointment
		}
	}
	lockCreateTask        sync.RWMutex
	lockCreateAppointment sync.RWMutex
}

func (mock *workItemsMock) CreateTask(ctx context.Context, t domain.NewTask) (uuid.UUID, error) {
	if mock.CreateTaskFunc == nil {
		panic("workItemsMock.CreateTaskFunc: method is nil but workItems.CreateTask was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   domain.NewTask
	}{Ctx: ctx, T: t}
	mock.lockCreateTask.Lock()
	mock.calls.CreateTask = append(mock.calls.CreateTask, callInfo)
	mock.lockCreateTask.Unlock()
	return mock.CreateTaskFunc(ctx, t)
}

func (mock *workItemsMock) CreateTaskCalls() []struct {
	Ctx context.Context
	T   domain.NewTask
} {
	mock.lockCreateTask.RLock()
	calls := mock.calls.CreateTask
	mock.lockCreateTask.RUnlock()
	return calls
}

func (mock *workItemsMock) CreateAppointment(ctx context.Context, a domain.NewAppointment) (uuid.UUID, error) {
	if mock.CreateAppointmentFunc == nil {
		panic("workItemsMock.CreateAppointmentFunc: method is nil but workItems.CreateAppointment was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   domain.NewAppointment
	}{Ctx: ctx, A: a}
	mock.lockCreateAppointment.Lock()
	mock.calls.CreateAppointment = append(mock.calls.CreateAppointment, callInfo)
	mock.lockCreateAppointment.Unlock()
	return mock.CreateAppointmentFunc(ctx, a)
}

func (mock *workItemsMock) CreateAppointmentCalls() []struct {
	Ctx context.Context
	A   domain.NewAppointment
} {
	mock.lockCreateAppointment.RLock()
	calls := mock.calls.CreateAppointment
	mock.lockCreateAppointment.RUnlock()
	return calls
}
