package mocks

import (
	"context"

	"story-wall/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTurnService is a mock type for the TurnService type
type MockTurnService struct {
	mock.Mock
}

// SubmitTurn provides a mock function with given fields: ctx, userID, storyID, userInput
func (_m *MockTurnService) SubmitTurn(ctx context.Context, userID uuid.UUID, storyID uuid.UUID, userInput string) (*service.TurnResult, error) {
	ret := _m.Called(ctx, userID, storyID, userInput)

	var r0 *service.TurnResult
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, uuid.UUID, string) *service.TurnResult); ok {
		r0 = rf(ctx, userID, storyID, userInput)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*service.TurnResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, uuid.UUID, string) error); ok {
		r1 = rf(ctx, userID, storyID, userInput)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTurnService creates a new instance of MockTurnService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTurnService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTurnService {
	m := &MockTurnService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.TurnService = (*MockTurnService)(nil)
