package mocks

import (
	"context"

	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCompletionService is a mock type for the CompletionService type
type MockCompletionService struct {
	mock.Mock
}

// Trigger provides a mock function with given fields: ctx, story, imageTaskID
func (_m *MockCompletionService) Trigger(ctx context.Context, story *models.Story, imageTaskID uuid.UUID) {
	_m.Called(ctx, story, imageTaskID)
}

// Complete provides a mock function with given fields: ctx, storyID
func (_m *MockCompletionService) Complete(ctx context.Context, storyID uuid.UUID) (*service.CompletionResult, error) {
	ret := _m.Called(ctx, storyID)

	var r0 *service.CompletionResult
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *service.CompletionResult); ok {
		r0 = rf(ctx, storyID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*service.CompletionResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, storyID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockCompletionService creates a new instance of MockCompletionService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockCompletionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCompletionService {
	m := &MockCompletionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.CompletionService = (*MockCompletionService)(nil)
