package mocks

import (
	"context"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockStoryEventPublisher is a mock type for the StoryEventPublisher type
type MockStoryEventPublisher struct {
	mock.Mock
}

// PublishStoryCompleted provides a mock function with given fields: ctx, event
func (_m *MockStoryEventPublisher) PublishStoryCompleted(ctx context.Context, event models.StoryCompletedEvent) error {
	ret := _m.Called(ctx, event)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, models.StoryCompletedEvent) error); ok {
		r0 = rf(ctx, event)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with no fields
func (_m *MockStoryEventPublisher) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStoryEventPublisher creates a new instance of MockStoryEventPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStoryEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryEventPublisher {
	m := &MockStoryEventPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ interfaces.StoryEventPublisher = (*MockStoryEventPublisher)(nil)
