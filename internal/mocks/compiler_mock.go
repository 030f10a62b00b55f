package mocks

import (
	"context"

	"story-wall/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCompiler is a mock type for the Compiler type
type MockCompiler struct {
	mock.Mock
}

// Compile provides a mock function with given fields: ctx, storyID
func (_m *MockCompiler) Compile(ctx context.Context, storyID uuid.UUID) (string, error) {
	ret := _m.Called(ctx, storyID)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) string); ok {
		r0 = rf(ctx, storyID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
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

// NewMockCompiler creates a new instance of MockCompiler. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockCompiler(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCompiler {
	m := &MockCompiler{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.Compiler = (*MockCompiler)(nil)
