package mocks

import (
	"context"

	"story-wall/internal/dispatch"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock type for the Mailer type
type MockMailer struct {
	mock.Mock
}

// Send provides a mock function with given fields: ctx, msg
func (_m *MockMailer) Send(ctx context.Context, msg dispatch.Message) error {
	ret := _m.Called(ctx, msg)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, dispatch.Message) error); ok {
		r0 = rf(ctx, msg)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Enabled provides a mock function with no fields
func (_m *MockMailer) Enabled() bool {
	ret := _m.Called()

	var r0 bool
	if rf, ok := ret.Get(0).(func() bool); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(bool)
		}
	}

	return r0
}

// NewMockMailer creates a new instance of MockMailer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMailer {
	m := &MockMailer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ dispatch.Mailer = (*MockMailer)(nil)
