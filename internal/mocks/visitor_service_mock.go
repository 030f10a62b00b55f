package mocks

import (
	"context"

	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockVisitorService is a mock type for the VisitorService type
type MockVisitorService struct {
	mock.Mock
}

// StartVisit provides a mock function with given fields: ctx, email
func (_m *MockVisitorService) StartVisit(ctx context.Context, email string) (*models.User, *models.TokenDetails, error) {
	ret := _m.Called(ctx, email)

	var r0 *models.User
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.User); ok {
		r0 = rf(ctx, email)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.User)
		}
	}

	var r1 *models.TokenDetails
	if rf, ok := ret.Get(1).(func(context.Context, string) *models.TokenDetails); ok {
		r1 = rf(ctx, email)
	} else {
		if ret.Get(1) != nil {
			r1 = ret.Get(1).(*models.TokenDetails)
		}
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, email)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// VerifyToken provides a mock function with given fields: ctx, token
func (_m *MockVisitorService) VerifyToken(ctx context.Context, token string) (*models.Claims, error) {
	ret := _m.Called(ctx, token)

	var r0 *models.Claims
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.Claims); ok {
		r0 = rf(ctx, token)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Claims)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, token)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// EndVisit provides a mock function with given fields: ctx, tokenUUID
func (_m *MockVisitorService) EndVisit(ctx context.Context, tokenUUID string) error {
	ret := _m.Called(ctx, tokenUUID)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, tokenUUID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockVisitorService creates a new instance of MockVisitorService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockVisitorService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVisitorService {
	m := &MockVisitorService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.VisitorService = (*MockVisitorService)(nil)
