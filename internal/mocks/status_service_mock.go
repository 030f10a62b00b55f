package mocks

import (
	"context"

	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStatusService is a mock type for the StatusService type
type MockStatusService struct {
	mock.Mock
}

// TurnStatus provides a mock function with given fields: ctx, userID, turnID
func (_m *MockStatusService) TurnStatus(ctx context.Context, userID uuid.UUID, turnID uuid.UUID) (*models.TurnStatus, error) {
	ret := _m.Called(ctx, userID, turnID)

	var r0 *models.TurnStatus
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, uuid.UUID) *models.TurnStatus); ok {
		r0 = rf(ctx, userID, turnID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.TurnStatus)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, uuid.UUID) error); ok {
		r1 = rf(ctx, userID, turnID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStatusService creates a new instance of MockStatusService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStatusService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStatusService {
	m := &MockStatusService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.StatusService = (*MockStatusService)(nil)
