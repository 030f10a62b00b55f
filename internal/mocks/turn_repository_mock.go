package mocks

import (
	"context"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTurnRepository is a mock type for the TurnRepository type
type MockTurnRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, turn
func (_m *MockTurnRepository) Create(ctx context.Context, turn *models.StoryTurn) error {
	ret := _m.Called(ctx, turn)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *models.StoryTurn) error); ok {
		r0 = rf(ctx, turn)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListByStory provides a mock function with given fields: ctx, storyID
func (_m *MockTurnRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.StoryTurn, error) {
	ret := _m.Called(ctx, storyID)

	var r0 []models.StoryTurn
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) []models.StoryTurn); ok {
		r0 = rf(ctx, storyID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.StoryTurn)
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

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockTurnRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoryTurn, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.StoryTurn
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *models.StoryTurn); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.StoryTurn)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CountByStory provides a mock function with given fields: ctx, storyID
func (_m *MockTurnRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	ret := _m.Called(ctx, storyID)

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) int); ok {
		r0 = rf(ctx, storyID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(int)
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

// SetUserImage provides a mock function with given fields: ctx, turnID, path
func (_m *MockTurnRepository) SetUserImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error) {
	ret := _m.Called(ctx, turnID, path)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, string) bool); ok {
		r0 = rf(ctx, turnID, path)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(bool)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, string) error); ok {
		r1 = rf(ctx, turnID, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SetAIImage provides a mock function with given fields: ctx, turnID, path
func (_m *MockTurnRepository) SetAIImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error) {
	ret := _m.Called(ctx, turnID, path)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, string) bool); ok {
		r0 = rf(ctx, turnID, path)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(bool)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, string) error); ok {
		r1 = rf(ctx, turnID, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTurnRepository creates a new instance of MockTurnRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTurnRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTurnRepository {
	m := &MockTurnRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ interfaces.TurnRepository = (*MockTurnRepository)(nil)
