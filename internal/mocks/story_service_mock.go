package mocks

import (
	"context"

	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

// ListThemes provides a mock function with given fields: ctx
func (_m *MockStoryService) ListThemes(ctx context.Context) ([]models.Theme, error) {
	ret := _m.Called(ctx)

	var r0 []models.Theme
	if rf, ok := ret.Get(0).(func(context.Context) []models.Theme); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.Theme)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// StartStory provides a mock function with given fields: ctx, userID, themeID, characterName
func (_m *MockStoryService) StartStory(ctx context.Context, userID uuid.UUID, themeID uuid.UUID, characterName string) (*models.Story, error) {
	ret := _m.Called(ctx, userID, themeID, characterName)

	var r0 *models.Story
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, uuid.UUID, string) *models.Story); ok {
		r0 = rf(ctx, userID, themeID, characterName)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Story)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, uuid.UUID, string) error); ok {
		r1 = rf(ctx, userID, themeID, characterName)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetStoryDetails provides a mock function with given fields: ctx, userID, storyID
func (_m *MockStoryService) GetStoryDetails(ctx context.Context, userID uuid.UUID, storyID uuid.UUID) (*models.StoryDetails, error) {
	ret := _m.Called(ctx, userID, storyID)

	var r0 *models.StoryDetails
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, uuid.UUID) *models.StoryDetails); ok {
		r0 = rf(ctx, userID, storyID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.StoryDetails)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID, uuid.UUID) error); ok {
		r1 = rf(ctx, userID, storyID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStoryService creates a new instance of MockStoryService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ service.StoryService = (*MockStoryService)(nil)
