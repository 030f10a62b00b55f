package mocks

import (
	"context"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockThemeRepository is a mock type for the ThemeRepository type
type MockThemeRepository struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *MockThemeRepository) List(ctx context.Context) ([]models.Theme, error) {
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

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockThemeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Theme
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *models.Theme); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Theme)
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

// Upsert provides a mock function with given fields: ctx, theme
func (_m *MockThemeRepository) Upsert(ctx context.Context, theme *models.Theme) error {
	ret := _m.Called(ctx, theme)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *models.Theme) error); ok {
		r0 = rf(ctx, theme)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockThemeRepository creates a new instance of MockThemeRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockThemeRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockThemeRepository {
	m := &MockThemeRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ interfaces.ThemeRepository = (*MockThemeRepository)(nil)
