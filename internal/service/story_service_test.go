package service_test

import (
	"context"
	"testing"

	"story-wall/internal/mocks"
	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type storyHarness struct {
	store  *memStore
	themes *mocks.MockThemeRepository
	text   *mocks.MockTextGenerator
	images *mocks.MockImageGenerator
	svc    service.StoryService
	theme  *models.Theme
}

func newStoryHarness(threshold int) *storyHarness {
	h := &storyHarness{
		store:  newMemStore(),
		themes: new(mocks.MockThemeRepository),
		text:   new(mocks.MockTextGenerator),
		images: new(mocks.MockImageGenerator),
		theme:  &models.Theme{ID: uuid.New(), Name: "Space Adventure", Description: "a space adventure"},
	}
	h.svc = service.NewStoryService(h.themes, memStories{h.store}, memTurns{h.store}, h.text, h.images, threshold, zap.NewNop())
	return h
}

func TestStartStory(t *testing.T) {
	ctx := context.Background()
	h := newStoryHarness(10)
	userID := uuid.New()
	h.themes.On("GetByID", ctx, h.theme.ID).Return(h.theme, nil)
	h.text.On("GenerateText", ctx, models.TextRequest{
		Role: models.RolePlot, ThemeDescription: "a space adventure", CharacterName: "Alice",
	}).Return("Alice boards a rocket.").Once()
	h.images.On("GenerateImage", ctx, models.ImageRequest{
		Layout: models.LayoutPlot, Source: "Alice boards a rocket.", CharacterName: "Alice",
	}).Return("plots/plot_1.png", true).Once()

	story, err := h.svc.StartStory(ctx, userID, h.theme.ID, " Alice ")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, story.ID)
	assert.Equal(t, userID, story.UserID)
	assert.Equal(t, "Alice", story.CharacterName)
	assert.Equal(t, "Space Adventure", story.ThemeName)
	assert.Equal(t, "Alice boards a rocket.", story.PlotText)
	require.NotNil(t, story.PlotImagePath)
	assert.Equal(t, "plots/plot_1.png", *story.PlotImagePath)
}

func TestStartStory_IllustrationUnavailable(t *testing.T) {
	ctx := context.Background()
	h := newStoryHarness(10)
	h.themes.On("GetByID", ctx, h.theme.ID).Return(h.theme, nil)
	h.text.On("GenerateText", ctx, mock.Anything).Return("plot")
	h.images.On("GenerateImage", ctx, mock.Anything).Return("", false)

	story, err := h.svc.StartStory(ctx, uuid.New(), h.theme.ID, "Alice")
	require.NoError(t, err)
	assert.Nil(t, story.PlotImagePath)
}

func TestStartStory_Errors(t *testing.T) {
	ctx := context.Background()
	h := newStoryHarness(10)

	_, err := h.svc.StartStory(ctx, uuid.New(), h.theme.ID, "  ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	missing := uuid.New()
	h.themes.On("GetByID", ctx, missing).Return(nil, models.ErrThemeNotFound)
	_, err = h.svc.StartStory(ctx, uuid.New(), missing, "Alice")
	assert.ErrorIs(t, err, models.ErrThemeNotFound)
	h.text.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestGetStoryDetails(t *testing.T) {
	ctx := context.Background()
	h := newStoryHarness(2)
	story := &models.Story{UserID: uuid.New(), CharacterName: "Alice"}
	require.NoError(t, memStories{h.store}.Create(ctx, story))
	for _, idx := range []int{2, 1} {
		require.NoError(t, memTurns{h.store}.Create(ctx, &models.StoryTurn{StoryID: story.ID, TurnIndex: idx}))
	}

	details, err := h.svc.GetStoryDetails(ctx, story.UserID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, details.Threshold)
	assert.True(t, details.Completed)
	require.Len(t, details.Turns, 2)
	assert.Equal(t, 1, details.Turns[0].TurnIndex)

	_, err = h.svc.GetStoryDetails(ctx, uuid.New(), story.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestListThemes(t *testing.T) {
	ctx := context.Background()
	h := newStoryHarness(0)
	h.themes.On("List", ctx).Return([]models.Theme{*h.theme}, nil)

	themes, err := h.svc.ListThemes(ctx)
	require.NoError(t, err)
	assert.Len(t, themes, 1)
}
