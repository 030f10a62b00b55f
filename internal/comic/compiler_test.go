package comic_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"story-wall/internal/comic"
	"story-wall/internal/mocks"
	"story-wall/internal/storage"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr(s string) *string { return &s }

func newStory(id uuid.UUID) *models.Story {
	return &models.Story{
		ID:            id,
		CharacterName: "Alice",
		ThemeName:     "Fantasy",
		PlotText:      "A dragon sleeps under the hill.",
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func pdfFiles(t *testing.T, media *storage.Media) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(media.Root(), storage.DirPDFs))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func setup(t *testing.T) (*mocks.MockStoryRepository, *mocks.MockTurnRepository, *storage.Media, *comic.Compiler) {
	t.Helper()
	stories := new(mocks.MockStoryRepository)
	turns := new(mocks.MockTurnRepository)
	media := storage.NewMedia(t.TempDir(), zap.NewNop())
	require.NoError(t, media.EnsureLayout())
	t.Cleanup(func() {
		stories.AssertExpectations(t)
		turns.AssertExpectations(t)
	})
	return stories, turns, media, comic.NewCompiler(stories, turns, media, zap.NewNop())
}

func TestCompile_WritesAndRecords(t *testing.T) {
	ctx := context.Background()
	stories, turns, media, compiler := setup(t)
	id := uuid.New()

	stories.On("GetByID", ctx, id).Return(newStory(id), nil).Once()
	turns.On("ListByStory", ctx, id).Return([]models.StoryTurn{
		{TurnIndex: 1, UserInput: "I wake the dragon", AIResponse: "It yawns.", UserImgPath: ptr("responses/missing.png")},
	}, nil).Once()
	stories.On("SetPDFPath", ctx, id, mock.AnythingOfType("string")).Return(true, nil).Once()

	path, err := compiler.Compile(ctx, id)
	require.NoError(t, err)
	assert.Regexp(t, `^pdfs/comic_`+id.String()+`_[0-9a-f]{32}\.pdf$`, path)

	data, err := media.Read(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 5 && string(data[:5]) == "%PDF-")
	assert.Len(t, pdfFiles(t, media), 1, "no temp files left behind")
}

func TestCompile_AlreadyCompiled(t *testing.T) {
	ctx := context.Background()
	stories, _, media, compiler := setup(t)
	id := uuid.New()
	story := newStory(id)
	story.PDFPath = ptr("pdfs/comic_existing.pdf")
	stories.On("GetByID", ctx, id).Return(story, nil).Once()

	path, err := compiler.Compile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pdfs/comic_existing.pdf", path)
	assert.Empty(t, pdfFiles(t, media))
}

func TestCompile_LostRaceKeepsFirst(t *testing.T) {
	ctx := context.Background()
	stories, turns, media, compiler := setup(t)
	id := uuid.New()
	winner := newStory(id)
	winner.PDFPath = ptr("pdfs/comic_winner.pdf")

	stories.On("GetByID", ctx, id).Return(newStory(id), nil).Once()
	turns.On("ListByStory", ctx, id).Return([]models.StoryTurn{}, nil).Once()
	stories.On("SetPDFPath", ctx, id, mock.AnythingOfType("string")).Return(false, nil).Once()
	stories.On("GetByID", ctx, id).Return(winner, nil).Once()

	path, err := compiler.Compile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pdfs/comic_winner.pdf", path)
	assert.Empty(t, pdfFiles(t, media), "loser's file removed")
}

func TestCompile_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("story missing", func(t *testing.T) {
		stories, _, _, compiler := setup(t)
		id := uuid.New()
		stories.On("GetByID", ctx, id).Return(nil, models.ErrStoryNotFound).Once()

		_, err := compiler.Compile(ctx, id)
		assert.ErrorIs(t, err, models.ErrStoryNotFound)
	})

	t.Run("record fails", func(t *testing.T) {
		stories, turns, media, compiler := setup(t)
		id := uuid.New()
		dbErr := errors.New("connection reset")
		stories.On("GetByID", ctx, id).Return(newStory(id), nil).Once()
		turns.On("ListByStory", ctx, id).Return([]models.StoryTurn{}, nil).Once()
		stories.On("SetPDFPath", ctx, id, mock.AnythingOfType("string")).Return(false, dbErr).Once()

		_, err := compiler.Compile(ctx, id)
		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, pdfFiles(t, media))
	})
}

func TestInputFor(t *testing.T) {
	id := uuid.New()
	story := newStory(id)
	story.PlotImagePath = ptr("plots/p.png")
	in := comic.InputFor(story, []models.StoryTurn{
		{TurnIndex: 1, UserInput: "a", AIResponse: "b", AIImgPath: ptr("responses/ai.png")},
		{TurnIndex: 2, UserInput: "c", AIResponse: "d"},
	})

	assert.Equal(t, "plots/p.png", in.PlotImage)
	require.Len(t, in.Turns, 2)
	assert.Equal(t, comic.TurnContent{UserInput: "a", AIResponse: "b", AIImage: "responses/ai.png"}, in.Turns[0])
	assert.Equal(t, comic.TurnContent{UserInput: "c", AIResponse: "d"}, in.Turns[1])
}
