package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"story-wall/internal/mocks"
	"story-wall/internal/service"
	"story-wall/pkg/taskmanager"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type turnHarness struct {
	store      *memStore
	text       *mocks.MockTextGenerator
	images     *mocks.MockImageGenerator
	remover    *recordingRemover
	tasks      *taskmanager.TaskManager
	registry   *service.ImageTasks
	completion *mocks.MockCompletionService
	svc        service.TurnService
	story      *models.Story
}

func newTurnHarness(t *testing.T, threshold int) *turnHarness {
	t.Helper()
	h := &turnHarness{
		store:      newMemStore(),
		text:       new(mocks.MockTextGenerator),
		images:     new(mocks.MockImageGenerator),
		remover:    &recordingRemover{},
		tasks:      taskmanager.New(taskmanager.Config{}, zap.NewNop()),
		completion: new(mocks.MockCompletionService),
	}
	h.registry = service.NewImageTasks(h.tasks, time.Hour)
	h.svc = service.NewTurnService(memStories{h.store}, memTurns{h.store}, h.text, h.images, h.remover,
		h.tasks, h.registry, h.completion, threshold, zap.NewNop())

	h.story = &models.Story{UserID: uuid.New(), ThemeName: "Space Adventure", CharacterName: "Alice", PlotText: "A ship drifts."}
	require.NoError(t, memStories{h.store}.Create(context.Background(), h.story))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.tasks.Shutdown(ctx)
	})
	return h
}

func (h *turnHarness) replyWith(reply string) {
	h.text.On("GenerateText", mock.Anything, mock.MatchedBy(func(r models.TextRequest) bool {
		return r.Role == models.RoleContinuation
	})).Return(reply)
}

func (h *turnHarness) imagesSucceed() {
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutUser
	})).Return("responses/user_1.png", true)
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutAI
	})).Return("responses/ai_1.png", true)
}

func (h *turnHarness) waitImages(t *testing.T, res *service.TurnResult) taskmanager.Task {
	t.Helper()
	require.NotEqual(t, uuid.Nil, res.ImageTaskID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	task, err := h.tasks.Wait(ctx, res.ImageTaskID)
	require.NoError(t, err)
	return task
}

func TestBuildContext(t *testing.T) {
	story := &models.Story{ThemeName: "Fantasy Quest", CharacterName: "Bob", PlotText: "A dragon."}
	prior := []models.StoryTurn{
		{UserInput: "I run", AIResponse: "You escape."},
		{UserInput: "I hide", AIResponse: "It passes."},
	}
	want := "Theme: Fantasy Quest\nCharacter: Bob\nPlot: A dragon.\n" +
		"User: I run\nAI: You escape.\n" +
		"User: I hide\nAI: It passes.\n" +
		"User: I wave\n"
	assert.Equal(t, want, service.BuildContext(story, prior, "I wave"))
	assert.Equal(t, "Theme: Fantasy Quest\nCharacter: Bob\nPlot: A dragon.\nUser: hi\n", service.BuildContext(story, nil, "hi"))
}

func TestSubmitTurn_Validation(t *testing.T) {
	h := newTurnHarness(t, 10)
	for name, input := range map[string]string{
		"empty":      "",
		"whitespace": " \n\t ",
		"too long":   strings.Repeat("a", models.MaxUserInputLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.SubmitTurn(context.Background(), h.story.UserID, h.story.ID, input)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
	h.text.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestSubmitTurn_MaxLengthCountsCharacters(t *testing.T) {
	h := newTurnHarness(t, 10)
	h.replyWith("ok")
	h.imagesSucceed()

	res, err := h.svc.SubmitTurn(context.Background(), h.story.UserID, h.story.ID, strings.Repeat("é", models.MaxUserInputLength))
	require.NoError(t, err)
	h.waitImages(t, res)
}

func TestSubmitTurn_PersistsAndIllustrates(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 10)
	h.text.On("GenerateText", mock.Anything, models.TextRequest{
		Role:          models.RoleContinuation,
		Context:       "Theme: Space Adventure\nCharacter: Alice\nPlot: A ship drifts.\nUser: I open the hatch\n",
		CharacterName: "Alice",
	}).Return("Stars pour in.").Once()
	h.imagesSucceed()

	res, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "  I open the hatch ")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 1, res.Turn.TurnIndex)
	assert.Equal(t, "I open the hatch", res.Turn.UserInput)
	assert.Equal(t, "Stars pour in.", res.Turn.AIResponse)
	assert.Nil(t, res.Turn.UserImgPath, "images are not part of the synchronous result")

	task := h.waitImages(t, res)
	update, ok := task.Result.(models.ClientTurnUpdate)
	require.True(t, ok)
	assert.Equal(t, models.UpdateTypeTurnImages, update.Type)
	assert.Equal(t, models.TurnStateImagesComplete, update.State)

	stored, err := memTurns{h.store}.GetByID(ctx, res.Turn.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserImgPath)
	require.NotNil(t, stored.AIImgPath)
	assert.Equal(t, "responses/user_1.png", *stored.UserImgPath)
	assert.Equal(t, "responses/ai_1.png", *stored.AIImgPath)
	assert.True(t, h.registry.Settled(res.Turn.ID))
	h.completion.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything, mock.Anything)
	h.images.AssertCalled(t, "GenerateImage", mock.Anything, models.ImageRequest{Layout: models.LayoutUser, Source: "I open the hatch", CharacterName: "Alice"})
	h.images.AssertCalled(t, "GenerateImage", mock.Anything, models.ImageRequest{Layout: models.LayoutAI, Source: "Stars pour in.", CharacterName: "Alice"})
}

func TestSubmitTurn_ThresholdTriggersCompletionOnce(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 3)
	h.replyWith("and then")
	h.imagesSucceed()
	h.completion.On("Trigger", mock.Anything, mock.Anything, mock.Anything).Return()

	var last *service.TurnResult
	for i := 1; i <= 3; i++ {
		res, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "move")
		require.NoError(t, err)
		assert.Equal(t, i, res.Turn.TurnIndex)
		assert.Equal(t, i == 3, res.Completed)
		h.waitImages(t, res)
		last = res
	}

	h.completion.AssertNumberOfCalls(t, "Trigger", 1)
	h.completion.AssertCalled(t, "Trigger", mock.Anything,
		mock.MatchedBy(func(s *models.Story) bool { return s.ID == h.story.ID }), last.ImageTaskID)

	_, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "one more")
	assert.ErrorIs(t, err, models.ErrStoryCompleted)
	h.completion.AssertNumberOfCalls(t, "Trigger", 1)

	turns, err := memTurns{h.store}.ListByStory(ctx, h.story.ID)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}

func TestSubmitTurn_DefaultThreshold(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 0)
	h.replyWith("and then")
	h.imagesSucceed()
	h.completion.On("Trigger", mock.Anything, mock.Anything, mock.Anything).Return()
	for i := 1; i < models.DefaultTurnThreshold-1; i++ {
		require.NoError(t, memTurns{h.store}.Create(ctx, &models.StoryTurn{StoryID: h.story.ID, TurnIndex: i, UserInput: "a", AIResponse: "b"}))
	}

	ninth, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "ninth")
	require.NoError(t, err)
	assert.Equal(t, 9, ninth.Turn.TurnIndex)
	assert.False(t, ninth.Completed)
	h.waitImages(t, ninth)
	h.completion.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything, mock.Anything)

	tenth, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "tenth")
	require.NoError(t, err)
	assert.Equal(t, 10, tenth.Turn.TurnIndex)
	assert.True(t, tenth.Completed)
	h.waitImages(t, tenth)
	h.completion.AssertNumberOfCalls(t, "Trigger", 1)

	_, err = h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "eleventh")
	assert.ErrorIs(t, err, models.ErrStoryCompleted)
	h.completion.AssertNumberOfCalls(t, "Trigger", 1)
	count, err := memTurns{h.store}.CountByStory(ctx, h.story.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestSubmitTurn_PartialIllustrations(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 10)
	h.replyWith("reply")
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutUser
	})).Return("responses/user_1.png", true)
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutAI
	})).Return("", false)

	res, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "move")
	require.NoError(t, err)
	task := h.waitImages(t, res)
	assert.Equal(t, taskmanager.TaskStatusCompleted, task.Status)
	assert.Equal(t, models.TurnStateImagesPartial, task.Result.(models.ClientTurnUpdate).State)

	stored, err := memTurns{h.store}.GetByID(ctx, res.Turn.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.UserImgPath)
	assert.Nil(t, stored.AIImgPath)
}

func TestSubmitTurn_LostWriteRemovesOrphan(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 10)
	h.replyWith("reply")
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutUser
	})).Run(func(mock.Arguments) {
		turns, _ := memTurns{h.store}.ListByStory(ctx, h.story.ID)
		_, _ = memTurns{h.store}.SetUserImage(ctx, turns[0].ID, "responses/first.png")
	}).Return("responses/second.png", true)
	h.images.On("GenerateImage", mock.Anything, mock.MatchedBy(func(r models.ImageRequest) bool {
		return r.Layout == models.LayoutAI
	})).Return("responses/ai.png", true)

	res, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "move")
	require.NoError(t, err)
	h.waitImages(t, res)

	stored, err := memTurns{h.store}.GetByID(ctx, res.Turn.ID)
	require.NoError(t, err)
	assert.Equal(t, "responses/first.png", *stored.UserImgPath)
	assert.Equal(t, []string{"responses/second.png"}, h.remover.paths())
}

func TestSubmitTurn_Ownership(t *testing.T) {
	h := newTurnHarness(t, 10)

	_, err := h.svc.SubmitTurn(context.Background(), uuid.New(), h.story.ID, "move")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = h.svc.SubmitTurn(context.Background(), h.story.UserID, uuid.New(), "move")
	assert.ErrorIs(t, err, models.ErrStoryNotFound)
	h.text.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestSubmitTurn_ConcurrentFinalTurn(t *testing.T) {
	ctx := context.Background()
	h := newTurnHarness(t, 2)
	require.NoError(t, memTurns{h.store}.Create(ctx, &models.StoryTurn{StoryID: h.story.ID, TurnIndex: 1, UserInput: "a", AIResponse: "b"}))

	var arrived sync.WaitGroup
	arrived.Add(2)
	h.text.On("GenerateText", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		arrived.Done()
		arrived.Wait()
	}).Return("reply")
	h.imagesSucceed()
	h.completion.On("Trigger", mock.Anything, mock.Anything, mock.Anything).Return()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*service.TurnResult
		errs    []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.svc.SubmitTurn(ctx, h.story.UserID, h.story.ID, "final move")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, res)
		}()
	}
	wg.Wait()

	require.Len(t, results, 1)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], models.ErrTurnConflict)
	assert.Equal(t, 2, results[0].Turn.TurnIndex)
	h.completion.AssertNumberOfCalls(t, "Trigger", 1)
	h.waitImages(t, results[0])
}
