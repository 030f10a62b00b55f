package service_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"story-wall/internal/comic"
	"story-wall/internal/dispatch"
	"story-wall/internal/mocks"
	"story-wall/internal/service"
	"story-wall/internal/storage"
	"story-wall/pkg/taskmanager"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// panelPainter stores a small PNG per request. Requests whose source ends with
// holdSuffix wait for release before storing anything.
type panelPainter struct {
	media      *storage.Media
	holdSuffix string
	release    chan struct{}
	once       sync.Once
}

func (p *panelPainter) GenerateImage(ctx context.Context, req models.ImageRequest) (string, bool) {
	if strings.HasSuffix(req.Source, p.holdSuffix) {
		select {
		case <-p.release:
		case <-ctx.Done():
			return "", false
		}
	}
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", false
	}
	rel, err := p.media.Save(storage.DirResponses, string(req.Layout), "png", buf.Bytes())
	if err != nil {
		return "", false
	}
	return rel, true
}

func (p *panelPainter) unblock() {
	p.once.Do(func() { close(p.release) })
}

func lastUserLine(transcript string) string {
	i := strings.LastIndex(transcript, "User: ")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(transcript[i+len("User: "):])
}

func TestStoryLifecycle_TenthTurnCompilesAndMailsOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	stories, turns := memStories{store}, memTurns{store}
	media := storage.NewMedia(t.TempDir(), zap.NewNop())
	require.NoError(t, media.EnsureLayout())

	tasks := taskmanager.New(taskmanager.Config{}, zap.NewNop())
	painter := &panelPainter{media: media, holdSuffix: "move 10", release: make(chan struct{})}
	t.Cleanup(func() {
		painter.unblock()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tasks.Shutdown(shutdownCtx)
	})

	story := &models.Story{UserID: uuid.New(), ThemeName: "Space", CharacterName: "Alice", PlotText: "A ship drifts."}
	require.NoError(t, stories.Create(ctx, story))

	text := mocks.NewMockTextGenerator(t)
	text.On("GenerateText", mock.Anything, mock.Anything).Return(func(_ context.Context, req models.TextRequest) string {
		return "reply to " + lastUserLine(req.Context)
	})
	users := mocks.NewMockUserRepository(t)
	users.On("GetByID", mock.Anything, story.UserID).Return(&models.User{ID: story.UserID, Email: "alice@example.com"}, nil)
	mailer := mocks.NewMockMailer(t)
	mailer.On("Enabled").Return(true)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m dispatch.Message) bool {
		return m.To == "alice@example.com" && m.AttachmentName == "Alice_comic.pdf"
	})).Return(nil).Once()
	publisher := mocks.NewMockStoryEventPublisher(t)
	publisher.On("PublishStoryCompleted", mock.Anything, mock.MatchedBy(func(e models.StoryCompletedEvent) bool {
		return e.StoryID == story.ID && e.EmailSent
	})).Return(nil).Once()

	completion := service.NewCompletionService(stories,
		comic.NewCompiler(stories, turns, media, zap.NewNop()),
		dispatch.NewDispatcher(stories, users, media, mailer, zap.NewNop()),
		publisher, tasks, service.CompletionConfig{}, zap.NewNop())
	svc := service.NewTurnService(stories, turns, text, painter, media, tasks,
		service.NewImageTasks(tasks, time.Hour), completion, 0, zap.NewNop())

	var tenth *service.TurnResult
	for i := 1; i <= models.DefaultTurnThreshold; i++ {
		res, err := svc.SubmitTurn(ctx, story.UserID, story.ID, fmt.Sprintf("move %d", i))
		require.NoError(t, err)
		assert.Equal(t, i == models.DefaultTurnThreshold, res.Completed, "turn %d", i)
		if i < models.DefaultTurnThreshold {
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_, err = tasks.Wait(waitCtx, res.ImageTaskID)
			cancel()
			require.NoError(t, err)
		}
		tenth = res
	}

	mailer.AssertNumberOfCalls(t, "Send", 1)
	compiled, err := stories.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.True(t, compiled.EmailSent)
	require.True(t, compiled.HasPDF())

	data, err := media.Read(*compiled.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, 6, bytes.Count(data, []byte("<</Type /Page\n")), "cover plus five pair pages")
	assert.Equal(t, 18, bytes.Count(data, []byte("/Subtype /Image")), "panels of turns 1-9 only")

	_, err = svc.SubmitTurn(ctx, story.UserID, story.ID, "move 11")
	assert.ErrorIs(t, err, models.ErrStoryCompleted)

	painter.unblock()
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = tasks.Wait(waitCtx, tenth.ImageTaskID)
	require.NoError(t, err)

	again, err := completion.Complete(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, *compiled.PDFPath, again.PDFPath)
	assert.False(t, again.EmailSent)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}
