package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"story-wall/internal/dispatch"
	"story-wall/internal/mocks"
	"story-wall/internal/storage"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	stories    *mocks.MockStoryRepository
	users      *mocks.MockUserRepository
	mailer     *mocks.MockMailer
	media      *storage.Media
	dispatcher *dispatch.Dispatcher
	story      *models.Story
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stories: new(mocks.MockStoryRepository),
		users:   new(mocks.MockUserRepository),
		mailer:  new(mocks.MockMailer),
		media:   storage.NewMedia(t.TempDir(), zap.NewNop()),
	}
	require.NoError(t, f.media.EnsureLayout())
	f.dispatcher = dispatch.NewDispatcher(f.stories, f.users, f.media, f.mailer, zap.NewNop())

	pdf, err := f.media.Save(storage.DirPDFs, "comic", "pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	f.story = &models.Story{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		CharacterName: "Alice",
		ThemeName:     "Fantasy",
		PDFPath:       &pdf,
	}
	t.Cleanup(func() {
		f.stories.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})
	return f
}

func TestMessageContents(t *testing.T) {
	assert.Equal(t, "Your Comic Story: Alice's Fantasy Adventure", dispatch.Subject("Alice", "Fantasy"))
	assert.Equal(t, "Alice_comic.pdf", dispatch.AttachmentName("Alice"))
	body := dispatch.Body("Alice", "Fantasy")
	assert.Contains(t, body, "Attached is your comic book featuring Alice in a Fantasy adventure.")
	assert.Contains(t, body, "AI Story Wall Team")
}

func TestDispatch_Sends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.story.ID
	abs, err := f.media.Abs(*f.story.PDFPath)
	require.NoError(t, err)

	f.stories.On("GetByID", ctx, id).Return(f.story, nil).Once()
	f.users.On("GetByID", ctx, f.story.UserID).Return(&models.User{ID: f.story.UserID, Email: "a@example.com"}, nil).Once()
	f.stories.On("ClaimDispatch", ctx, id).Return(true, nil).Once()
	f.mailer.On("Enabled").Return(true)
	f.mailer.On("Send", ctx, dispatch.Message{
		To:             "a@example.com",
		Subject:        "Your Comic Story: Alice's Fantasy Adventure",
		Body:           dispatch.Body("Alice", "Fantasy"),
		AttachmentPath: abs,
		AttachmentName: "Alice_comic.pdf",
	}).Return(nil).Once()
	f.stories.On("MarkEmailSent", mock.Anything, id).Return(true, nil).Once()

	sent, err := f.dispatcher.Dispatch(ctx, id)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestDispatch_ArtifactMissing(t *testing.T) {
	ctx := context.Background()

	t.Run("no path", func(t *testing.T) {
		f := newFixture(t)
		f.story.PDFPath = nil
		f.stories.On("GetByID", ctx, f.story.ID).Return(f.story, nil).Once()

		sent, err := f.dispatcher.Dispatch(ctx, f.story.ID)
		assert.False(t, sent)
		assert.ErrorIs(t, err, models.ErrArtifactMissing)
	})

	t.Run("file deleted", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.media.Remove(*f.story.PDFPath))
		f.stories.On("GetByID", ctx, f.story.ID).Return(f.story, nil).Once()

		sent, err := f.dispatcher.Dispatch(ctx, f.story.ID)
		assert.False(t, sent)
		assert.ErrorIs(t, err, models.ErrArtifactMissing)
		f.stories.AssertNotCalled(t, "ClaimDispatch", mock.Anything, mock.Anything)
		f.stories.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything)
	})
}

func TestDispatch_AlreadyDispatched(t *testing.T) {
	ctx := context.Background()

	t.Run("flag set", func(t *testing.T) {
		f := newFixture(t)
		f.story.EmailSent = true
		f.stories.On("GetByID", ctx, f.story.ID).Return(f.story, nil).Once()

		sent, err := f.dispatcher.Dispatch(ctx, f.story.ID)
		assert.False(t, sent)
		assert.ErrorIs(t, err, models.ErrAlreadyDispatched)
	})

	t.Run("claim lost", func(t *testing.T) {
		f := newFixture(t)
		f.stories.On("GetByID", ctx, f.story.ID).Return(f.story, nil).Once()
		f.users.On("GetByID", ctx, f.story.UserID).Return(&models.User{Email: "a@example.com"}, nil).Once()
		f.mailer.On("Enabled").Return(true)
		f.stories.On("ClaimDispatch", ctx, f.story.ID).Return(false, nil).Once()

		sent, err := f.dispatcher.Dispatch(ctx, f.story.ID)
		assert.False(t, sent)
		assert.ErrorIs(t, err, models.ErrAlreadyDispatched)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestDispatch_SendFailureReleasesClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.story.ID

	f.stories.On("GetByID", ctx, id).Return(f.story, nil).Once()
	f.users.On("GetByID", ctx, f.story.UserID).Return(&models.User{Email: "a@example.com"}, nil).Once()
	f.mailer.On("Enabled").Return(true)
	f.stories.On("ClaimDispatch", ctx, id).Return(true, nil).Once()
	f.mailer.On("Send", ctx, mock.AnythingOfType("dispatch.Message")).Return(errors.New("421 try later")).Once()
	f.stories.On("ReleaseDispatch", mock.Anything, id).Return(nil).Once()

	sent, err := f.dispatcher.Dispatch(ctx, id)
	assert.False(t, sent)
	assert.ErrorIs(t, err, models.ErrProviderCallFailed)
	f.stories.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything)
}

func TestDispatch_MailerDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stories.On("GetByID", ctx, f.story.ID).Return(f.story, nil).Once()
	f.mailer.On("Enabled").Return(false)

	sent, err := f.dispatcher.Dispatch(ctx, f.story.ID)
	assert.False(t, sent)
	assert.ErrorIs(t, err, models.ErrProviderUnconfigured)
}

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	m := dispatch.NewMailer(dispatch.SMTPConfig{}, zap.NewNop())
	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), dispatch.Message{Subject: "x"}), models.ErrProviderUnconfigured)

	assert.True(t, dispatch.NewMailer(dispatch.SMTPConfig{Host: "smtp.example.com"}, zap.NewNop()).Enabled())
}
