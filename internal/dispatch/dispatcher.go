package dispatch

import (
	"context"
	"errors"
	"fmt"

	"story-wall/internal/comic"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var dispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "story_wall_dispatch_total",
		Help: "Total number of comic dispatch attempts by outcome.",
	},
	[]string{"status"},
)

const bodyTemplate = `Hello!

Thank you for creating a story with AI Story Wall.

Attached is your comic book featuring %s in a %s adventure.

Enjoy your comic!

Best regards,
AI Story Wall Team`

// ArtifactLocator resolves stored media paths.
type ArtifactLocator interface {
	Abs(rel string) (string, error)
	Exists(rel string) bool
}

// Dispatcher emails a compiled comic to the story owner at most once.
type Dispatcher struct {
	stories interfaces.StoryRepository
	users   interfaces.UserRepository
	media   ArtifactLocator
	mailer  Mailer
	logger  *zap.Logger
}

func NewDispatcher(stories interfaces.StoryRepository, users interfaces.UserRepository, media ArtifactLocator, mailer Mailer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		stories: stories,
		users:   users,
		media:   media,
		mailer:  mailer,
		logger:  logger.Named("Dispatcher"),
	}
}

// Subject is the email subject for a story.
func Subject(character, theme string) string {
	return "Your Comic Story: " + comic.Title(character, theme)
}

// Body is the fixed email body for a story.
func Body(character, theme string) string {
	return fmt.Sprintf(bodyTemplate, character, theme)
}

// AttachmentName is the file name the comic is attached under.
func AttachmentName(character string) string {
	return character + "_comic.pdf"
}

// Dispatch sends the story's comic. It returns true only when this call sent
// the email. A missing artifact leaves the sent flag untouched; a send failure
// releases the claim so a later call may try again.
func (d *Dispatcher) Dispatch(ctx context.Context, storyID uuid.UUID) (bool, error) {
	log := d.logger.With(zap.String("storyID", storyID.String()))

	story, err := d.stories.GetByID(ctx, storyID)
	if err != nil {
		return false, fmt.Errorf("load story for dispatch: %w", err)
	}
	if story.EmailSent {
		dispatchTotal.WithLabelValues("already_sent").Inc()
		return false, models.ErrAlreadyDispatched
	}
	if !story.HasPDF() || !d.media.Exists(*story.PDFPath) {
		log.Warn("Comic artifact missing, nothing to send")
		dispatchTotal.WithLabelValues("artifact_missing").Inc()
		return false, models.ErrArtifactMissing
	}
	if !d.mailer.Enabled() {
		log.Warn("Mailer not configured, comic not sent")
		dispatchTotal.WithLabelValues("unconfigured").Inc()
		return false, models.ErrProviderUnconfigured
	}
	abs, err := d.media.Abs(*story.PDFPath)
	if err != nil {
		return false, fmt.Errorf("resolve comic path: %w", err)
	}
	user, err := d.users.GetByID(ctx, story.UserID)
	if err != nil {
		return false, fmt.Errorf("load story owner: %w", err)
	}

	claimed, err := d.stories.ClaimDispatch(ctx, storyID)
	if err != nil {
		return false, fmt.Errorf("claim dispatch: %w", err)
	}
	if !claimed {
		log.Info("Dispatch already claimed")
		dispatchTotal.WithLabelValues("already_sent").Inc()
		return false, models.ErrAlreadyDispatched
	}

	msg := Message{
		To:             user.Email,
		Subject:        Subject(story.CharacterName, story.ThemeName),
		Body:           Body(story.CharacterName, story.ThemeName),
		AttachmentPath: abs,
		AttachmentName: AttachmentName(story.CharacterName),
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		if relErr := d.stories.ReleaseDispatch(context.WithoutCancel(ctx), storyID); relErr != nil {
			log.Error("Failed to release dispatch claim", zap.Error(relErr))
		}
		dispatchTotal.WithLabelValues("error").Inc()
		if errors.Is(err, models.ErrProviderUnconfigured) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", models.ErrProviderCallFailed, err)
	}

	if _, err := d.stories.MarkEmailSent(context.WithoutCancel(ctx), storyID); err != nil {
		// The claim stays held, so the email is not sent twice.
		log.Error("Email sent but flag not recorded", zap.Error(err))
		dispatchTotal.WithLabelValues("success").Inc()
		return true, fmt.Errorf("record email sent: %w", err)
	}
	dispatchTotal.WithLabelValues("success").Inc()
	log.Info("Comic dispatched", zap.String("attachment", msg.AttachmentName))
	return true, nil
}
