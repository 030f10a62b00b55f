package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-wall/pkg/taskmanager"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskKindStoryCompleted is the task kind of the compile-and-dispatch job and
// the websocket message type announcing it.
const TaskKindStoryCompleted = string(models.UpdateTypeStoryCompleted)

const defaultAwaitTimeout = 2 * time.Minute

// Compiler renders a story's comic and returns its stored path.
type Compiler interface {
	Compile(ctx context.Context, storyID uuid.UUID) (string, error)
}

// Dispatcher emails a compiled comic.
type Dispatcher interface {
	Dispatch(ctx context.Context, storyID uuid.UUID) (bool, error)
}

type completionServiceImpl struct {
	stories    interfaces.StoryRepository
	compiler   Compiler
	dispatcher Dispatcher
	publisher  interfaces.StoryEventPublisher
	tasks      taskmanager.ITaskManager
	cfg        CompletionConfig
	logger     *zap.Logger
}

// NewCompletionService creates the threshold handoff.
func NewCompletionService(
	stories interfaces.StoryRepository,
	compiler Compiler,
	dispatcher Dispatcher,
	publisher interfaces.StoryEventPublisher,
	tasks taskmanager.ITaskManager,
	cfg CompletionConfig,
	logger *zap.Logger,
) CompletionService {
	if cfg.AwaitTimeout <= 0 {
		cfg.AwaitTimeout = defaultAwaitTimeout
	}
	return &completionServiceImpl{
		stories:    stories,
		compiler:   compiler,
		dispatcher: dispatcher,
		publisher:  publisher,
		tasks:      tasks,
		cfg:        cfg,
		logger:     logger.Named("CompletionService"),
	}
}

type completionParams struct {
	story       *models.Story
	imageTaskID uuid.UUID
}

func (s *completionServiceImpl) Trigger(ctx context.Context, story *models.Story, imageTaskID uuid.UUID) {
	log := s.logger.With(zap.String("storyID", story.ID.String()))
	params := completionParams{story: story, imageTaskID: imageTaskID}

	if s.cfg.Async {
		taskID, err := s.tasks.SubmitTaskWithOwner(ctx, TaskKindStoryCompleted, s.run, params, story.UserID.String())
		if err == nil {
			log.Info("Completion scheduled", zap.String("taskID", taskID.String()))
			return
		}
		log.Error("Failed to schedule completion, running inline", zap.Error(err))
	}
	if _, err := s.run(ctx, params); err != nil {
		log.Error("Story completion failed", zap.Error(err))
	}
}

func (s *completionServiceImpl) run(ctx context.Context, params interface{}) (interface{}, error) {
	p, ok := params.(completionParams)
	if !ok {
		return nil, fmt.Errorf("unexpected completion params %T", params)
	}
	if s.cfg.AwaitImages && p.imageTaskID != uuid.Nil {
		s.awaitImages(ctx, p.story.ID, p.imageTaskID)
	}
	if _, err := s.Complete(ctx, p.story.ID); err != nil {
		return nil, err
	}
	return models.ClientTurnUpdate{
		Type:    models.UpdateTypeStoryCompleted,
		StoryID: p.story.ID.String(),
		UserID:  p.story.UserID.String(),
	}, nil
}

func (s *completionServiceImpl) awaitImages(ctx context.Context, storyID, taskID uuid.UUID) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.AwaitTimeout)
	defer cancel()
	if _, err := s.tasks.Wait(waitCtx, taskID); err != nil {
		s.logger.Warn("Final illustrations not settled, compiling without waiting further",
			zap.String("storyID", storyID.String()), zap.Error(err))
	}
}

// Complete compiles the comic (once) and dispatches it (at most once). An
// unconfigured mailer or an already-sent email is not an error.
func (s *completionServiceImpl) Complete(ctx context.Context, storyID uuid.UUID) (*CompletionResult, error) {
	log := s.logger.With(zap.String("storyID", storyID.String()))

	path, err := s.compiler.Compile(ctx, storyID)
	if err != nil {
		completionsTotal.WithLabelValues("compile_error").Inc()
		return nil, fmt.Errorf("compile comic: %w", err)
	}
	res := &CompletionResult{PDFPath: path}

	sent, err := s.dispatcher.Dispatch(ctx, storyID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrAlreadyDispatched):
		log.Info("Comic already dispatched")
		completionsTotal.WithLabelValues("already_dispatched").Inc()
		return res, nil
	case errors.Is(err, models.ErrProviderUnconfigured):
		log.Warn("Comic compiled but not emailed: mailer not configured", zap.String("path", path))
		completionsTotal.WithLabelValues("undelivered").Inc()
		return res, nil
	default:
		if !sent {
			completionsTotal.WithLabelValues("dispatch_error").Inc()
			return res, fmt.Errorf("dispatch comic: %w", err)
		}
		log.Error("Comic dispatched with bookkeeping error", zap.Error(err))
	}
	res.EmailSent = sent

	if sent {
		s.publishCompleted(ctx, storyID, path)
	}
	completionsTotal.WithLabelValues("success").Inc()
	log.Info("Story completed", zap.String("path", path), zap.Bool("emailSent", sent))
	return res, nil
}

// publishCompleted is best-effort: the comic is already delivered.
func (s *completionServiceImpl) publishCompleted(ctx context.Context, storyID uuid.UUID, path string) {
	log := s.logger.With(zap.String("storyID", storyID.String()))
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		log.Warn("Story completed event not published: story reload failed", zap.Error(err))
		return
	}
	event := models.StoryCompletedEvent{
		StoryID:     storyID,
		UserID:      story.UserID,
		PDFPath:     path,
		EmailSent:   true,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishStoryCompleted(ctx, event); err != nil {
		log.Warn("Story completed event not published", zap.Error(err))
	}
}
