package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"story-wall/pkg/taskmanager"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TaskKindTurnImages is the task kind of a turn's illustration job. It doubles
// as the websocket message type pushed to the story owner.
const TaskKindTurnImages = string(models.UpdateTypeTurnImages)

// MediaRemover deletes stored media files.
type MediaRemover interface {
	Remove(rel string) error
}

type turnServiceImpl struct {
	stories    interfaces.StoryRepository
	turns      interfaces.TurnRepository
	text       interfaces.TextGenerator
	images     interfaces.ImageGenerator
	media      MediaRemover
	tasks      taskmanager.ITaskManager
	registry   *ImageTasks
	completion CompletionService
	threshold  int
	logger     *zap.Logger
}

// NewTurnService creates the turn orchestrator. A threshold <= 0 uses models.DefaultTurnThreshold.
func NewTurnService(
	stories interfaces.StoryRepository,
	turns interfaces.TurnRepository,
	text interfaces.TextGenerator,
	images interfaces.ImageGenerator,
	media MediaRemover,
	tasks taskmanager.ITaskManager,
	registry *ImageTasks,
	completion CompletionService,
	threshold int,
	logger *zap.Logger,
) TurnService {
	if threshold <= 0 {
		threshold = models.DefaultTurnThreshold
	}
	return &turnServiceImpl{
		stories:    stories,
		turns:      turns,
		text:       text,
		images:     images,
		media:      media,
		tasks:      tasks,
		registry:   registry,
		completion: completion,
		threshold:  threshold,
		logger:     logger.Named("TurnService"),
	}
}

// BuildContext renders the transcript handed to the continuation prompt.
func BuildContext(story *models.Story, prior []models.StoryTurn, userInput string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Theme: %s\nCharacter: %s\nPlot: %s\n", story.ThemeName, story.CharacterName, story.PlotText)
	for _, t := range prior {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", t.UserInput, t.AIResponse)
	}
	fmt.Fprintf(&b, "User: %s\n", userInput)
	return b.String()
}

func validateInput(userInput string) (string, error) {
	trimmed := strings.TrimSpace(userInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: user input is empty", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(trimmed) > models.MaxUserInputLength {
		return "", fmt.Errorf("%w: user input exceeds %d characters", models.ErrInvalidInput, models.MaxUserInputLength)
	}
	return trimmed, nil
}

// SubmitTurn generates the AI reply and persists the turn synchronously, then
// starts the turn's single illustration task. The turn that reaches the
// threshold hands the story to the completion service.
func (s *turnServiceImpl) SubmitTurn(ctx context.Context, userID, storyID uuid.UUID, userInput string) (*TurnResult, error) {
	input, err := validateInput(userInput)
	if err != nil {
		return nil, err
	}
	story, err := ownedStory(ctx, s.stories, userID, storyID)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("storyID", storyID.String()))

	prior, err := s.turns.ListByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	if len(prior) >= s.threshold {
		return nil, models.ErrStoryCompleted
	}
	log.Debug("Turn state", zap.String("state", string(models.TurnStateAwaitingInput)), zap.Int("priorTurns", len(prior)))

	reply := s.text.GenerateText(ctx, models.TextRequest{
		Role:          models.RoleContinuation,
		Context:       BuildContext(story, prior, input),
		CharacterName: story.CharacterName,
	})
	log.Debug("Turn state", zap.String("state", string(models.TurnStateTextGenerated)))

	turn := &models.StoryTurn{
		StoryID:    storyID,
		TurnIndex:  len(prior) + 1,
		UserInput:  input,
		AIResponse: reply,
	}
	if err := s.turns.Create(ctx, turn); err != nil {
		if errors.Is(err, models.ErrTurnConflict) {
			log.Warn("Concurrent submission took this turn index", zap.Int("turnIndex", turn.TurnIndex))
		}
		return nil, fmt.Errorf("persist turn: %w", err)
	}
	turnsCreatedTotal.Inc()
	log = log.With(zap.String("turnID", turn.ID.String()), zap.Int("turnIndex", turn.TurnIndex))
	log.Info("Turn persisted", zap.String("state", string(models.TurnStatePersisted)))

	result := &TurnResult{Turn: turn}
	taskID, err := s.tasks.SubmitTaskWithOwner(ctx, TaskKindTurnImages, s.illustrateTurn, illustration{
		turn:      *turn,
		character: story.CharacterName,
		userID:    userID,
	}, userID.String())
	if err != nil {
		log.Error("Failed to start illustration task, turn stays without images", zap.Error(err))
	} else {
		result.ImageTaskID = taskID
		s.registry.Track(turn.ID, taskID)
		log.Debug("Turn state", zap.String("state", string(models.TurnStateImagesPending)), zap.String("taskID", taskID.String()))
	}

	if turn.TurnIndex == s.threshold {
		result.Completed = true
		log.Info("Story reached turn threshold", zap.Int("threshold", s.threshold))
		s.completion.Trigger(ctx, story, result.ImageTaskID)
	}
	return result, nil
}

type illustration struct {
	turn      models.StoryTurn
	character string
	userID    uuid.UUID
}

// illustrateTurn is the background task: both panels are generated
// concurrently and each path is written with its own compare-and-set.
// Failures only log; the task always succeeds so its result reaches the owner.
func (s *turnServiceImpl) illustrateTurn(ctx context.Context, params interface{}) (interface{}, error) {
	p, ok := params.(illustration)
	if !ok {
		return nil, fmt.Errorf("unexpected illustration params %T", params)
	}
	log := s.logger.With(zap.String("turnID", p.turn.ID.String()))

	var (
		g                errgroup.Group
		userDone, aiDone bool
	)
	g.Go(func() error {
		userDone = s.illustratePanel(ctx, log, models.ImageRequest{
			Layout: models.LayoutUser, Source: p.turn.UserInput, CharacterName: p.character,
		}, s.turns.SetUserImage, p.turn.ID)
		return nil
	})
	g.Go(func() error {
		aiDone = s.illustratePanel(ctx, log, models.ImageRequest{
			Layout: models.LayoutAI, Source: p.turn.AIResponse, CharacterName: p.character,
		}, s.turns.SetAIImage, p.turn.ID)
		return nil
	})
	_ = g.Wait()

	state := models.TurnStateImagesPartial
	if userDone && aiDone {
		state = models.TurnStateImagesComplete
	}
	turnImagesTotal.WithLabelValues(string(state)).Inc()
	log.Info("Turn illustrations settled", zap.String("state", string(state)),
		zap.Bool("userImage", userDone), zap.Bool("aiImage", aiDone))

	return models.ClientTurnUpdate{
		Type:           models.UpdateTypeTurnImages,
		StoryID:        p.turn.StoryID.String(),
		TurnID:         p.turn.ID.String(),
		UserID:         p.userID.String(),
		State:          state,
		UserImageReady: userDone,
		AIImageReady:   aiDone,
	}, nil
}

type pathSetter func(ctx context.Context, turnID uuid.UUID, path string) (bool, error)

func (s *turnServiceImpl) illustratePanel(ctx context.Context, log *zap.Logger, req models.ImageRequest, set pathSetter, turnID uuid.UUID) bool {
	path, ok := s.images.GenerateImage(ctx, req)
	if !ok {
		log.Warn("Panel illustration unavailable", zap.String("layout", string(req.Layout)))
		return false
	}
	won, err := set(ctx, turnID, path)
	if err == nil && won {
		return true
	}
	if err != nil {
		log.Error("Failed to record panel path", zap.String("layout", string(req.Layout)), zap.Error(err))
	} else {
		log.Warn("Panel path already recorded, dropping duplicate", zap.String("layout", string(req.Layout)))
	}
	if rmErr := s.media.Remove(path); rmErr != nil {
		log.Warn("Failed to remove orphan panel", zap.String("path", path), zap.Error(rmErr))
	}
	// A lost compare-and-set still leaves a recorded panel.
	return err == nil
}
