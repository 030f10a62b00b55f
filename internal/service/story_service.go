package service

import (
	"context"
	"fmt"
	"strings"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type storyServiceImpl struct {
	themes    interfaces.ThemeRepository
	stories   interfaces.StoryRepository
	turns     interfaces.TurnRepository
	text      interfaces.TextGenerator
	images    interfaces.ImageGenerator
	threshold int
	logger    *zap.Logger
}

// NewStoryService creates a StoryService. A threshold <= 0 uses models.DefaultTurnThreshold.
func NewStoryService(
	themes interfaces.ThemeRepository,
	stories interfaces.StoryRepository,
	turns interfaces.TurnRepository,
	text interfaces.TextGenerator,
	images interfaces.ImageGenerator,
	threshold int,
	logger *zap.Logger,
) StoryService {
	if threshold <= 0 {
		threshold = models.DefaultTurnThreshold
	}
	return &storyServiceImpl{
		themes:    themes,
		stories:   stories,
		turns:     turns,
		text:      text,
		images:    images,
		threshold: threshold,
		logger:    logger.Named("StoryService"),
	}
}

func (s *storyServiceImpl) ListThemes(ctx context.Context) ([]models.Theme, error) {
	return s.themes.List(ctx)
}

// StartStory generates the plot text and the plot storyboard synchronously,
// then persists the story. A failed illustration leaves the plot image empty.
func (s *storyServiceImpl) StartStory(ctx context.Context, userID, themeID uuid.UUID, characterName string) (*models.Story, error) {
	characterName = strings.TrimSpace(characterName)
	if characterName == "" {
		return nil, fmt.Errorf("%w: character name is required", models.ErrInvalidInput)
	}
	log := s.logger.With(zap.String("userID", userID.String()), zap.String("themeID", themeID.String()))

	theme, err := s.themes.GetByID(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("resolve theme: %w", err)
	}

	plot := s.text.GenerateText(ctx, models.TextRequest{
		Role:             models.RolePlot,
		ThemeDescription: theme.Description,
		CharacterName:    characterName,
	})
	story := &models.Story{
		UserID:        userID,
		ThemeID:       theme.ID,
		ThemeName:     theme.Name,
		CharacterName: characterName,
		PlotText:      plot,
	}
	if path, ok := s.images.GenerateImage(ctx, models.ImageRequest{Layout: models.LayoutPlot, Source: plot, CharacterName: characterName}); ok {
		story.PlotImagePath = &path
	} else {
		log.Warn("Plot illustration unavailable")
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	storiesStartedTotal.Inc()
	log.Info("Story started", zap.String("storyID", story.ID.String()))
	return story, nil
}

func (s *storyServiceImpl) GetStoryDetails(ctx context.Context, userID, storyID uuid.UUID) (*models.StoryDetails, error) {
	story, err := ownedStory(ctx, s.stories, userID, storyID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.ListByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return &models.StoryDetails{
		Story:     story,
		Turns:     turns,
		Threshold: s.threshold,
		Completed: len(turns) >= s.threshold,
	}, nil
}

// ownedStory loads a story and checks that userID owns it.
func ownedStory(ctx context.Context, stories interfaces.StoryRepository, userID, storyID uuid.UUID) (*models.Story, error) {
	story, err := stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != userID {
		return nil, models.ErrForbidden
	}
	return story, nil
}
