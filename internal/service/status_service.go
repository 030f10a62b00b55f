package service

import (
	"context"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type statusServiceImpl struct {
	stories  interfaces.StoryRepository
	turns    interfaces.TurnRepository
	registry *ImageTasks
	logger   *zap.Logger
}

// NewStatusService creates the read-only completion poller.
func NewStatusService(stories interfaces.StoryRepository, turns interfaces.TurnRepository, registry *ImageTasks, logger *zap.Logger) StatusService {
	return &statusServiceImpl{
		stories:  stories,
		turns:    turns,
		registry: registry,
		logger:   logger.Named("StatusService"),
	}
}

// TurnStatus reads the turn's image columns. Each column is written by a single
// atomic update, so a read never sees a half-written path.
func (s *statusServiceImpl) TurnStatus(ctx context.Context, userID, turnID uuid.UUID) (*models.TurnStatus, error) {
	turn, err := s.turns.GetByID(ctx, turnID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedStory(ctx, s.stories, userID, turn.StoryID); err != nil {
		return nil, err
	}
	status := models.StatusOf(turn, s.registry.Settled(turnID))
	return &status, nil
}
