package interfaces

import (
	"context"
	"story-wall/shared/models"

	"github.com/google/uuid"
)

// TurnRepository persists story turns. Turns are never reordered or deleted.
type TurnRepository interface {
	// Create inserts the turn. A taken (story_id, turn_index) pair yields models.ErrTurnConflict.
	Create(ctx context.Context, turn *models.StoryTurn) error

	// ListByStory returns turns ordered by turn_index.
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.StoryTurn, error)

	// GetByID returns models.ErrTurnNotFound if the turn does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoryTurn, error)

	// CountByStory returns the number of stored turns.
	CountByStory(ctx context.Context, storyID uuid.UUID) (int, error)

	// SetUserImage writes the user panel path only if it is still NULL.
	SetUserImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error)

	// SetAIImage writes the AI panel path only if it is still NULL.
	SetAIImage(ctx context.Context, turnID uuid.UUID, path string) (bool, error)
}
