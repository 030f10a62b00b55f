package interfaces

import (
	"context"
	"story-wall/shared/models"

	"github.com/google/uuid"
)

// ThemeRepository reads the theme catalog.
type ThemeRepository interface {
	// List returns all themes ordered by name.
	List(ctx context.Context) ([]models.Theme, error)

	// GetByID returns models.ErrThemeNotFound when the theme does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Theme, error)

	// Upsert inserts the theme or refreshes its description by name. Used by the seed command.
	Upsert(ctx context.Context, theme *models.Theme) error
}
