package interfaces

import (
	"context"
	"story-wall/shared/models"

	"github.com/google/uuid"
)

// StoryRepository persists story sessions. Write-once fields are guarded in SQL.
type StoryRepository interface {
	// Create inserts the story and fills ID and timestamps.
	Create(ctx context.Context, story *models.Story) error

	// GetByID returns the story joined with its theme name.
	// Returns models.ErrStoryNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)

	// SetPlotImagePath records the plot image if none is recorded yet.
	SetPlotImagePath(ctx context.Context, id uuid.UUID, path string) (bool, error)

	// SetPDFPath records the compiled document if none is recorded yet.
	SetPDFPath(ctx context.Context, id uuid.UUID, path string) (bool, error)

	// ClaimDispatch flips dispatch_claimed false->true. Returns false if already claimed.
	ClaimDispatch(ctx context.Context, id uuid.UUID) (bool, error)

	// ReleaseDispatch clears a claim whose delivery failed, unless the email was already sent.
	ReleaseDispatch(ctx context.Context, id uuid.UUID) error

	// MarkEmailSent flips email_sent false->true. Returns false if it was already set.
	MarkEmailSent(ctx context.Context, id uuid.UUID) (bool, error)
}
