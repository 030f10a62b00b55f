package interfaces

import (
	"context"
	"story-wall/shared/models"
)

// StoryEventPublisher publishes story lifecycle events to the broker.
type StoryEventPublisher interface {
	PublishStoryCompleted(ctx context.Context, event models.StoryCompletedEvent) error
	Close() error
}
