package interfaces

import (
	"context"
	"story-wall/shared/models"
)

// TextGenerator never fails: provider problems degrade to a fixed fallback string.
type TextGenerator interface {
	GenerateText(ctx context.Context, req models.TextRequest) string
}

// ImageGenerator returns a media-relative path, or ok=false when the illustration is unavailable.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req models.ImageRequest) (path string, ok bool)
}
