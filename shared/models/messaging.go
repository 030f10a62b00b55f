package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientTurnUpdate is pushed over the websocket when a turn's illustrations settle.
type ClientTurnUpdate struct {
	Type           UpdateType `json:"type"`
	StoryID        string     `json:"story_id"`
	TurnID         string     `json:"turn_id,omitempty"`
	UserID         string     `json:"user_id"`
	State          TurnState  `json:"state,omitempty"`
	UserImageReady bool       `json:"user_image_ready"`
	AIImageReady   bool       `json:"ai_image_ready"`
}

// UpdateType is the kind of a ClientTurnUpdate.
type UpdateType string

const (
	UpdateTypeTurnImages     UpdateType = "turn_images_updated"
	UpdateTypeStoryCompleted UpdateType = "story_completed"
)

// StoryCompletedEvent is published once the comic has been compiled and mailed.
type StoryCompletedEvent struct {
	StoryID     uuid.UUID `json:"story_id"`
	UserID      uuid.UUID `json:"user_id"`
	PDFPath     string    `json:"pdf_path"`
	EmailSent   bool      `json:"email_sent"`
	CompletedAt time.Time `json:"completed_at"`
}
