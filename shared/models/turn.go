package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryTurn is one user-input/AI-reply exchange. Text is set at creation;
// image paths are filled in later by the turn's single background task.
type StoryTurn struct {
	ID          uuid.UUID `db:"id" json:"id"`
	StoryID     uuid.UUID `db:"story_id" json:"story_id"`
	TurnIndex   int       `db:"turn_index" json:"turn_index"`
	UserInput   string    `db:"user_input" json:"user_input"`
	AIResponse  string    `db:"ai_response" json:"ai_response"`
	UserImgPath *string   `db:"user_img_path" json:"user_img_path,omitempty"`
	AIImgPath   *string   `db:"ai_img_path" json:"ai_img_path,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TurnState tracks a turn through the orchestrator.
type TurnState string

const (
	TurnStateAwaitingInput  TurnState = "awaiting_input"
	TurnStateTextGenerated  TurnState = "text_generated"
	TurnStatePersisted      TurnState = "persisted"
	TurnStateImagesPending  TurnState = "images_pending"
	TurnStateImagesComplete TurnState = "images_complete"
	TurnStateImagesPartial  TurnState = "images_partial"
)

// TurnStatus is the point-in-time answer of the completion poller.
type TurnStatus struct {
	TurnID         uuid.UUID `json:"turn_id"`
	StoryID        uuid.UUID `json:"story_id"`
	State          TurnState `json:"state"`
	UserImageReady bool      `json:"user_image_ready"`
	AIImageReady   bool      `json:"ai_image_ready"`
	UserImagePath  string    `json:"user_image_path,omitempty"`
	AIImagePath    string    `json:"ai_image_path,omitempty"`
}

// StatusOf builds the poller view of a turn. imagesSettled tells whether the
// background task has finished; without it a turn with missing images is pending.
func StatusOf(t *StoryTurn, imagesSettled bool) TurnStatus {
	st := TurnStatus{TurnID: t.ID, StoryID: t.StoryID}
	if t.UserImgPath != nil && *t.UserImgPath != "" {
		st.UserImageReady = true
		st.UserImagePath = *t.UserImgPath
	}
	if t.AIImgPath != nil && *t.AIImgPath != "" {
		st.AIImageReady = true
		st.AIImagePath = *t.AIImgPath
	}
	switch {
	case st.UserImageReady && st.AIImageReady:
		st.State = TurnStateImagesComplete
	case imagesSettled:
		st.State = TurnStateImagesPartial
	default:
		st.State = TurnStateImagesPending
	}
	return st
}
