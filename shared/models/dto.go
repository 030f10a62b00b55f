package models

import "github.com/google/uuid"

// MaxUserInputLength bounds a single turn submission, counted in characters.
const MaxUserInputLength = 2000

// --- Request DTOs ---

// StartVisitRequest starts a visitor session by email.
type StartVisitRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// StartStoryRequest is the setup form: a theme and a character name.
type StartStoryRequest struct {
	ThemeID       uuid.UUID `json:"theme_id" binding:"required"`
	CharacterName string    `json:"character_name" binding:"required,max=100"`
}

// SubmitTurnRequest carries one user contribution.
type SubmitTurnRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

// --- Response DTOs ---

// StartVisitResponse is returned by POST /api/visitors.
type StartVisitResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expires_at"`
}

// ThemeDTO is the public view of a theme.
type ThemeDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// StoryDTO is the public view of a story session.
type StoryDTO struct {
	ID            uuid.UUID `json:"id"`
	ThemeID       uuid.UUID `json:"theme_id"`
	ThemeName     string    `json:"theme_name"`
	CharacterName string    `json:"character_name"`
	PlotText      string    `json:"plot_text"`
	PlotImageURL  string    `json:"plot_image_url,omitempty"`
	TurnCount     int       `json:"turn_count"`
	Threshold     int       `json:"threshold"`
	Completed     bool      `json:"completed"`
	EmailSent     bool      `json:"email_sent"`
}

// TurnDTO is the public view of a story turn.
type TurnDTO struct {
	ID           uuid.UUID `json:"id"`
	TurnIndex    int       `json:"turn_index"`
	UserInput    string    `json:"user_input"`
	AIResponse   string    `json:"ai_response"`
	UserImageURL string    `json:"user_image_url,omitempty"`
	AIImageURL   string    `json:"ai_image_url,omitempty"`
}

// StoryDetailsResponse is the completed-session view.
type StoryDetailsResponse struct {
	Story StoryDTO  `json:"story"`
	Turns []TurnDTO `json:"turns"`
}

// SubmitTurnResponse is returned after the turn text is persisted.
type SubmitTurnResponse struct {
	Turn      TurnDTO `json:"turn"`
	Completed bool    `json:"completed"`
}

// TurnStatusResponse is the poller view with media URLs resolved.
type TurnStatusResponse struct {
	TurnID         uuid.UUID `json:"turn_id"`
	State          TurnState `json:"state"`
	UserImageReady bool      `json:"user_image_ready"`
	AIImageReady   bool      `json:"ai_image_ready"`
	UserImageURL   string    `json:"user_image_url,omitempty"`
	AIImageURL     string    `json:"ai_image_url,omitempty"`
}
