package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTurnThreshold is the number of turns after which a story is compiled and dispatched.
const DefaultTurnThreshold = 10

// Story is one story-creation session: its setup is immutable, plot image and
// PDF path are written once, EmailSent flips false->true once.
type Story struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	ThemeID         uuid.UUID `db:"theme_id" json:"theme_id"`
	ThemeName       string    `db:"theme_name" json:"theme_name"`
	CharacterName   string    `db:"character_name" json:"character_name"`
	PlotText        string    `db:"plot_text" json:"plot_text"`
	PlotImagePath   *string   `db:"plot_image_path" json:"plot_image_path,omitempty"`
	PDFPath         *string   `db:"pdf_path" json:"pdf_path,omitempty"`
	DispatchClaimed bool      `db:"dispatch_claimed" json:"-"`
	EmailSent       bool      `db:"email_sent" json:"email_sent"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// HasPDF reports whether a compiled document path was recorded.
func (s *Story) HasPDF() bool {
	return s.PDFPath != nil && *s.PDFPath != ""
}

// StoryDetails is the completed-session view: the story and its turns in narrative order.
type StoryDetails struct {
	Story     *Story      `json:"story"`
	Turns     []StoryTurn `json:"turns"`
	Threshold int         `json:"threshold"`
	Completed bool        `json:"completed"`
}
