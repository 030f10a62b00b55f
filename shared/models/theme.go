package models

import (
	"time"

	"github.com/google/uuid"
)

// Theme is immutable reference data; Description seeds the plot prompt.
type Theme struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SeedThemes is the catalog installed by the seed command.
var SeedThemes = []Theme{
	{Name: "Space Adventure", Description: "An exciting journey through space, encountering alien civilizations and cosmic wonders."},
	{Name: "Fantasy Quest", Description: "A magical adventure in a world of wizards, dragons, and mythical creatures."},
	{Name: "Underwater Exploration", Description: "Discover the mysteries of the deep ocean and the creatures that inhabit it."},
	{Name: "Superhero", Description: "A heroic journey of a character with extraordinary abilities saving the world from villains."},
	{Name: "Jungle Expedition", Description: "An adventure through dense jungles, discovering ancient ruins and exotic wildlife."},
	{Name: "Time Travel", Description: "Journey through different time periods, from dinosaurs to the far future."},
}
