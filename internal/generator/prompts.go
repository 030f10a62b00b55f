package generator

import (
	"fmt"
	"story-wall/shared/models"
)

const systemPrompt = "You are a creative comic book writer who creates engaging stories for children."

const (
	plotPromptTemplate = `Create an engaging short story intro in comic book style. 
    Theme: %s
    Main character: %s
    The story should be child-friendly and have a clear setup for an adventure.
    Write 3-4 paragraphs to start the story.`

	continuationPromptTemplate = `Continue this comic book story based on the following context:
%s

Respond as the narrator/AI continuing the story. Keep your response child-friendly, engaging, and limited to 2-3 paragraphs. End with a situation that invites further storytelling.`
)

const (
	plotFallbackBase             = "Once upon a time, there was a character named %s in a %s world. \n"
	plotHintUnconfigured         = "Please set your OpenAI API key in the .env file to generate real stories."
	plotHintFailed               = "An error occurred while generating the story."
	continuationFallbackBase     = "The adventure continues... \n"
	continuationHintUnconfigured = "Please set your OpenAI API key in the .env file to generate real story continuations."
	continuationHintFailed       = "An error occurred while generating the story continuation."
)

// DefaultNegativePrompt keeps panels monochrome and simple.
const DefaultNegativePrompt = "color, detailed, complex, photorealistic"

func buildTextPrompt(req models.TextRequest) string {
	if req.Role == models.RolePlot {
		return fmt.Sprintf(plotPromptTemplate, req.ThemeDescription, req.CharacterName)
	}
	return fmt.Sprintf(continuationPromptTemplate, req.Context)
}

// Fallback returns the fixed text used when the provider is unconfigured or fails.
func Fallback(req models.TextRequest, configured bool) string {
	if req.Role == models.RolePlot {
		base := fmt.Sprintf(plotFallbackBase, req.CharacterName, req.ThemeDescription)
		if configured {
			return base + plotHintFailed
		}
		return base + plotHintUnconfigured
	}
	if configured {
		return continuationFallbackBase + continuationHintFailed
	}
	return continuationFallbackBase + continuationHintUnconfigured
}

// panelSpec describes how one layout is prompted and stored.
type panelSpec struct {
	width, height int
	dir, prefix   string
	prompt        func(req models.ImageRequest) string
}

var panelSpecs = map[models.PanelLayout]panelSpec{
	models.LayoutPlot: {
		width: 1024, height: 512, dir: "plots", prefix: "plot",
		prompt: func(req models.ImageRequest) string {
			return "Create a comic-style black and white storyboard with 3 panels showing: " + truncateRunes(req.Source, 300)
		},
	},
	models.LayoutUser: {
		width: 512, height: 512, dir: "responses", prefix: "user",
		prompt: func(req models.ImageRequest) string {
			return fmt.Sprintf("Comic-style black and white panel showing %s: %s", req.CharacterName, truncateRunes(req.Source, 200))
		},
	},
	models.LayoutAI: {
		width: 1024, height: 512, dir: "responses", prefix: "ai",
		prompt: func(req models.ImageRequest) string {
			return "Black-and-white comic 2-panel scene showing: " + truncateRunes(req.Source, 300)
		},
	},
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
