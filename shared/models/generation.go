package models

// RoleHint selects the prompt template, token limit and fallback used for text generation.
type RoleHint string

const (
	RolePlot         RoleHint = "plot"
	RoleContinuation RoleHint = "continuation"
)

// PanelLayout selects panel count, canvas size, prompt template and storage folder
// for image generation.
type PanelLayout string

const (
	LayoutPlot PanelLayout = "plot"
	LayoutUser PanelLayout = "user"
	LayoutAI   PanelLayout = "ai"
)

// TextRequest is the input of one text generation. Context carries the accumulated
// session transcript for continuations; plot requests use the theme and character.
type TextRequest struct {
	Role             RoleHint
	Context          string
	ThemeDescription string
	CharacterName    string
}

// ImageRequest is the input of one image generation. Source is the plot, user
// input or AI reply the panel illustrates.
type ImageRequest struct {
	Layout        PanelLayout
	Source        string
	CharacterName string
}
