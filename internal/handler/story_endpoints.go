package handler

import (
	"fmt"
	"net/http"

	"story-wall/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) listThemes(c *gin.Context) {
	themes, err := h.stories.ListThemes(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp := make([]models.ThemeDTO, 0, len(themes))
	for _, t := range themes {
		resp = append(resp, toThemeDTO(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) startStory(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}
	var req models.StartStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	story, err := h.stories.StartStory(c.Request.Context(), userID, req.ThemeID, req.CharacterName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.logger.Info("Story started",
		zap.String("storyID", story.ID.String()),
		zap.String("userID", userID.String()),
		zap.Bool("plotImage", story.PlotImagePath != nil),
	)
	c.JSON(http.StatusCreated, h.toStoryDTO(story, 0, h.threshold))
}

func (h *Handler) getStory(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}
	storyID, err := pathUUID(c, "story_id")
	if err != nil {
		handleServiceError(c, err)
		return
	}

	details, err := h.stories.GetStoryDetails(c.Request.Context(), userID, storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp := models.StoryDetailsResponse{
		Story: h.toStoryDTO(details.Story, len(details.Turns), details.Threshold),
		Turns: make([]models.TurnDTO, 0, len(details.Turns)),
	}
	for i := range details.Turns {
		resp.Turns = append(resp.Turns, toTurnDTO(&details.Turns[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", models.ErrInvalidInput, name)
	}
	return id, nil
}
