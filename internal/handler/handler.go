package handler

import (
	"strings"

	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaPrefix is the URL path the media root is served under.
const MediaPrefix = "/media"

// Handler serves the story API.
type Handler struct {
	visitors  service.VisitorService
	stories   service.StoryService
	turns     service.TurnService
	status    service.StatusService
	threshold int
	logger    *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	visitors service.VisitorService,
	stories service.StoryService,
	turns service.TurnService,
	status service.StatusService,
	threshold int,
	logger *zap.Logger,
) *Handler {
	if threshold <= 0 {
		threshold = models.DefaultTurnThreshold
	}
	return &Handler{
		visitors:  visitors,
		stories:   stories,
		turns:     turns,
		status:    status,
		threshold: threshold,
		logger:    logger.Named("StoryHandler"),
	}
}

// RegisterRoutes mounts the API on router. generationLimit guards the
// endpoints that call the generation providers; nil disables it.
func (h *Handler) RegisterRoutes(router gin.IRouter, generationLimit gin.HandlerFunc) {
	if generationLimit == nil {
		generationLimit = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api")
	api.POST("/visitors", h.startVisit)
	api.GET("/themes", h.listThemes)

	protected := api.Group("")
	protected.Use(h.AuthMiddleware())
	{
		protected.DELETE("/visitors/session", h.endVisit)
		protected.POST("/stories", generationLimit, h.startStory)
		protected.GET("/stories/:story_id", h.getStory)
		protected.POST("/stories/:story_id/turns", generationLimit, h.submitTurn)
		protected.GET("/turns/:turn_id/status", h.turnStatus)
	}
}

func mediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return MediaPrefix + "/" + strings.TrimLeft(rel, "/")
}

func mediaURLPtr(rel *string) string {
	if rel == nil {
		return ""
	}
	return mediaURL(*rel)
}

func toThemeDTO(t models.Theme) models.ThemeDTO {
	return models.ThemeDTO{ID: t.ID, Name: t.Name, Description: t.Description}
}

func (h *Handler) toStoryDTO(s *models.Story, turnCount int, threshold int) models.StoryDTO {
	if threshold <= 0 {
		threshold = h.threshold
	}
	return models.StoryDTO{
		ID:            s.ID,
		ThemeID:       s.ThemeID,
		ThemeName:     s.ThemeName,
		CharacterName: s.CharacterName,
		PlotText:      s.PlotText,
		PlotImageURL:  mediaURLPtr(s.PlotImagePath),
		TurnCount:     turnCount,
		Threshold:     threshold,
		Completed:     turnCount >= threshold,
		EmailSent:     s.EmailSent,
	}
}

func toTurnDTO(t *models.StoryTurn) models.TurnDTO {
	return models.TurnDTO{
		ID:           t.ID,
		TurnIndex:    t.TurnIndex,
		UserInput:    t.UserInput,
		AIResponse:   t.AIResponse,
		UserImageURL: mediaURLPtr(t.UserImgPath),
		AIImageURL:   mediaURLPtr(t.AIImgPath),
	}
}
