package handler

import (
	"net/http"

	"story-wall/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) startVisit(c *gin.Context) {
	var req models.StartVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	user, token, err := h.visitors.StartVisit(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	visitsStartedTotal.Inc()
	h.logger.Info("Visitor session started", zap.String("userID", user.ID.String()))

	c.JSON(http.StatusCreated, models.StartVisitResponse{
		UserID:    user.ID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *Handler) endVisit(c *gin.Context) {
	tokenUUID := c.GetString(ctxTokenUUID)
	if tokenUUID == "" {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}
	if err := h.visitors.EndVisit(c.Request.Context(), tokenUUID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
