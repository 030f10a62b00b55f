package handler

import (
	"net/http"

	"story-wall/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) submitTurn(c *gin.Context) {
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
	var req models.SubmitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.turns.SubmitTurn(c.Request.Context(), userID, storyID, req.UserInput)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.logger.Info("Turn submitted",
		zap.String("storyID", storyID.String()),
		zap.Int("turnIndex", res.Turn.TurnIndex),
		zap.Bool("completed", res.Completed),
	)
	c.JSON(http.StatusCreated, models.SubmitTurnResponse{
		Turn:      toTurnDTO(res.Turn),
		Completed: res.Completed,
	})
}

// turnStatus is polled by the client until the state is images_complete or images_partial.
func (h *Handler) turnStatus(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}
	turnID, err := pathUUID(c, "turn_id")
	if err != nil {
		handleServiceError(c, err)
		return
	}

	st, err := h.status.TurnStatus(c.Request.Context(), userID, turnID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	statusPollsTotal.WithLabelValues(string(st.State)).Inc()
	c.JSON(http.StatusOK, models.TurnStatusResponse{
		TurnID:         st.TurnID,
		State:          st.State,
		UserImageReady: st.UserImageReady,
		AIImageReady:   st.AIImageReady,
		UserImageURL:   mediaURL(st.UserImagePath),
		AIImageURL:     mediaURL(st.AIImagePath),
	})
}
