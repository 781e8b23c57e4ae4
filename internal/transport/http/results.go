package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

type submission struct {
	Answers []domain.Answer `json:"answers" binding:"required"`
}

func (h *Handler) submitResult(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	var body submission
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	result, err := h.services.Results.SubmitResult(c.Request.Context(), quizID, actor(c), body.Answers)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	h.metrics.resultSubmitted(quizID)
	h.log.Debug("result submitted",
		zap.Int64("quiz_id", quizID),
		zap.Int64("result_id", result.ID),
		zap.Int("score", result.Score),
	)
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) listResults(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	results, err := h.services.Results.ListResults(c.Request.Context(), quizID, actor(c))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) leaderboard(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	limit, err := queryInt(c, "limit", app.DefaultLeaderboardLimit)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	board, err := h.services.Results.GetLeaderboard(c.Request.Context(), quizID, actor(c), limit)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) myResults(c *gin.Context) {
	results, err := h.services.Results.MyResults(c.Request.Context(), actor(c))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
