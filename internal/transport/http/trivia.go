package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inno-quiz-service/internal/domain"
)

func (h *Handler) triviaCategories(c *gin.Context) {
	categories, err := h.services.Trivia.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) triviaQuestions(c *gin.Context) {
	query, err := triviaQuery(c)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	drafts, err := h.services.Trivia.Questions(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, drafts)
}

func (h *Handler) triviaCreateQuiz(c *gin.Context) {
	query, err := triviaQuery(c)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	title := c.Query("title")
	quiz, err := h.services.Trivia.CreateQuiz(c.Request.Context(), actor(c), title, optionalQuery(c, "description"), query)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func triviaQuery(c *gin.Context) (domain.TriviaQuery, error) {
	amount, err := queryInt(c, "amount", 10)
	if err != nil {
		return domain.TriviaQuery{}, err
	}
	category, err := queryInt(c, "category", 0)
	if err != nil {
		return domain.TriviaQuery{}, err
	}
	return domain.TriviaQuery{
		Amount:     amount,
		Category:   category,
		Difficulty: c.Query("difficulty"),
		Type:       c.Query("type"),
	}, nil
}
