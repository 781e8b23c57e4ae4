package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inno-quiz-service/internal/domain"
)

func (h *Handler) listQuizzes(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	mine, err := queryBool(c, "my_quizzes")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	quizzes, err := h.services.Quizzes.ListQuizzes(c.Request.Context(), actor(c), skip, limit, mine)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *Handler) createQuiz(c *gin.Context) {
	var draft domain.QuizDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	quiz, err := h.services.Quizzes.CreateQuiz(c.Request.Context(), actor(c), draft)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *Handler) getQuiz(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	quiz, err := h.services.Quizzes.GetQuiz(c.Request.Context(), actor(c), quizID)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *Handler) updateQuiz(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	var patch domain.QuizPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	quiz, err := h.services.Quizzes.UpdateQuiz(c.Request.Context(), actor(c), quizID, patch)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *Handler) deleteQuiz(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	if err := h.services.Quizzes.DeleteQuiz(c.Request.Context(), actor(c), quizID); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detailBody{Detail: "Quiz deleted successfully"})
}

func (h *Handler) listQuestions(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	questions, err := h.services.Quizzes.ListQuestions(c.Request.Context(), actor(c), quizID)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) createQuestion(c *gin.Context) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	var draft domain.QuestionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	question, err := h.services.Quizzes.CreateQuestion(c.Request.Context(), actor(c), quizID, draft)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *Handler) getQuestion(c *gin.Context) {
	quizID, questionID, ok := h.questionPath(c)
	if !ok {
		return
	}
	question, err := h.services.Quizzes.GetQuestion(c.Request.Context(), actor(c), quizID, questionID)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) updateQuestion(c *gin.Context) {
	quizID, questionID, ok := h.questionPath(c)
	if !ok {
		return
	}
	var patch domain.QuestionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	question, err := h.services.Quizzes.UpdateQuestion(c.Request.Context(), actor(c), quizID, questionID, patch)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	quizID, questionID, ok := h.questionPath(c)
	if !ok {
		return
	}
	if err := h.services.Quizzes.DeleteQuestion(c.Request.Context(), actor(c), quizID, questionID); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detailBody{Detail: "Question deleted successfully"})
}

func (h *Handler) questionPath(c *gin.Context) (int64, int64, bool) {
	quizID, err := pathID(c, "quiz_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return 0, 0, false
	}
	questionID, err := pathID(c, "question_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return 0, 0, false
	}
	return quizID, questionID, true
}
