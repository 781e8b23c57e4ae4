package app

import (
	"context"
	"unicode/utf8"

	"inno-quiz-service/internal/domain"
)

// QuizService contains the quiz and question authoring use cases.
type QuizService struct {
	quizzes QuizRepository
}

func NewQuizService(quizzes QuizRepository) *QuizService {
	return &QuizService{quizzes: quizzes}
}

// ListQuizzes returns the actor's own quizzes when mine is set, otherwise every
// public quiz plus the actor's private ones.
func (s *QuizService) ListQuizzes(ctx context.Context, actor domain.Actor, skip, limit int, mine bool) ([]domain.Quiz, error) {
	filter := QuizFilter{Skip: skip, Limit: normalizeLimit(limit, 100)}
	if mine {
		filter.AuthorID = actor.ID
	} else {
		filter.VisibleTo = actor.ID
	}
	return s.quizzes.ListQuizzes(ctx, filter)
}

// GetQuiz loads a quiz with its questions under the view-questions rule.
func (s *QuizService) GetQuiz(ctx context.Context, actor domain.Actor, quizID int64) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !domain.CanViewQuestions(actor, quiz) {
		return domain.Quiz{}, domain.ErrNotEnoughPermissions
	}
	return quiz, nil
}

// CreateQuiz stores a quiz owned by the actor together with any nested questions.
func (s *QuizService) CreateQuiz(ctx context.Context, actor domain.Actor, draft domain.QuizDraft) (domain.Quiz, error) {
	if err := validateTitle(draft.Title); err != nil {
		return domain.Quiz{}, err
	}
	quiz := domain.Quiz{
		Title:       draft.Title,
		Description: draft.Description,
		IsPublic:    true,
		AuthorID:    actor.ID,
	}
	if draft.IsPublic != nil {
		quiz.IsPublic = *draft.IsPublic
	}
	for _, qd := range draft.Questions {
		q, err := questionFromDraft(qd)
		if err != nil {
			return domain.Quiz{}, err
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if err := s.quizzes.CreateQuiz(ctx, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return s.quizzes.GetQuiz(ctx, quiz.ID)
}

// UpdateQuiz applies a partial update; only the author or a superuser may do so.
func (s *QuizService) UpdateQuiz(ctx context.Context, actor domain.Actor, quizID int64, patch domain.QuizPatch) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !domain.CanMutateQuiz(actor, quiz) {
		return domain.Quiz{}, domain.ErrNotEnoughPermissions
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return domain.Quiz{}, err
		}
		quiz.Title = *patch.Title
	}
	if patch.Description != nil {
		quiz.Description = patch.Description
	}
	if patch.IsPublic != nil {
		quiz.IsPublic = *patch.IsPublic
	}
	if err := s.quizzes.UpdateQuiz(ctx, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return s.quizzes.GetQuiz(ctx, quizID)
}

// DeleteQuiz removes a quiz with its questions and results.
func (s *QuizService) DeleteQuiz(ctx context.Context, actor domain.Actor, quizID int64) error {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if !domain.CanMutateQuiz(actor, quiz) {
		return domain.ErrNotEnoughPermissions
	}
	return s.quizzes.DeleteQuiz(ctx, quizID)
}

// ListQuestions returns a quiz's questions in creation order.
func (s *QuizService) ListQuestions(ctx context.Context, actor domain.Actor, quizID int64) ([]domain.Question, error) {
	quiz, err := s.GetQuiz(ctx, actor, quizID)
	if err != nil {
		return nil, err
	}
	return quiz.Questions, nil
}

// GetQuestion returns one question of a quiz the actor may view.
func (s *QuizService) GetQuestion(ctx context.Context, actor domain.Actor, quizID, questionID int64) (domain.Question, error) {
	question, quiz, err := s.loadQuestion(ctx, quizID, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if !domain.CanViewQuestions(actor, quiz) {
		return domain.Question{}, domain.ErrNotEnoughPermissions
	}
	return question, nil
}

// CreateQuestion appends a question to a quiz.
func (s *QuizService) CreateQuestion(ctx context.Context, actor domain.Actor, quizID int64, draft domain.QuestionDraft) (domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Question{}, err
	}
	if !domain.CanManageQuestions(actor, quiz) {
		return domain.Question{}, domain.ErrNotEnoughPermissions
	}

	question, err := questionFromDraft(draft)
	if err != nil {
		return domain.Question{}, err
	}
	question.QuizID = quizID
	if err := s.quizzes.CreateQuestion(ctx, &question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// UpdateQuestion merges patch into the stored question and re-validates the result.
func (s *QuizService) UpdateQuestion(ctx context.Context, actor domain.Actor, quizID, questionID int64, patch domain.QuestionPatch) (domain.Question, error) {
	question, quiz, err := s.loadQuestion(ctx, quizID, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if !domain.CanManageQuestions(actor, quiz) {
		return domain.Question{}, domain.ErrNotEnoughPermissions
	}

	if patch.Text != nil {
		question.Text = *patch.Text
	}
	if patch.Options != nil {
		question.Options = patch.Options
	}
	if patch.CorrectAnswer != nil {
		question.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Points != nil {
		question.Points = *patch.Points
	}
	if err := validateQuestion(question); err != nil {
		return domain.Question{}, err
	}
	if err := s.quizzes.UpdateQuestion(ctx, &question); err != nil {
		return domain.Question{}, err
	}
	return s.quizzes.GetQuestion(ctx, questionID)
}

// DeleteQuestion removes one question from a quiz.
func (s *QuizService) DeleteQuestion(ctx context.Context, actor domain.Actor, quizID, questionID int64) error {
	_, quiz, err := s.loadQuestion(ctx, quizID, questionID)
	if err != nil {
		return err
	}
	if !domain.CanManageQuestions(actor, quiz) {
		return domain.ErrNotEnoughPermissions
	}
	return s.quizzes.DeleteQuestion(ctx, questionID)
}

// loadQuestion resolves a question and its quiz; a question that belongs to a
// different quiz than the one addressed is reported as missing.
func (s *QuizService) loadQuestion(ctx context.Context, quizID, questionID int64) (domain.Question, domain.Quiz, error) {
	question, err := s.quizzes.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Question{}, domain.Quiz{}, err
	}
	if question.QuizID != quizID {
		return domain.Question{}, domain.Quiz{}, domain.ErrQuestionNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Question{}, domain.Quiz{}, err
	}
	return question, quiz, nil
}

func questionFromDraft(draft domain.QuestionDraft) (domain.Question, error) {
	q := domain.Question{
		Text:          draft.Text,
		Options:       draft.Options,
		CorrectAnswer: draft.CorrectAnswer,
		Points:        draft.Points,
	}
	if q.Points == 0 {
		q.Points = domain.DefaultQuestionPoints
	}
	if err := validateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func validateQuestion(q domain.Question) error {
	if q.Points < 1 {
		return domain.KindError(domain.ErrBadRequest, "Points must be a positive integer")
	}
	if !q.HasOption(q.CorrectAnswer) {
		return domain.ErrCorrectAnswerNotInOptions
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 3 || n > 255 {
		return domain.KindError(domain.ErrBadRequest, "Title must be between 3 and 255 characters")
	}
	return nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
