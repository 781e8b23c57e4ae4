package app

import (
	"context"

	"inno-quiz-service/internal/domain"
)

// Bounds on how many trivia questions one request may fetch.
const (
	MinTriviaAmount = 1
	MaxTriviaAmount = 50
)

var errTriviaAmount = domain.KindError(domain.ErrBadRequest, "Amount must be between 1 and 50")

// TriviaService imports Open Trivia DB content as quizzes.
type TriviaService struct {
	source  TriviaSource
	quizzes *QuizService
}

func NewTriviaService(source TriviaSource, quizzes *QuizService) *TriviaService {
	return &TriviaService{source: source, quizzes: quizzes}
}

func (s *TriviaService) Categories(ctx context.Context) ([]domain.TriviaCategory, error) {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return categories, nil
}

// Questions fetches question drafts without storing them.
func (s *TriviaService) Questions(ctx context.Context, query domain.TriviaQuery) ([]domain.QuestionDraft, error) {
	if query.Amount < MinTriviaAmount || query.Amount > MaxTriviaAmount {
		return nil, errTriviaAmount
	}
	drafts, err := s.source.Questions(ctx, query)
	if err != nil {
		return nil, upstreamError(err)
	}
	return drafts, nil
}

// CreateQuiz builds a public quiz owned by the actor from fetched questions.
func (s *TriviaService) CreateQuiz(ctx context.Context, actor domain.Actor, title string, description *string, query domain.TriviaQuery) (domain.Quiz, error) {
	if err := validateTitle(title); err != nil {
		return domain.Quiz{}, err
	}
	drafts, err := s.Questions(ctx, query)
	if err != nil {
		return domain.Quiz{}, err
	}

	public := true
	return s.quizzes.CreateQuiz(ctx, actor, domain.QuizDraft{
		Title:       title,
		Description: description,
		IsPublic:    &public,
		Questions:   drafts,
	})
}

func upstreamError(err error) error {
	return domain.KindError(domain.ErrUnavailable, "External API error: "+err.Error())
}
