package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inno-quiz-service/internal/domain"
)

// ResultService scores submissions and serves result listings and leaderboards.
type ResultService struct {
	quizzes  QuizRepository
	results  ResultRepository
	users    UserRepository
	notifier ResultNotifier
	log      *zap.Logger
	now      func() time.Time
}

func NewResultService(quizzes QuizRepository, results ResultRepository, users UserRepository, notifier ResultNotifier, log *zap.Logger) *ResultService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultService{
		quizzes:  quizzes,
		results:  results,
		users:    users,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// NewResultServiceWithClock is test-only for deterministic completion times.
func NewResultServiceWithClock(quizzes QuizRepository, results ResultRepository, users UserRepository, notifier ResultNotifier, now func() time.Time) *ResultService {
	s := NewResultService(quizzes, results, users, notifier, nil)
	s.now = now
	return s
}

// SubmitResult scores answers against the quiz's current questions and persists
// exactly one result, or nothing when the submission is rejected.
func (s *ResultService) SubmitResult(ctx context.Context, quizID int64, actor domain.Actor, answers []domain.Answer) (domain.QuizResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizResult{}, err
	}

	outcome, err := Score(quiz.Questions, answers)
	if err != nil {
		return domain.QuizResult{}, err
	}

	result := domain.QuizResult{
		QuizID:         quiz.ID,
		UserID:         actor.ID,
		Score:          outcome.Score,
		MaxScore:       outcome.MaxScore,
		CorrectAnswers: outcome.CorrectAnswers,
		Answers:        outcome.Answers,
		CompletedAt:    s.now().UTC(),
	}
	if err := s.results.CreateResult(ctx, &result); err != nil {
		return domain.QuizResult{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.ResultSubmitted(ctx, quiz.ID); err != nil {
			s.log.Warn("result notification failed", zap.Int64("quiz_id", quiz.ID), zap.Error(err))
		}
	}
	return result, nil
}

// ListResults returns every submission of a quiz; only its author may see them.
func (s *ResultService) ListResults(ctx context.Context, quizID int64, actor domain.Actor) ([]domain.QuizResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewResults(actor, quiz) {
		return nil, domain.ErrNotEnoughPermissions
	}

	results, err := s.results.ListResultsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string)
	for i := range results {
		results[i].QuizTitle = quiz.Title
		results[i].Username = s.username(ctx, names, results[i].UserID)
	}
	return results, nil
}

// MyResults returns the actor's submissions decorated with quiz titles.
func (s *ResultService) MyResults(ctx context.Context, actor domain.Actor) ([]domain.QuizResult, error) {
	results, err := s.results.ListResultsByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string)
	titles := make(map[int64]string)
	for i := range results {
		title, ok := titles[results[i].QuizID]
		if !ok {
			title = "Unknown Quiz"
			if quiz, err := s.quizzes.GetQuiz(ctx, results[i].QuizID); err == nil {
				title = quiz.Title
			}
			titles[results[i].QuizID] = title
		}
		results[i].QuizTitle = title
		results[i].Username = s.username(ctx, names, results[i].UserID)
	}
	return results, nil
}

// GetLeaderboard ranks a public quiz's results. The actor does not widen access.
func (s *ResultService) GetLeaderboard(ctx context.Context, quizID int64, _ domain.Actor, limit int) (domain.Leaderboard, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if !domain.CanViewLeaderboard(quiz) {
		return domain.Leaderboard{}, domain.ErrLeaderboardPrivate
	}

	limit = normalizeLimit(limit, DefaultLeaderboardLimit)
	rows, err := s.results.LeaderboardRows(ctx, quizID, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		Entries:   BuildLeaderboard(rows, limit),
	}, nil
}

func (s *ResultService) username(ctx context.Context, cache map[int64]string, userID int64) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	name := "Unknown User"
	if user, err := s.users.GetUser(ctx, userID); err == nil {
		name = user.Username
	}
	cache[userID] = name
	return name
}
