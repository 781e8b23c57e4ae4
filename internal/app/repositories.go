package app

import (
	"context"

	"inno-quiz-service/internal/domain"
)

// QuizFilter narrows quiz listings.
type QuizFilter struct {
	Skip  int
	Limit int
	// AuthorID restricts the listing to one author's quizzes.
	AuthorID int64
	// VisibleTo, when set, keeps public quizzes plus the given user's private ones.
	VisibleTo int64
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// QuizRepository persists quizzes and their questions. GetQuiz always loads
// questions in creation order.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error
	GetQuiz(ctx context.Context, id int64) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error
	DeleteQuiz(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, question *domain.Question) error
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, question *domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// ResultRepository persists immutable quiz results.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *domain.QuizResult) error
	ListResultsByQuiz(ctx context.Context, quizID int64) ([]domain.QuizResult, error)
	ListResultsByUser(ctx context.Context, userID int64) ([]domain.QuizResult, error)
	// LeaderboardRows returns up to limit rows joined with usernames. Rows may
	// already be ordered; BuildLeaderboard ranks them regardless.
	LeaderboardRows(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardRow, error)
}

// ResultNotifier is told about every persisted result so live leaderboards refresh.
type ResultNotifier interface {
	ResultSubmitted(ctx context.Context, quizID int64) error
}

// TriviaSource fetches third-party trivia content.
type TriviaSource interface {
	Categories(ctx context.Context) ([]domain.TriviaCategory, error)
	Questions(ctx context.Context, query domain.TriviaQuery) ([]domain.QuestionDraft, error)
}
