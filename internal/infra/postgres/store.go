package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store persists users, quizzes, questions and results with bun. Leaderboard
// reads go through the pgx-backed LeaderboardReader.
type Store struct {
	db    *bun.DB
	board *LeaderboardReader
}

var (
	_ app.UserRepository   = (*Store)(nil)
	_ app.QuizRepository   = (*Store)(nil)
	_ app.ResultRepository = (*Store)(nil)
)

func NewStore(db *bun.DB, board *LeaderboardReader) *Store {
	return &Store{db: db, board: board}
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if s.board != nil {
		return s.board.Ping(ctx)
	}
	return nil
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	m := newUserModel(*user)
	if _, err := s.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return mapError(err, domain.ErrUserNotFound)
	}
	*user = m.toDomain()
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.getUser(ctx, "u.id = ?", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.getUser(ctx, "u.username = ?", username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.getUser(ctx, "u.email = ?", email)
}

func (s *Store) getUser(ctx context.Context, where string, arg interface{}) (domain.User, error) {
	m := new(userModel)
	if err := s.db.NewSelect().Model(m).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return domain.User{}, mapError(err, domain.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	var models []userModel
	q := s.db.NewSelect().Model(&models).Order("u.id ASC").Offset(skip)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].toDomain())
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	m := newUserModel(*user)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.NewUpdate().Model(m).
		Column("username", "email", "hashed_password", "is_active", "is_superuser", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return mapError(err, domain.ErrUserNotFound)
	}
	if err := expectRow(res, domain.ErrUserNotFound); err != nil {
		return err
	}
	*user = m.toDomain()
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*userModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectRow(res, domain.ErrUserNotFound)
}

// --- quizzes ---

// CreateQuiz inserts the quiz and its nested questions in one transaction.
func (s *Store) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := newQuizModel(*quiz)
		if _, err := tx.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
			return mapError(err, domain.ErrUserNotFound)
		}
		quiz.ID = m.ID
		quiz.CreatedAt = m.CreatedAt
		quiz.UpdatedAt = m.UpdatedAt

		if len(quiz.Questions) == 0 {
			return nil
		}
		questions := make([]*questionModel, 0, len(quiz.Questions))
		for _, q := range quiz.Questions {
			q.QuizID = m.ID
			questions = append(questions, newQuestionModel(q))
		}
		if _, err := tx.NewInsert().Model(&questions).Returning("*").Exec(ctx); err != nil {
			return mapError(err, domain.ErrQuizNotFound)
		}
		for i, qm := range questions {
			quiz.Questions[i] = qm.toDomain()
		}
		return nil
	})
}

func (s *Store) GetQuiz(ctx context.Context, id int64) (domain.Quiz, error) {
	m := new(quizModel)
	err := s.quizQuery(m).Where("q.id = ?", id).Scan(ctx)
	if err != nil {
		return domain.Quiz{}, mapError(err, domain.ErrQuizNotFound)
	}
	return m.toDomain(), nil
}

func (s *Store) ListQuizzes(ctx context.Context, filter app.QuizFilter) ([]domain.Quiz, error) {
	var models []*quizModel
	q := s.quizQuery(&models).Order("q.id ASC").Offset(filter.Skip)
	if filter.AuthorID != 0 {
		q = q.Where("q.author_id = ?", filter.AuthorID)
	}
	if filter.VisibleTo != 0 {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("q.is_public = TRUE").WhereOr("q.author_id = ?", filter.VisibleTo)
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	quizzes := make([]domain.Quiz, 0, len(models))
	for _, m := range models {
		quizzes = append(quizzes, m.toDomain())
	}
	return quizzes, nil
}

func (s *Store) quizQuery(model interface{}) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(model).
		Relation("Author").
		Relation("Questions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("qn.id ASC")
		})
}

func (s *Store) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	m := newQuizModel(*quiz)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.NewUpdate().Model(m).
		Column("title", "description", "is_public", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError(err, domain.ErrQuizNotFound)
	}
	if err := expectRow(res, domain.ErrQuizNotFound); err != nil {
		return err
	}
	quiz.UpdatedAt = m.UpdatedAt
	return nil
}

func (s *Store) DeleteQuiz(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*quizModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return expectRow(res, domain.ErrQuizNotFound)
}

// --- questions ---

func (s *Store) CreateQuestion(ctx context.Context, question *domain.Question) error {
	m := newQuestionModel(*question)
	if _, err := s.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return mapError(err, domain.ErrQuizNotFound)
	}
	*question = m.toDomain()
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	m := new(questionModel)
	if err := s.db.NewSelect().Model(m).Where("qn.id = ?", id).Scan(ctx); err != nil {
		return domain.Question{}, mapError(err, domain.ErrQuestionNotFound)
	}
	return m.toDomain(), nil
}

func (s *Store) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	var models []questionModel
	if err := s.db.NewSelect().Model(&models).Where("qn.quiz_id = ?", quizID).Order("qn.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(models))
	for i := range models {
		questions = append(questions, models[i].toDomain())
	}
	return questions, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	m := newQuestionModel(*question)
	m.UpdatedAt = time.Now().UTC()
	res, err := s.db.NewUpdate().Model(m).
		Column("text", "options", "correct_answer", "points", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return mapError(err, domain.ErrQuestionNotFound)
	}
	if err := expectRow(res, domain.ErrQuestionNotFound); err != nil {
		return err
	}
	*question = m.toDomain()
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*questionModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return expectRow(res, domain.ErrQuestionNotFound)
}

// --- results ---

func (s *Store) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	m := newResultModel(*result)
	if _, err := s.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return mapError(err, domain.ErrQuizNotFound)
	}
	*result = m.toDomain()
	return nil
}

func (s *Store) ListResultsByQuiz(ctx context.Context, quizID int64) ([]domain.QuizResult, error) {
	return s.listResults(ctx, "r.quiz_id = ?", quizID)
}

func (s *Store) ListResultsByUser(ctx context.Context, userID int64) ([]domain.QuizResult, error) {
	return s.listResults(ctx, "r.user_id = ?", userID)
}

func (s *Store) listResults(ctx context.Context, where string, arg interface{}) ([]domain.QuizResult, error) {
	var models []resultModel
	if err := s.db.NewSelect().Model(&models).Where(where, arg).Order("r.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	results := make([]domain.QuizResult, 0, len(models))
	for i := range models {
		results = append(results, models[i].toDomain())
	}
	return results, nil
}

func (s *Store) LeaderboardRows(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardRow, error) {
	return s.board.LeaderboardRows(ctx, quizID, limit)
}

// mapError translates driver errors into domain errors. notFound is returned
// for missing rows and broken foreign keys.
func mapError(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case pgUniqueViolation:
			return domain.ErrDuplicate
		case pgForeignKeyViolation:
			return notFound
		}
	}
	return err
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
