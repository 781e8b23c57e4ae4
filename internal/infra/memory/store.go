package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
)

// Store is an in-memory implementation of the user, quiz and result
// repositories. It mirrors the relational store: unique usernames and emails,
// and deletes cascade from users to quizzes and results and from quizzes to
// questions and results.
type Store struct {
	mu    sync.RWMutex
	clock func() time.Time

	nextUser     int64
	nextQuiz     int64
	nextQuestion int64
	nextResult   int64

	users     map[int64]domain.User
	quizzes   map[int64]domain.Quiz
	questions map[int64]domain.Question
	results   map[int64]domain.QuizResult
}

var (
	_ app.UserRepository   = (*Store)(nil)
	_ app.QuizRepository   = (*Store)(nil)
	_ app.ResultRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		clock:     time.Now,
		users:     make(map[int64]domain.User),
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64]domain.Question),
		results:   make(map[int64]domain.QuizResult),
	}
}

// Ping always succeeds; it lets the store serve readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) now() time.Time { return s.clock().UTC() }

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userTaken(0, user.Username, user.Email) {
		return domain.ErrDuplicate
	}
	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) ListUsers(_ context.Context, skip, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, skip, limit), nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if s.userTaken(user.ID, user.Username, user.Email) {
		return domain.ErrDuplicate
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	for quizID, quiz := range s.quizzes {
		if quiz.AuthorID == id {
			s.deleteQuizLocked(quizID)
		}
	}
	for resultID, result := range s.results {
		if result.UserID == id {
			delete(s.results, resultID)
		}
	}
	return nil
}

func (s *Store) userTaken(selfID int64, username, email string) bool {
	for _, other := range s.users {
		if other.ID == selfID {
			continue
		}
		if other.Username == username || other.Email == email {
			return true
		}
	}
	return false
}

// --- quizzes ---

// CreateQuiz stores the quiz and its nested questions atomically.
func (s *Store) CreateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[quiz.AuthorID]; !ok {
		return domain.ErrUserNotFound
	}
	now := s.now()
	s.nextQuiz++
	quiz.ID = s.nextQuiz
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		s.nextQuestion++
		q.ID = s.nextQuestion
		q.QuizID = quiz.ID
		q.CreatedAt = now
		q.UpdatedAt = now
		s.questions[q.ID] = copyQuestion(*q)
	}
	stored := *quiz
	stored.Questions = nil
	stored.AuthorUsername = ""
	s.quizzes[quiz.ID] = stored
	return nil
}

func (s *Store) GetQuiz(_ context.Context, id int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.hydrateLocked(quiz), nil
}

func (s *Store) ListQuizzes(_ context.Context, filter app.QuizFilter) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0)
	for _, quiz := range s.quizzes {
		if filter.AuthorID != 0 && quiz.AuthorID != filter.AuthorID {
			continue
		}
		if filter.VisibleTo != 0 && !quiz.IsPublic && quiz.AuthorID != filter.VisibleTo {
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	quizzes = page(quizzes, filter.Skip, filter.Limit)
	for i := range quizzes {
		quizzes[i] = s.hydrateLocked(quizzes[i])
	}
	return quizzes, nil
}

// UpdateQuiz stores the quiz's own fields; questions are managed separately.
func (s *Store) UpdateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	existing.Title = quiz.Title
	existing.Description = quiz.Description
	existing.IsPublic = quiz.IsPublic
	existing.UpdatedAt = s.now()
	s.quizzes[quiz.ID] = existing
	quiz.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	s.deleteQuizLocked(id)
	return nil
}

func (s *Store) deleteQuizLocked(id int64) {
	delete(s.quizzes, id)
	for questionID, q := range s.questions {
		if q.QuizID == id {
			delete(s.questions, questionID)
		}
	}
	for resultID, r := range s.results {
		if r.QuizID == id {
			delete(s.results, resultID)
		}
	}
}

func (s *Store) hydrateLocked(quiz domain.Quiz) domain.Quiz {
	quiz.Questions = s.questionsLocked(quiz.ID)
	if author, ok := s.users[quiz.AuthorID]; ok {
		quiz.AuthorUsername = author.Username
	}
	return quiz
}

// --- questions ---

func (s *Store) CreateQuestion(_ context.Context, question *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.nextQuestion++
	question.ID = s.nextQuestion
	question.CreatedAt = s.now()
	question.UpdatedAt = question.CreatedAt
	s.questions[question.ID] = copyQuestion(*question)
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return copyQuestion(q), nil
}

func (s *Store) ListQuestions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return nil, domain.ErrQuizNotFound
	}
	return s.questionsLocked(quizID), nil
}

func (s *Store) UpdateQuestion(_ context.Context, question *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.questions[question.ID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	question.QuizID = existing.QuizID
	question.CreatedAt = existing.CreatedAt
	question.UpdatedAt = s.now()
	s.questions[question.ID] = copyQuestion(*question)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// questionsLocked returns a quiz's questions in creation order.
func (s *Store) questionsLocked(quizID int64) []domain.Question {
	questions := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.QuizID == quizID {
			questions = append(questions, copyQuestion(q))
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

// --- results ---

func (s *Store) CreateResult(_ context.Context, result *domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[result.QuizID]; !ok {
		return domain.ErrQuizNotFound
	}
	if _, ok := s.users[result.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	s.nextResult++
	result.ID = s.nextResult
	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.now()
	}
	s.results[result.ID] = copyResult(*result)
	return nil
}

func (s *Store) ListResultsByQuiz(_ context.Context, quizID int64) ([]domain.QuizResult, error) {
	return s.filterResults(func(r domain.QuizResult) bool { return r.QuizID == quizID }), nil
}

func (s *Store) ListResultsByUser(_ context.Context, userID int64) ([]domain.QuizResult, error) {
	return s.filterResults(func(r domain.QuizResult) bool { return r.UserID == userID }), nil
}

func (s *Store) LeaderboardRows(_ context.Context, quizID int64, limit int) ([]domain.LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.LeaderboardRow, 0)
	for _, r := range s.results {
		if r.QuizID != quizID {
			continue
		}
		rows = append(rows, domain.LeaderboardRow{
			ResultID:    r.ID,
			Username:    s.users[r.UserID].Username,
			Score:       r.Score,
			MaxScore:    r.MaxScore,
			CompletedAt: r.CompletedAt,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return app.RanksBefore(rows[i], rows[j]) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) filterResults(keep func(domain.QuizResult) bool) []domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.QuizResult, 0)
	for _, r := range s.results {
		if keep(r) {
			results = append(results, copyResult(r))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

func copyResult(r domain.QuizResult) domain.QuizResult {
	answers := make(map[string]string, len(r.Answers))
	for k, v := range r.Answers {
		answers[k] = v
	}
	r.Answers = answers
	return r
}
