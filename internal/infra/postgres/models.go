package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"inno-quiz-service/internal/domain"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Username       string    `bun:"username,notnull"`
	Email          string    `bun:"email,notnull"`
	HashedPassword string    `bun:"hashed_password,notnull"`
	IsActive       bool      `bun:"is_active,notnull"`
	IsSuperuser    bool      `bun:"is_superuser,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newUserModel(u domain.User) *userModel {
	return &userModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *userModel) toDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		IsActive:       m.IsActive,
		IsSuperuser:    m.IsSuperuser,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type quizModel struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	IsPublic    bool      `bun:"is_public,notnull"`
	AuthorID    int64     `bun:"author_id,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Author    *userModel       `bun:"rel:belongs-to,join:author_id=id"`
	Questions []*questionModel `bun:"rel:has-many,join:id=quiz_id"`
}

func newQuizModel(q domain.Quiz) *quizModel {
	return &quizModel{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		IsPublic:    q.IsPublic,
		AuthorID:    q.AuthorID,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func (m *quizModel) toDomain() domain.Quiz {
	quiz := domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		IsPublic:    m.IsPublic,
		AuthorID:    m.AuthorID,
		Questions:   make([]domain.Question, 0, len(m.Questions)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Author != nil {
		quiz.AuthorUsername = m.Author.Username
	}
	for _, qm := range m.Questions {
		quiz.Questions = append(quiz.Questions, qm.toDomain())
	}
	return quiz
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:qn"`

	ID            int64     `bun:"id,pk,autoincrement"`
	QuizID        int64     `bun:"quiz_id,notnull"`
	Text          string    `bun:"text,notnull"`
	Options       []string  `bun:"options,array,notnull"`
	CorrectAnswer string    `bun:"correct_answer,notnull"`
	Points        int       `bun:"points,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newQuestionModel(q domain.Question) *questionModel {
	return &questionModel{
		ID:            q.ID,
		QuizID:        q.QuizID,
		Text:          q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func (m *questionModel) toDomain() domain.Question {
	return domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		Text:          m.Text,
		Options:       m.Options,
		CorrectAnswer: m.CorrectAnswer,
		Points:        m.Points,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type resultModel struct {
	bun.BaseModel `bun:"table:quiz_results,alias:r"`

	ID             int64             `bun:"id,pk,autoincrement"`
	QuizID         int64             `bun:"quiz_id,notnull"`
	UserID         int64             `bun:"user_id,notnull"`
	Score          int               `bun:"score,notnull"`
	MaxScore       int               `bun:"max_score,notnull"`
	CorrectAnswers int               `bun:"correct_answers,notnull"`
	Answers        map[string]string `bun:"answers,type:jsonb,notnull"`
	CompletedAt    time.Time         `bun:"completed_at,nullzero,notnull,default:current_timestamp"`
}

func newResultModel(r domain.QuizResult) *resultModel {
	answers := r.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return &resultModel{
		ID:             r.ID,
		QuizID:         r.QuizID,
		UserID:         r.UserID,
		Score:          r.Score,
		MaxScore:       r.MaxScore,
		CorrectAnswers: r.CorrectAnswers,
		Answers:        answers,
		CompletedAt:    r.CompletedAt,
	}
}

func (m *resultModel) toDomain() domain.QuizResult {
	answers := m.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return domain.QuizResult{
		ID:             m.ID,
		QuizID:         m.QuizID,
		UserID:         m.UserID,
		Score:          m.Score,
		MaxScore:       m.MaxScore,
		CorrectAnswers: m.CorrectAnswers,
		Answers:        answers,
		CompletedAt:    m.CompletedAt,
	}
}
