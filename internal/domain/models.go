package domain

import "time"

// DefaultQuestionPoints is applied when a question is created without points.
const DefaultQuestionPoints = 1

// User is a registered account. HashedPassword never leaves the service layer.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Actor returns the authorization identity of the user.
func (u User) Actor() Actor {
	return Actor{ID: u.ID, IsSuperuser: u.IsSuperuser}
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID          int64
	IsSuperuser bool
}

// Quiz is a named collection of questions owned by its author.
type Quiz struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	IsPublic       bool       `json:"is_public"`
	AuthorID       int64      `json:"author_id"`
	AuthorUsername string     `json:"author_username,omitempty"`
	Questions      []Question `json:"questions"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MaxScore sums the points of every question currently in the quiz.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Question models a multiple-choice prompt with exactly one correct answer string.
type Question struct {
	ID            int64     `json:"id"`
	QuizID        int64     `json:"quiz_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasOption reports whether answer is one of the question's options.
func (q Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// QuestionDraft is the validated input used to create a question.
type QuestionDraft struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=1"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Points        int      `json:"points" binding:"omitempty,min=1"`
}

// QuizDraft is the validated input used to create a quiz.
type QuizDraft struct {
	Title       string          `json:"title" binding:"required,min=3,max=255"`
	Description *string         `json:"description"`
	IsPublic    *bool           `json:"is_public"`
	Questions   []QuestionDraft `json:"questions" binding:"omitempty,dive"`
}

// QuizPatch carries a partial quiz update; nil fields are left untouched.
type QuizPatch struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// QuestionPatch carries a partial question update; nil fields are left untouched.
type QuestionPatch struct {
	Text          *string  `json:"text"`
	Options       []string `json:"options" binding:"omitempty,min=1"`
	CorrectAnswer *string  `json:"correct_answer"`
	Points        *int     `json:"points" binding:"omitempty,min=1"`
}

// Answer is one submitted (question, answer text) pair. Submissions are ordered.
type Answer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

// QuizResult is an immutable record of one scored submission.
type QuizResult struct {
	ID             int64             `json:"id"`
	QuizID         int64             `json:"quiz_id"`
	UserID         int64             `json:"user_id"`
	Score          int               `json:"score"`
	MaxScore       int               `json:"max_score"`
	CorrectAnswers int               `json:"correct_answers"`
	Answers        map[string]string `json:"answers"`
	CompletedAt    time.Time         `json:"completed_at"`
	Username       string            `json:"username,omitempty"`
	QuizTitle      string            `json:"quiz_title,omitempty"`
}

// LeaderboardRow is a stored result joined with the submitting user's name.
type LeaderboardRow struct {
	ResultID    int64
	Username    string
	Score       int
	MaxScore    int
	CompletedAt time.Time
}

// LeaderboardEntry is one ranked line of a leaderboard.
type LeaderboardEntry struct {
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

// Leaderboard captures the ranked results of a quiz at read time.
type Leaderboard struct {
	QuizID    int64              `json:"quiz_id"`
	QuizTitle string             `json:"quiz_title"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// TriviaCategory is an Open Trivia DB category. IDs are rendered as strings.
type TriviaCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TriviaQuery selects questions from the trivia source.
type TriviaQuery struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string
}

// UserDraft is the registration input.
type UserDraft struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=1"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"-"`
}

// UserPatch carries a partial account update; nil fields are left untouched.
type UserPatch struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

// Token is the response of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
