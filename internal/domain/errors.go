package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds. Handlers map these to status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

var (
	// ErrQuizNotFound is returned when the referenced quiz does not exist.
	ErrQuizNotFound = KindError(ErrNotFound, "Quiz not found")
	// ErrQuestionNotFound is returned when the referenced question does not exist.
	ErrQuestionNotFound = KindError(ErrNotFound, "Question not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = KindError(ErrNotFound, "User not found")
	// ErrNotEnoughPermissions is the generic authorization denial.
	ErrNotEnoughPermissions = KindError(ErrForbidden, "Not enough permissions")
	// ErrLeaderboardPrivate denies leaderboards of private quizzes.
	ErrLeaderboardPrivate = KindError(ErrForbidden, "Leaderboard available only for public quizzes")
	// ErrCorrectAnswerNotInOptions rejects questions whose answer key is not an option.
	ErrCorrectAnswerNotInOptions = KindError(ErrBadRequest, "Correct answer must be one of the options")
	// ErrUsernameTaken rejects duplicate usernames.
	ErrUsernameTaken = KindError(ErrBadRequest, "Username already registered")
	// ErrEmailTaken rejects duplicate emails.
	ErrEmailTaken = KindError(ErrBadRequest, "Email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = KindError(ErrUnauthorized, "Incorrect username or password")
	// ErrInvalidToken is returned when a bearer token cannot be validated.
	ErrInvalidToken = KindError(ErrUnauthorized, "Could not validate credentials")
	// ErrInactiveUser is returned when a deactivated account authenticates.
	ErrInactiveUser = KindError(ErrBadRequest, "Inactive user")
	// ErrDuplicate is returned by stores when a unique constraint is violated.
	ErrDuplicate = KindError(ErrConflict, "Resource already exists")
)

type kindError struct {
	kind error
	msg  string
}

// KindError builds an error with a user-facing message that matches kind via errors.Is.
func KindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// InvalidQuestionsError lists every submitted question id outside the quiz.
type InvalidQuestionsError struct {
	IDs []int64
}

func (e *InvalidQuestionsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("Questions with IDs [%s] not found in quiz", strings.Join(ids, ", "))
}

func (e *InvalidQuestionsError) Unwrap() error { return ErrBadRequest }
