package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"inno-quiz-service/internal/domain"
)

func TestQuizPolicies(t *testing.T) {
	author := domain.Actor{ID: 1}
	other := domain.Actor{ID: 2}
	admin := domain.Actor{ID: 3, IsSuperuser: true}

	public := domain.Quiz{ID: 10, AuthorID: 1, IsPublic: true}
	private := domain.Quiz{ID: 11, AuthorID: 1, IsPublic: false}

	tests := []struct {
		name  string
		check func(domain.Actor, domain.Quiz) bool
		actor domain.Actor
		quiz  domain.Quiz
		want  bool
	}{
		{"view public as other", domain.CanViewQuestions, other, public, true},
		{"view private as author", domain.CanViewQuestions, author, private, true},
		{"view private as other", domain.CanViewQuestions, other, private, false},
		{"view private as superuser", domain.CanViewQuestions, admin, private, false},

		{"mutate as author", domain.CanMutateQuiz, author, private, true},
		{"mutate as superuser", domain.CanMutateQuiz, admin, private, true},
		{"mutate as other", domain.CanMutateQuiz, other, public, false},

		{"questions as superuser", domain.CanManageQuestions, admin, public, true},
		{"questions as other", domain.CanManageQuestions, other, public, false},

		{"results as author", domain.CanViewResults, author, public, true},
		{"results as superuser", domain.CanViewResults, admin, public, false},
		{"results as other", domain.CanViewResults, other, public, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.actor, tt.quiz))
		})
	}
}

func TestLeaderboardPolicyIgnoresActor(t *testing.T) {
	assert.True(t, domain.CanViewLeaderboard(domain.Quiz{AuthorID: 1, IsPublic: true}))
	// Private leaderboards stay closed even for the author.
	assert.False(t, domain.CanViewLeaderboard(domain.Quiz{AuthorID: 1, IsPublic: false}))
}

func TestCanAccessUser(t *testing.T) {
	assert.True(t, domain.CanAccessUser(domain.Actor{ID: 5}, 5))
	assert.False(t, domain.CanAccessUser(domain.Actor{ID: 5}, 6))
	assert.True(t, domain.CanAccessUser(domain.Actor{ID: 5, IsSuperuser: true}, 6))
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(domain.ErrQuizNotFound, domain.ErrNotFound))
	assert.True(t, errors.Is(domain.ErrLeaderboardPrivate, domain.ErrForbidden))
	assert.Equal(t, "Quiz not found", domain.ErrQuizNotFound.Error())

	err := error(&domain.InvalidQuestionsError{IDs: []int64{999, 1000}})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, "Questions with IDs [999, 1000] not found in quiz", err.Error())
}
