package app_test

import (
	"context"
	"errors"
	"testing"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/domain"
	"inno-quiz-service/internal/infra/memory"
)

type fixture struct {
	store   *memory.Store
	quizzes *app.QuizService
	author  domain.User
	other   domain.User
	admin   domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, quizzes: app.NewQuizService(store)}
	f.author = addUser(t, store, "author", false)
	f.other = addUser(t, store, "other", false)
	f.admin = addUser(t, store, "admin", true)
	return f
}

func addUser(t *testing.T, store *memory.Store, name string, superuser bool) domain.User {
	t.Helper()
	user := domain.User{Username: name, Email: name + "@example.com", IsActive: true, IsSuperuser: superuser}
	if err := store.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func (f *fixture) createQuiz(t *testing.T, public bool) domain.Quiz {
	t.Helper()
	quiz, err := f.quizzes.CreateQuiz(context.Background(), f.author.Actor(), domain.QuizDraft{
		Title:    "Capitals",
		IsPublic: &public,
		Questions: []domain.QuestionDraft{
			{Text: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "A", Points: 1},
			{Text: "Q2", Options: []string{"Y", "Z"}, CorrectAnswer: "Z", Points: 2},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func TestCreateQuizDefaults(t *testing.T) {
	f := newFixture(t)
	quiz, err := f.quizzes.CreateQuiz(context.Background(), f.author.Actor(), domain.QuizDraft{
		Title:     "Defaults",
		Questions: []domain.QuestionDraft{{Text: "Q", Options: []string{"x"}, CorrectAnswer: "x"}},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if !quiz.IsPublic {
		t.Fatalf("expected quiz to be public by default")
	}
	if quiz.AuthorUsername != "author" {
		t.Fatalf("expected author username, got %q", quiz.AuthorUsername)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].Points != domain.DefaultQuestionPoints {
		t.Fatalf("expected one question with default points, got %+v", quiz.Questions)
	}
}

func TestCreateQuizRejectsAnswerOutsideOptions(t *testing.T) {
	f := newFixture(t)
	_, err := f.quizzes.CreateQuiz(context.Background(), f.author.Actor(), domain.QuizDraft{
		Title:     "Broken",
		Questions: []domain.QuestionDraft{{Text: "Q", Options: []string{"x", "y"}, CorrectAnswer: "z"}},
	})
	if !errors.Is(err, domain.ErrCorrectAnswerNotInOptions) {
		t.Fatalf("expected correct answer error, got %v", err)
	}

	quizzes, err := f.store.ListQuizzes(context.Background(), app.QuizFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("expected nothing persisted, got %d quizzes", len(quizzes))
	}
}

func TestGetQuizVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	private := f.createQuiz(t, false)

	if _, err := f.quizzes.GetQuiz(ctx, f.author.Actor(), private.ID); err != nil {
		t.Fatalf("author should see private quiz: %v", err)
	}
	if _, err := f.quizzes.GetQuiz(ctx, f.other.Actor(), private.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for other user, got %v", err)
	}
	// superuser status does not grant question visibility
	if _, err := f.quizzes.ListQuestions(ctx, f.admin.Actor(), private.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for superuser, got %v", err)
	}
	if _, err := f.quizzes.GetQuiz(ctx, f.author.Actor(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListQuizzes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createQuiz(t, true)
	f.createQuiz(t, false)

	visible, err := f.quizzes.ListQuizzes(ctx, f.other.Actor(), 0, 0, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected only the public quiz, got %d", len(visible))
	}

	mine, err := f.quizzes.ListQuizzes(ctx, f.author.Actor(), 0, 0, true)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected both own quizzes, got %d", len(mine))
	}

	none, err := f.quizzes.ListQuizzes(ctx, f.other.Actor(), 0, 0, true)
	if err != nil {
		t.Fatalf("list other mine: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no quizzes, got %d", len(none))
	}
}

func TestUpdateAndDeleteQuizPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quiz := f.createQuiz(t, true)
	title := "Renamed"

	if _, err := f.quizzes.UpdateQuiz(ctx, f.other.Actor(), quiz.ID, domain.QuizPatch{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden update, got %v", err)
	}
	updated, err := f.quizzes.UpdateQuiz(ctx, f.admin.Actor(), quiz.ID, domain.QuizPatch{Title: &title})
	if err != nil {
		t.Fatalf("superuser update: %v", err)
	}
	if updated.Title != title || len(updated.Questions) != 2 {
		t.Fatalf("unexpected updated quiz %+v", updated)
	}

	short := "ab"
	if _, err := f.quizzes.UpdateQuiz(ctx, f.author.Actor(), quiz.ID, domain.QuizPatch{Title: &short}); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request for short title, got %v", err)
	}

	if err := f.quizzes.DeleteQuiz(ctx, f.other.Actor(), quiz.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if err := f.quizzes.DeleteQuiz(ctx, f.author.Actor(), quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.quizzes.DeleteQuiz(ctx, f.author.Actor(), quiz.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestQuestionManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quiz := f.createQuiz(t, true)

	created, err := f.quizzes.CreateQuestion(ctx, f.author.Actor(), quiz.ID, domain.QuestionDraft{
		Text: "Q3", Options: []string{"1", "2"}, CorrectAnswer: "2",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if created.QuizID != quiz.ID || created.Points != 1 {
		t.Fatalf("unexpected question %+v", created)
	}

	if _, err := f.quizzes.CreateQuestion(ctx, f.other.Actor(), quiz.ID, domain.QuestionDraft{
		Text: "Q4", Options: []string{"1"}, CorrectAnswer: "1",
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden create, got %v", err)
	}

	// a patch that moves options away from the stored answer is rejected
	if _, err := f.quizzes.UpdateQuestion(ctx, f.author.Actor(), quiz.ID, created.ID, domain.QuestionPatch{
		Options: []string{"3", "4"},
	}); !errors.Is(err, domain.ErrCorrectAnswerNotInOptions) {
		t.Fatalf("expected correct answer error, got %v", err)
	}

	answer := "4"
	updated, err := f.quizzes.UpdateQuestion(ctx, f.author.Actor(), quiz.ID, created.ID, domain.QuestionPatch{
		Options:       []string{"3", "4"},
		CorrectAnswer: &answer,
	})
	if err != nil {
		t.Fatalf("update question: %v", err)
	}
	if updated.CorrectAnswer != "4" || updated.Text != "Q3" {
		t.Fatalf("unexpected updated question %+v", updated)
	}

	if err := f.quizzes.DeleteQuestion(ctx, f.author.Actor(), quiz.ID, created.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	questions, err := f.quizzes.ListQuestions(ctx, f.author.Actor(), quiz.ID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestQuestionAddressedUnderWrongQuiz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createQuiz(t, true)
	second := f.createQuiz(t, true)

	_, err := f.quizzes.GetQuestion(ctx, f.author.Actor(), second.ID, first.Questions[0].ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
