package app

import (
	"strconv"

	"inno-quiz-service/internal/domain"
)

// Outcome is the scored form of a submission, ready to be persisted.
type Outcome struct {
	Score          int
	MaxScore       int
	CorrectAnswers int
	Answers        map[string]string
}

// Score grades answers against the quiz's current questions.
//
// Every submitted id must belong to questions; otherwise the whole submission is
// rejected with an *domain.InvalidQuestionsError listing all offending ids.
// MaxScore covers every question, answered or not. When an id repeats, the later
// answer replaces the earlier one and only the retained answer is graded.
func Score(questions []domain.Question, answers []domain.Answer) (Outcome, error) {
	byID := make(map[int64]domain.Question, len(questions))
	maxScore := 0
	for _, q := range questions {
		byID[q.ID] = q
		maxScore += q.Points
	}

	var invalid []int64
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			invalid = append(invalid, a.QuestionID)
		}
	}
	if len(invalid) > 0 {
		return Outcome{}, &domain.InvalidQuestionsError{IDs: invalid}
	}

	// Last answer wins; track the order of first appearance so grading is stable.
	retained := make(map[int64]string, len(answers))
	order := make([]int64, 0, len(answers))
	for _, a := range answers {
		if _, seen := retained[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		retained[a.QuestionID] = a.Answer
	}

	out := Outcome{
		MaxScore: maxScore,
		Answers:  make(map[string]string, len(retained)),
	}
	for _, id := range order {
		answer := retained[id]
		out.Answers[strconv.FormatInt(id, 10)] = answer

		q, ok := byID[id]
		if !ok {
			continue
		}
		if answer == q.CorrectAnswer {
			out.Score += q.Points
			out.CorrectAnswers++
		}
	}
	return out, nil
}
