package domain

// Authorization predicates shared by every use case. Superusers may mutate any
// quiz but cannot read private questions or other authors' results. Private
// leaderboards are closed even to their authors.

// IsAuthor reports whether the actor owns the quiz.
func IsAuthor(actor Actor, quiz Quiz) bool {
	return quiz.AuthorID == actor.ID
}

// CanViewQuestions allows public quizzes and the author's own private quizzes.
func CanViewQuestions(actor Actor, quiz Quiz) bool {
	return quiz.IsPublic || IsAuthor(actor, quiz)
}

// CanMutateQuiz allows the author or any superuser to update or delete a quiz.
func CanMutateQuiz(actor Actor, quiz Quiz) bool {
	return IsAuthor(actor, quiz) || actor.IsSuperuser
}

// CanManageQuestions follows CanMutateQuiz for question create, update and delete.
func CanManageQuestions(actor Actor, quiz Quiz) bool {
	return CanMutateQuiz(actor, quiz)
}

// CanViewResults allows only the author to list every submission of a quiz.
func CanViewResults(actor Actor, quiz Quiz) bool {
	return IsAuthor(actor, quiz)
}

// CanViewLeaderboard allows only public quizzes.
func CanViewLeaderboard(quiz Quiz) bool {
	return quiz.IsPublic
}

// CanAccessUser allows users to manage themselves and superusers to manage anyone.
func CanAccessUser(actor Actor, targetID int64) bool {
	return actor.ID == targetID || actor.IsSuperuser
}
