package app

import "kambaz-quiz-service/internal/domain"

// MayStartAttempt applies the attempt limit. prior holds every attempt the user
// already has on the quiz, in progress or completed.
//
// With multipleAttempts off only a first attempt is allowed. With it on, the
// count must stay strictly below attemptsAllowed, so attemptsAllowed=0 allows none.
func MayStartAttempt(quiz domain.Quiz, prior []domain.Attempt) bool {
	if !quiz.MultipleAttempts {
		return len(prior) == 0
	}
	return len(prior) < quiz.AttemptsAllowed
}
