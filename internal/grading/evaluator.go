package grading

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Evaluate compares a single submission against the exercise's expected
// answer. Comparison is exact: no trimming, no case folding, no Unicode
// normalization. A nil submission is always incorrect.
//
// The returned result always carries the expected answer and the exercise
// feedback, whether or not the submission was correct.
func Evaluate(exercise models.Exercise, submitted *string) (models.SubmitAnswerResult, error) {
	expected, err := models.ExpectedAnswer(exercise)
	if err != nil {
		return models.SubmitAnswerResult{}, err
	}

	return models.SubmitAnswerResult{
		Correct:  submitted != nil && *submitted == expected,
		Answer:   expected,
		Feedback: exercise.Base().Feedback,
	}, nil
}
