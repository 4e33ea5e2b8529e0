package grading

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

var (
	// ErrAnswerCountMismatch is returned when the number of submitted answers
	// differs from the number of exercises in the quiz.
	ErrAnswerCountMismatch = errors.New("answer count does not match exercise count")

	// ErrEmptyQuiz is returned when grading a quiz that has no exercises.
	ErrEmptyQuiz = errors.New("quiz has no exercises")
)

// Grade evaluates every submitted answer against the quiz's flattened exercise
// sequence and computes the overall score. answers[i] is graded against the
// i-th exercise in section-then-position order.
//
// Either a complete response or an error is returned, never both.
func Grade(quiz *models.Quiz, answers []*string) (*models.SubmitAnswersResponse, error) {
	if quiz == nil {
		return nil, ErrEmptyQuiz
	}

	exercises := quiz.Exercises()
	if len(exercises) == 0 {
		return nil, ErrEmptyQuiz
	}
	if len(answers) != len(exercises) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrAnswerCountMismatch, len(exercises), len(answers))
	}

	results := make([]models.SubmitAnswerResult, len(exercises))
	correct := 0
	for i, exercise := range exercises {
		result, err := Evaluate(exercise, answers[i])
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		if result.Correct {
			correct++
		}
		results[i] = result
	}

	return &models.SubmitAnswersResponse{
		Results: results,
		Score:   Score(correct, len(exercises)),
	}, nil
}

// Score returns the percentage of correct answers rounded up to the nearest
// integer. total must be positive.
func Score(correct, total int) int {
	return (100*correct + total - 1) / total
}
