package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrQuizNotFound     = errors.New("quiz not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsRejectedSubmission checks if a submission could not be graded against the
// quiz as stored: the answer count is wrong or the quiz has no exercises.
func IsRejectedSubmission(err error) bool {
	return errors.Is(err, grading.ErrAnswerCountMismatch) ||
		errors.Is(err, grading.ErrEmptyQuiz)
}

// IsIntegrity checks if error represents an integrity failure during grading
func IsIntegrity(err error) bool {
	return IsRejectedSubmission(err) ||
		errors.Is(err, models.ErrUnknownExerciseType)
}
