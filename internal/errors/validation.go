package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rule codes attached to authoring validation errors
const (
	RuleMissingField         = "missing_field"
	RuleAnswerNotInChoices   = "answer_not_in_choices"
	RuleInvalidChoiceCount   = "invalid_choice_count"
	RuleDuplicateChoice      = "duplicate_choice"
	RuleMissingPlaceholder   = "missing_placeholder"
	RuleAmbiguousPlaceholder = "ambiguous_placeholder"
	RuleSentenceUnchanged    = "sentence_unchanged"
	RuleUnknownExerciseType  = "unknown_exercise_type"
	RuleInvalidLanguageTag   = "invalid_language_tag"
	RuleEmptySections        = "empty_sections"
	RuleEmptyExercises       = "empty_exercises"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// HasRule reports whether any error carries the given rule code.
func (ve ValidationErrors) HasRule(rule string) bool {
	for _, err := range ve {
		if err.Rule == rule {
			return true
		}
	}
	return false
}

// ForField returns the errors reported against field.
func (ve ValidationErrors) ForField(field string) ValidationErrors {
	var out ValidationErrors
	for _, err := range ve {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	var validatorErr validator.ValidationErrors
	if errors.As(err, &validatorErr) {
		for _, fe := range validatorErr {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return errs
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must contain exactly %s items", err.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	// Custom validators
	case "exercise_type":
		return "must be a valid exercise type (multipleChoice, fillInTheBlank, sentenceCorrection)"
	case "language_tag":
		return "must be a valid BCP 47 language tag"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
