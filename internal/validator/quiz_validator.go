package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationErrors is the complete list of problems found in an authored quiz,
// each tagged with a rule code from the errors package.
type ValidationErrors = apperrors.ValidationErrors

type ValidationError = apperrors.ValidationError

// QuizValidator handles authoring-time validation of quizzes and exercises.
// It never stops at the first problem: every error found is returned.
type QuizValidator struct {
	validate *validator.Validate
}

// NewQuizValidator creates a new quiz validator
func NewQuizValidator(validate *validator.Validate) *QuizValidator {
	return &QuizValidator{validate: validate}
}

// ValidateQuiz validates a complete quiz definition
func (v *QuizValidator) ValidateQuiz(def *models.QuizDefinition) ValidationErrors {
	var errs ValidationErrors
	if def == nil {
		return append(errs, missing("quiz", nil))
	}

	if def.Name == "" {
		errs = append(errs, missing("name", def.Name))
	}

	if def.LanguageTag == "" {
		errs = append(errs, missing("languageTag", def.LanguageTag))
	} else if err := v.validate.Var(def.LanguageTag, "language_tag"); err != nil {
		errs = append(errs, newError("languageTag", "must be a valid BCP 47 language tag", apperrors.RuleInvalidLanguageTag, def.LanguageTag))
	}

	if len(def.Sections) == 0 {
		errs = append(errs, newError("sections", "must contain at least one section", apperrors.RuleEmptySections, nil))
	}

	for i, section := range def.Sections {
		errs = append(errs, v.validateSection(fmt.Sprintf("sections[%d]", i), section)...)
	}

	return errs
}

// ValidateExercise validates a single exercise; field names are relative to the exercise
func (v *QuizValidator) ValidateExercise(data models.ExerciseData) ValidationErrors {
	return v.validateExercise("", data)
}

func (v *QuizValidator) validateSection(path string, section models.SectionDefinition) ValidationErrors {
	var errs ValidationErrors

	if section.Name == "" {
		errs = append(errs, missing(join(path, "name"), section.Name))
	}

	if len(section.Exercises) == 0 {
		errs = append(errs, newError(join(path, "exercises"), "must contain at least one exercise", apperrors.RuleEmptyExercises, nil))
	}

	for i, exercise := range section.Exercises {
		errs = append(errs, v.validateExercise(join(path, fmt.Sprintf("exercises[%d]", i)), exercise)...)
	}

	return errs
}

func (v *QuizValidator) validateExercise(path string, data models.ExerciseData) ValidationErrors {
	switch data.Type {
	case models.TypeMultipleChoice:
		return v.validateMultipleChoice(path, data)
	case models.TypeFillInTheBlank:
		return v.validateFillInTheBlank(path, data)
	case models.TypeSentenceCorrection:
		return v.validateSentenceCorrection(path, data)
	}

	if data.Type == "" {
		return ValidationErrors{missing(join(path, "type"), data.Type)}
	}
	return ValidationErrors{newError(join(path, "type"), "must be a valid exercise type (multipleChoice, fillInTheBlank, sentenceCorrection)", apperrors.RuleUnknownExerciseType, data.Type)}
}

// Private validation methods for each exercise type

func (v *QuizValidator) validateMultipleChoice(path string, data models.ExerciseData) ValidationErrors {
	var errs ValidationErrors

	if data.Question == "" {
		errs = append(errs, missing(join(path, "question"), data.Question))
	}

	switch {
	case len(data.Choices) == 0:
		errs = append(errs, missing(join(path, "choices"), nil))
	case len(data.Choices) != models.MultipleChoiceSize:
		errs = append(errs, newError(join(path, "choices"),
			fmt.Sprintf("must contain exactly %d choices, found %d", models.MultipleChoiceSize, len(data.Choices)),
			apperrors.RuleInvalidChoiceCount, len(data.Choices)))
	}

	seen := make(map[string]bool, len(data.Choices))
	for i, choice := range data.Choices {
		field := join(path, fmt.Sprintf("choices[%d]", i))
		if choice == "" {
			errs = append(errs, missing(field, choice))
			continue
		}
		if seen[choice] {
			errs = append(errs, newError(field, fmt.Sprintf("duplicate choice '%s'", choice), apperrors.RuleDuplicateChoice, choice))
		}
		seen[choice] = true
	}

	if data.Answer == "" {
		errs = append(errs, missing(join(path, "answer"), data.Answer))
	} else if !seen[data.Answer] {
		errs = append(errs, newError(join(path, "answer"), "must be one of the choices", apperrors.RuleAnswerNotInChoices, data.Answer))
	}

	return errs
}

func (v *QuizValidator) validateFillInTheBlank(path string, data models.ExerciseData) ValidationErrors {
	var errs ValidationErrors

	if data.Question == "" {
		errs = append(errs, missing(join(path, "question"), data.Question))
	} else {
		switch blanks := strings.Count(data.Question, models.BlankPlaceholder); {
		case blanks == 0:
			errs = append(errs, newError(join(path, "question"),
				fmt.Sprintf("no blank '%s' found in question", models.BlankPlaceholder),
				apperrors.RuleMissingPlaceholder, data.Question))
		case blanks > 1:
			errs = append(errs, newError(join(path, "question"),
				fmt.Sprintf("more than one blank '%s' found in question", models.BlankPlaceholder),
				apperrors.RuleAmbiguousPlaceholder, data.Question))
		}
	}

	if data.Answer == "" {
		errs = append(errs, missing(join(path, "answer"), data.Answer))
	}

	return errs
}

func (v *QuizValidator) validateSentenceCorrection(path string, data models.ExerciseData) ValidationErrors {
	var errs ValidationErrors

	if data.Sentence == "" {
		errs = append(errs, missing(join(path, "sentence"), data.Sentence))
	}
	if data.CorrectedSentence == "" {
		errs = append(errs, missing(join(path, "correctedSentence"), data.CorrectedSentence))
	}

	if data.Sentence != "" && data.Sentence == data.CorrectedSentence {
		errs = append(errs, newError(join(path, "correctedSentence"), "must differ from sentence", apperrors.RuleSentenceUnchanged, data.CorrectedSentence))
	}

	return errs
}

func missing(field string, value interface{}) ValidationError {
	return newError(field, "is required", apperrors.RuleMissingField, value)
}

func newError(field, message, rule string, value interface{}) ValidationError {
	return *apperrors.NewValidationErrorWithRule(field, message, rule, value)
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
