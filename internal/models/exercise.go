package models

import (
	"errors"
	"fmt"
	"strings"
)

type ExerciseType string

const (
	TypeMultipleChoice     ExerciseType = "multipleChoice"
	TypeFillInTheBlank     ExerciseType = "fillInTheBlank"
	TypeSentenceCorrection ExerciseType = "sentenceCorrection"
)

// AllExerciseTypes is the closed set of supported exercise variants.
var AllExerciseTypes = []ExerciseType{
	TypeMultipleChoice,
	TypeFillInTheBlank,
	TypeSentenceCorrection,
}

// BlankPlaceholder marks the gap in a fill-in-the-blank question.
const BlankPlaceholder = "______"

// MultipleChoiceSize is the number of choices a multiple-choice exercise carries.
const MultipleChoiceSize = 4

// ErrUnknownExerciseType signals an exercise whose discriminant is not one of
// AllExerciseTypes. Seen at grading time it means stored data is corrupt.
var ErrUnknownExerciseType = errors.New("unknown exercise type")

func (t ExerciseType) IsValid() bool {
	for _, known := range AllExerciseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ExerciseBase holds the fields shared by every variant.
type ExerciseBase struct {
	ID       string
	Feedback *string
}

func (b *ExerciseBase) Base() *ExerciseBase {
	return b
}

// Exercise is implemented by MultipleChoiceExercise, FillInTheBlankExercise
// and SentenceCorrectionExercise.
type Exercise interface {
	Type() ExerciseType
	Base() *ExerciseBase
}

type MultipleChoiceExercise struct {
	ExerciseBase
	Question string
	Choices  []string
	Answer   string
}

func (e *MultipleChoiceExercise) Type() ExerciseType { return TypeMultipleChoice }

type FillInTheBlankExercise struct {
	ExerciseBase
	Question string // e.g. "The sky is ______."
	Answer   string
}

func (e *FillInTheBlankExercise) Type() ExerciseType { return TypeFillInTheBlank }

// Fragments splits the question around the placeholder for display.
func (e *FillInTheBlankExercise) Fragments() (before, after string) {
	before, after, _ = strings.Cut(e.Question, BlankPlaceholder)
	return before, after
}

type SentenceCorrectionExercise struct {
	ExerciseBase
	Sentence          string
	CorrectedSentence string
}

func (e *SentenceCorrectionExercise) Type() ExerciseType { return TypeSentenceCorrection }

// ExpectedAnswer returns the canonical answer a submission is compared against.
func ExpectedAnswer(e Exercise) (string, error) {
	if isNilVariant(e) {
		return "", unknownType(e)
	}
	switch ex := e.(type) {
	case *MultipleChoiceExercise:
		return ex.Answer, nil
	case *FillInTheBlankExercise:
		return ex.Answer, nil
	case *SentenceCorrectionExercise:
		return ex.CorrectedSentence, nil
	default:
		return "", unknownType(e)
	}
}

func unknownType(e Exercise) error {
	if e == nil {
		return fmt.Errorf("%w: <nil>", ErrUnknownExerciseType)
	}
	if isNilVariant(e) {
		return fmt.Errorf("%w: nil %q", ErrUnknownExerciseType, e.Type())
	}
	return fmt.Errorf("%w: %q", ErrUnknownExerciseType, e.Type())
}

// isNilVariant reports a missing exercise, including a typed nil pointer
// stored in the interface.
func isNilVariant(e Exercise) bool {
	switch ex := e.(type) {
	case nil:
		return true
	case *MultipleChoiceExercise:
		return ex == nil
	case *FillInTheBlankExercise:
		return ex == nil
	case *SentenceCorrectionExercise:
		return ex == nil
	}
	return false
}

// ExerciseData is the flat, discriminated shape of an exercise used on the
// authoring wire, in the cache and in the database.
type ExerciseData struct {
	ID                string       `json:"id,omitempty"`
	Type              ExerciseType `json:"type"`
	Question          string       `json:"question,omitempty"`
	Choices           []string     `json:"choices,omitempty"`
	Sentence          string       `json:"sentence,omitempty"`
	CorrectedSentence string       `json:"correctedSentence,omitempty"`
	Answer            string       `json:"answer,omitempty"`
	Feedback          *string      `json:"feedback,omitempty"`
}

// Exercise decodes the record into its variant. Fields that do not belong to
// the variant are ignored.
func (d ExerciseData) Exercise() (Exercise, error) {
	base := ExerciseBase{ID: d.ID, Feedback: d.Feedback}

	switch d.Type {
	case TypeMultipleChoice:
		choices := make([]string, len(d.Choices))
		copy(choices, d.Choices)
		return &MultipleChoiceExercise{
			ExerciseBase: base,
			Question:     d.Question,
			Choices:      choices,
			Answer:       d.Answer,
		}, nil
	case TypeFillInTheBlank:
		return &FillInTheBlankExercise{
			ExerciseBase: base,
			Question:     d.Question,
			Answer:       d.Answer,
		}, nil
	case TypeSentenceCorrection:
		return &SentenceCorrectionExercise{
			ExerciseBase:      base,
			Sentence:          d.Sentence,
			CorrectedSentence: d.CorrectedSentence,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExerciseType, d.Type)
	}
}

// DataOf encodes an exercise into its flat record.
func DataOf(e Exercise) (ExerciseData, error) {
	if isNilVariant(e) {
		return ExerciseData{}, unknownType(e)
	}
	switch ex := e.(type) {
	case *MultipleChoiceExercise:
		choices := make([]string, len(ex.Choices))
		copy(choices, ex.Choices)
		return ExerciseData{
			ID:       ex.ID,
			Type:     TypeMultipleChoice,
			Question: ex.Question,
			Choices:  choices,
			Answer:   ex.Answer,
			Feedback: ex.Feedback,
		}, nil
	case *FillInTheBlankExercise:
		return ExerciseData{
			ID:       ex.ID,
			Type:     TypeFillInTheBlank,
			Question: ex.Question,
			Answer:   ex.Answer,
			Feedback: ex.Feedback,
		}, nil
	case *SentenceCorrectionExercise:
		return ExerciseData{
			ID:                ex.ID,
			Type:              TypeSentenceCorrection,
			Sentence:          ex.Sentence,
			CorrectedSentence: ex.CorrectedSentence,
			Feedback:          ex.Feedback,
		}, nil
	default:
		return ExerciseData{}, unknownType(e)
	}
}
