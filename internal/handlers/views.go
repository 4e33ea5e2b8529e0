package handlers

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuizView is what a learner sees: prompts and choices, never answers or feedback
type QuizView struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	LanguageTag string        `json:"languageTag"`
	Name        string        `json:"name"`
	Sections    []SectionView `json:"sections"`
}

type SectionView struct {
	Name      string         `json:"name"`
	Exercises []ExerciseView `json:"exercises"`
}

type ExerciseView struct {
	ID       string              `json:"id"`
	Type     models.ExerciseType `json:"type"`
	Question string              `json:"question,omitempty"`
	Choices  []string            `json:"choices,omitempty"`
	Before   *string             `json:"before,omitempty"`
	After    *string             `json:"after,omitempty"`
	Sentence string              `json:"sentence,omitempty"`
}

func NewQuizView(quiz *models.Quiz) (*QuizView, error) {
	view := &QuizView{
		ID:          quiz.ID,
		CreatedAt:   quiz.CreatedAt,
		LanguageTag: quiz.LanguageTag,
		Name:        quiz.Name,
		Sections:    make([]SectionView, 0, len(quiz.Sections)),
	}

	for _, section := range quiz.Sections {
		sectionView := SectionView{
			Name:      section.Name,
			Exercises: make([]ExerciseView, 0, len(section.Exercises)),
		}
		for _, exercise := range section.Exercises {
			exerciseView, err := newExerciseView(exercise)
			if err != nil {
				return nil, err
			}
			sectionView.Exercises = append(sectionView.Exercises, exerciseView)
		}
		view.Sections = append(view.Sections, sectionView)
	}

	return view, nil
}

func newExerciseView(exercise models.Exercise) (ExerciseView, error) {
	if _, err := models.ExpectedAnswer(exercise); err != nil {
		return ExerciseView{}, err
	}

	switch ex := exercise.(type) {
	case *models.MultipleChoiceExercise:
		choices := make([]string, len(ex.Choices))
		copy(choices, ex.Choices)
		return ExerciseView{ID: ex.ID, Type: ex.Type(), Question: ex.Question, Choices: choices}, nil
	case *models.FillInTheBlankExercise:
		before, after := ex.Fragments()
		return ExerciseView{ID: ex.ID, Type: ex.Type(), Question: ex.Question, Before: &before, After: &after}, nil
	case *models.SentenceCorrectionExercise:
		return ExerciseView{ID: ex.ID, Type: ex.Type(), Sentence: ex.Sentence}, nil
	default:
		return ExerciseView{}, fmt.Errorf("%w: %q", models.ErrUnknownExerciseType, exercise.Type())
	}
}
