package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Quiz: Name
//   Section A: Name
//     1. Exercise
//     2. Exercise
//   Section B: Name
//     1. Exercise

type Quiz struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	LanguageTag string        `json:"languageTag"`
	Name        string        `json:"name"`
	Sections    []QuizSection `json:"sections"`
}

type QuizSection struct {
	Name      string
	Exercises []Exercise
}

// Exercises flattens the quiz into section-then-position order. Submitted
// answers are aligned with this sequence.
func (q *Quiz) Exercises() []Exercise {
	exercises := make([]Exercise, 0, q.ExerciseCount())
	for _, section := range q.Sections {
		exercises = append(exercises, section.Exercises...)
	}
	return exercises
}

func (q *Quiz) ExerciseCount() int {
	count := 0
	for _, section := range q.Sections {
		count += len(section.Exercises)
	}
	return count
}

type quizSectionJSON struct {
	Name      string         `json:"name"`
	Exercises []ExerciseData `json:"exercises"`
}

func (s QuizSection) MarshalJSON() ([]byte, error) {
	out := quizSectionJSON{
		Name:      s.Name,
		Exercises: make([]ExerciseData, 0, len(s.Exercises)),
	}
	for _, exercise := range s.Exercises {
		data, err := DataOf(exercise)
		if err != nil {
			return nil, err
		}
		out.Exercises = append(out.Exercises, data)
	}
	return json.Marshal(out)
}

func (s *QuizSection) UnmarshalJSON(b []byte) error {
	var in quizSectionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	exercises := make([]Exercise, 0, len(in.Exercises))
	for i, data := range in.Exercises {
		exercise, err := data.Exercise()
		if err != nil {
			return fmt.Errorf("exercise %d: %w", i, err)
		}
		exercises = append(exercises, exercise)
	}

	s.Name = in.Name
	s.Exercises = exercises
	return nil
}

// QuizDefinition is an authored quiz before validation and persistence.
type QuizDefinition struct {
	LanguageTag string              `json:"languageTag"`
	Name        string              `json:"name"`
	Sections    []SectionDefinition `json:"sections"`
}

type SectionDefinition struct {
	Name      string         `json:"name"`
	Exercises []ExerciseData `json:"exercises"`
}

// Build converts a validated definition into a Quiz. ID, CreatedAt and
// exercise IDs are left for the repository to assign. Empty feedback is
// stored as no feedback.
func (d *QuizDefinition) Build() (*Quiz, error) {
	quiz := &Quiz{
		LanguageTag: d.LanguageTag,
		Name:        d.Name,
		Sections:    make([]QuizSection, 0, len(d.Sections)),
	}

	for i, sectionDef := range d.Sections {
		section := QuizSection{
			Name:      sectionDef.Name,
			Exercises: make([]Exercise, 0, len(sectionDef.Exercises)),
		}
		for j, data := range sectionDef.Exercises {
			data.ID = ""
			if data.Feedback != nil && *data.Feedback == "" {
				data.Feedback = nil
			}
			exercise, err := data.Exercise()
			if err != nil {
				return nil, fmt.Errorf("sections[%d].exercises[%d]: %w", i, j, err)
			}
			section.Exercises = append(section.Exercises, exercise)
		}
		quiz.Sections = append(quiz.Sections, section)
	}

	return quiz, nil
}

// Clone returns a deep copy of the quiz; no exercise is shared with q.
func (q *Quiz) Clone() (*Quiz, error) {
	clone := &Quiz{
		ID:          q.ID,
		CreatedAt:   q.CreatedAt,
		LanguageTag: q.LanguageTag,
		Name:        q.Name,
		Sections:    make([]QuizSection, 0, len(q.Sections)),
	}

	for _, section := range q.Sections {
		exercises := make([]Exercise, 0, len(section.Exercises))
		for _, exercise := range section.Exercises {
			data, err := DataOf(exercise)
			if err != nil {
				return nil, err
			}
			if data.Feedback != nil {
				feedback := *data.Feedback
				data.Feedback = &feedback
			}
			copied, err := data.Exercise()
			if err != nil {
				return nil, err
			}
			exercises = append(exercises, copied)
		}
		clone.Sections = append(clone.Sections, QuizSection{Name: section.Name, Exercises: exercises})
	}

	return clone, nil
}
