package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizRecord is the quizzes table row.
type QuizRecord struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"not null;size:255"`
	LanguageTag string          `gorm:"not null;size:35;index"`
	CreatedAt   time.Time       `gorm:"not null;index"`
	Sections    []SectionRecord `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (QuizRecord) TableName() string { return "quizzes" }

// SectionRecord is the quiz_sections table row. Position is the section's
// zero-based index within its quiz.
type SectionRecord struct {
	ID        uint             `gorm:"primaryKey"`
	QuizID    string           `gorm:"not null;type:varchar(36);uniqueIndex:idx_section_position"`
	Position  int              `gorm:"not null;uniqueIndex:idx_section_position"`
	Name      string           `gorm:"not null;size:255"`
	Exercises []ExerciseRecord `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

func (SectionRecord) TableName() string { return "quiz_sections" }

// ExerciseRecord is the exercises table row. Columns a variant does not use
// are left empty.
type ExerciseRecord struct {
	ID                string         `gorm:"primaryKey;type:varchar(36)"`
	SectionID         uint           `gorm:"not null;uniqueIndex:idx_exercise_position"`
	Position          int            `gorm:"not null;uniqueIndex:idx_exercise_position"`
	Type              string         `gorm:"not null;size:32"`
	Question          string         `gorm:"type:text"`
	Choices           datatypes.JSON `gorm:"type:jsonb"`
	Sentence          string         `gorm:"type:text"`
	CorrectedSentence string         `gorm:"type:text"`
	Answer            string         `gorm:"type:text"`
	Feedback          *string        `gorm:"type:text"`
}

func (ExerciseRecord) TableName() string { return "exercises" }

// AutoMigrate creates or updates the quiz tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&QuizRecord{}, &SectionRecord{}, &ExerciseRecord{})
}

func toRecord(quiz *models.Quiz) (*QuizRecord, error) {
	record := &QuizRecord{
		ID:          quiz.ID,
		Name:        quiz.Name,
		LanguageTag: quiz.LanguageTag,
		CreatedAt:   quiz.CreatedAt,
		Sections:    make([]SectionRecord, 0, len(quiz.Sections)),
	}

	for i, section := range quiz.Sections {
		sectionRecord := SectionRecord{
			QuizID:    quiz.ID,
			Position:  i,
			Name:      section.Name,
			Exercises: make([]ExerciseRecord, 0, len(section.Exercises)),
		}

		for j, exercise := range section.Exercises {
			data, err := models.DataOf(exercise)
			if err != nil {
				return nil, fmt.Errorf("section %d exercise %d: %w", i, j, err)
			}

			exerciseRecord := ExerciseRecord{
				ID:                data.ID,
				Position:          j,
				Type:              string(data.Type),
				Question:          data.Question,
				Sentence:          data.Sentence,
				CorrectedSentence: data.CorrectedSentence,
				Answer:            data.Answer,
				Feedback:          data.Feedback,
			}
			if data.Choices != nil {
				choices, err := json.Marshal(data.Choices)
				if err != nil {
					return nil, fmt.Errorf("failed to encode choices: %w", err)
				}
				exerciseRecord.Choices = datatypes.JSON(choices)
			}

			sectionRecord.Exercises = append(sectionRecord.Exercises, exerciseRecord)
		}

		record.Sections = append(record.Sections, sectionRecord)
	}

	return record, nil
}

// toModel expects Sections and their Exercises ordered by Position.
func toModel(record *QuizRecord) (*models.Quiz, error) {
	quiz := &models.Quiz{
		ID:          record.ID,
		CreatedAt:   record.CreatedAt,
		LanguageTag: record.LanguageTag,
		Name:        record.Name,
		Sections:    make([]models.QuizSection, 0, len(record.Sections)),
	}

	for _, sectionRecord := range record.Sections {
		section := models.QuizSection{
			Name:      sectionRecord.Name,
			Exercises: make([]models.Exercise, 0, len(sectionRecord.Exercises)),
		}

		for _, exerciseRecord := range sectionRecord.Exercises {
			data := models.ExerciseData{
				ID:                exerciseRecord.ID,
				Type:              models.ExerciseType(exerciseRecord.Type),
				Question:          exerciseRecord.Question,
				Sentence:          exerciseRecord.Sentence,
				CorrectedSentence: exerciseRecord.CorrectedSentence,
				Answer:            exerciseRecord.Answer,
				Feedback:          exerciseRecord.Feedback,
			}
			if len(exerciseRecord.Choices) > 0 {
				if err := json.Unmarshal(exerciseRecord.Choices, &data.Choices); err != nil {
					return nil, fmt.Errorf("failed to decode choices of exercise %s: %w", exerciseRecord.ID, err)
				}
			}

			exercise, err := data.Exercise()
			if err != nil {
				return nil, fmt.Errorf("exercise %s: %w", exerciseRecord.ID, err)
			}
			section.Exercises = append(section.Exercises, exercise)
		}

		quiz.Sections = append(quiz.Sections, section)
	}

	return quiz, nil
}
