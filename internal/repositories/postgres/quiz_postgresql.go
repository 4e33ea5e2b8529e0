package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db    *gorm.DB
	newID repositories.IDGenerator
	now   repositories.Clock
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:    db,
		newID: repositories.NewUUID,
		now:   repositories.UTCNow,
	}
}

// Create stores the quiz with its sections and exercises in one transaction
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	stamped, err := repositories.StampedCopy(quiz, q.newID, q.now)
	if err != nil {
		return fmt.Errorf("failed to map quiz: %w", err)
	}

	record, err := toRecord(stamped)
	if err != nil {
		return fmt.Errorf("failed to map quiz: %w", err)
	}

	err = q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sections").Create(record).Error; err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}

		for i := range record.Sections {
			section := &record.Sections[i]
			if err := tx.Omit("Exercises").Create(section).Error; err != nil {
				return fmt.Errorf("failed to create section %d: %w", section.Position, err)
			}

			if len(section.Exercises) == 0 {
				continue
			}
			for j := range section.Exercises {
				section.Exercises[j].SectionID = section.ID
			}
			if err := tx.Create(&section.Exercises).Error; err != nil {
				return fmt.Errorf("failed to create exercises of section %d: %w", section.Position, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	repositories.CopyIdentity(quiz, stamped)
	return nil
}

// GetByID retrieves a quiz with its sections and exercises in order
func (q *QuizPostgreSQL) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	var record QuizRecord
	err := q.withContent(q.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return toModel(&record)
}

// List retrieves every quiz, oldest first
func (q *QuizPostgreSQL) List(ctx context.Context) ([]*models.Quiz, error) {
	var records []QuizRecord
	err := q.withContent(q.db.WithContext(ctx)).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*models.Quiz, 0, len(records))
	for i := range records {
		quiz, err := toModel(&records[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Sections.Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}
