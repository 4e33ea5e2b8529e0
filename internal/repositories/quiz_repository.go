package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuizRepository interface for quiz persistence operations
type QuizRepository interface {
	// Create persists a new quiz. It assigns the quiz ID, every exercise ID and
	// CreatedAt, writing them back into quiz.
	Create(ctx context.Context, quiz *models.Quiz) error

	// GetByID returns ErrNotFound when no quiz has the given id.
	GetByID(ctx context.Context, id string) (*models.Quiz, error)

	// List returns every stored quiz, oldest first.
	List(ctx context.Context) ([]*models.Quiz, error)
}
