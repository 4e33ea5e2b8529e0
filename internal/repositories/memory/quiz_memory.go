package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// QuizRepository keeps quizzes in process memory. Stored quizzes are deep
// copies, so callers can never mutate repository state through a returned
// value.
type QuizRepository struct {
	mu      sync.RWMutex
	quizzes map[string]*models.Quiz
	order   []string
	newID   repositories.IDGenerator
	now     repositories.Clock
}

type Option func(*QuizRepository)

func WithIDGenerator(gen repositories.IDGenerator) Option {
	return func(r *QuizRepository) { r.newID = gen }
}

func WithClock(clock repositories.Clock) Option {
	return func(r *QuizRepository) { r.now = clock }
}

func NewQuizRepository(opts ...Option) *QuizRepository {
	r := &QuizRepository{
		quizzes: make(map[string]*models.Quiz),
		newID:   repositories.NewUUID,
		now:     repositories.UTCNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ repositories.QuizRepository = (*QuizRepository)(nil)

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := repositories.StampedCopy(quiz, r.newID, r.now)
	if err != nil {
		return fmt.Errorf("failed to store quiz: %w", err)
	}
	if _, exists := r.quizzes[stored.ID]; exists {
		return fmt.Errorf("quiz with id '%s' already exists", stored.ID)
	}

	r.quizzes[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	repositories.CopyIdentity(quiz, stored)
	return nil
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return quiz.Clone()
}

func (r *QuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	quizzes := make([]*models.Quiz, 0, len(r.order))
	for _, id := range r.order {
		quiz, err := r.quizzes[id].Clone()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}
