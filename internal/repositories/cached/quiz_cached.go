package cached

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

const keyPrefix = "quiz:"

// QuizRepository decorates another QuizRepository with a read-through cache
// on GetByID and a write-through cache on Create. The cache is never the
// source of truth: when it fails the call falls back to the inner repository.
type QuizRepository struct {
	inner  repositories.QuizRepository
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewQuizRepository(inner repositories.QuizRepository, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) *QuizRepository {
	return &QuizRepository{
		inner:  inner,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

var _ repositories.QuizRepository = (*QuizRepository)(nil)

func Key(id string) string {
	return keyPrefix + id
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := r.inner.Create(ctx, quiz); err != nil {
		return err
	}

	r.store(ctx, quiz)
	return nil
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.cache.Get(ctx, Key(id), &quiz)
	switch {
	case err == nil:
		r.logger.Debug("Quiz cache hit", "quiz_id", id)
		return &quiz, nil
	case errors.Is(err, cache.ErrCacheMiss):
		r.logger.Debug("Quiz cache miss", "quiz_id", id)
	default:
		r.logger.Warn("Quiz cache read failed", "quiz_id", id, "error", err)
	}

	found, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, found)
	return found, nil
}

// List always reads from the inner repository.
func (r *QuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	return r.inner.List(ctx)
}

// Invalidate drops every cached quiz.
func (r *QuizRepository) Invalidate(ctx context.Context) error {
	if err := r.cache.DeletePattern(ctx, keyPrefix+"*"); err != nil {
		return fmt.Errorf("failed to invalidate quiz cache: %w", err)
	}
	return nil
}

func (r *QuizRepository) store(ctx context.Context, quiz *models.Quiz) {
	if err := r.cache.Set(ctx, Key(quiz.ID), quiz, r.ttl); err != nil {
		r.logger.Warn("Quiz cache write failed", "quiz_id", quiz.ID, "error", err)
	}
}
