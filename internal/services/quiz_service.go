package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/monitoring"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// QuizService handles authoring, retrieval and grading of quizzes
type QuizService interface {
	// CreateQuiz validates and stores a quiz. On validation failure the
	// complete ValidationErrors list is returned and nothing is stored.
	CreateQuiz(ctx context.Context, def *models.QuizDefinition) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*models.Quiz, error)

	// SubmitAnswers grades answers positionally against the quiz's exercises.
	SubmitAnswers(ctx context.Context, id string, answers []*string) (*models.SubmitAnswersResponse, error)
}

type quizService struct {
	repo           repositories.QuizRepository
	eventPublisher events.EventPublisher
	metrics        *monitoring.Metrics
	validator      *validator.Validator
	logger         *slog.Logger
	log            *ServiceLogger
}

func NewQuizService(
	repo repositories.QuizRepository,
	eventPublisher events.EventPublisher,
	metrics *monitoring.Metrics,
	validator *validator.Validator,
	logger *slog.Logger,
) QuizService {
	return &quizService{
		repo:           repo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		validator:      validator,
		logger:         logger,
		log:            NewServiceLogger(logger, LogConfig{Service: "quiz-service", Component: "quiz"}),
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, def *models.QuizDefinition) (quiz *models.Quiz, err error) {
	start := time.Now()
	defer func() {
		id := ""
		if quiz != nil {
			id = quiz.ID
		}
		s.log.LogOperation(ctx, "create_quiz", id, time.Since(start), err)
	}()

	if errs := s.validator.ValidateQuiz(def); len(errs) > 0 {
		s.log.LogValidationError(ctx, "create_quiz", errs)
		for _, e := range errs {
			s.metrics.ObserveValidationRule(e.Rule)
		}
		return nil, errs
	}

	quiz, err = def.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz: %w", err)
	}

	if err = s.repo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.metrics.ObserveQuizCreated()
	s.publish(ctx, events.NewQuizCreatedEvent(quiz.ID, quiz.Name, quiz.LanguageTag, quiz.ExerciseCount()))

	return quiz, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %w", ErrQuizNotFound, err)
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) ListQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *quizService) SubmitAnswers(ctx context.Context, id string, answers []*string) (resp *models.SubmitAnswersResponse, err error) {
	start := time.Now()
	defer func() {
		s.log.LogOperation(ctx, "submit_answers", id, time.Since(start), err)
	}()

	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err = grading.Grade(quiz, answers)
	if err != nil {
		s.metrics.ObserveRejected()
		if errors.Is(err, models.ErrUnknownExerciseType) {
			s.logger.ErrorContext(ctx, "Stored quiz contains an unsupported exercise", "quiz_id", id, "error", err)
		}
		return nil, err
	}

	s.metrics.ObserveGraded(resp.Score)
	s.publish(ctx, events.NewQuizAnswersGradedEvent(quiz.ID, resp.Score, resp.CorrectCount(), len(resp.Results)))

	return resp, nil
}

// publish never fails the caller; a lost event is only logged.
func (s *quizService) publish(ctx context.Context, event *events.QuizEvent) {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish quiz event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
