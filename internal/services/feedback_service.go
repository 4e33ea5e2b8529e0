package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// ErrFeedbackNotDelivered is returned when feedback could not be handed to the event publisher
var ErrFeedbackNotDelivered = errors.New("feedback not delivered")

// FeedbackService forwards learner feedback to whoever consumes feedback.submitted events
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, feedback *models.Feedback) error
}

type feedbackService struct {
	eventPublisher events.EventPublisher
	log            *ServiceLogger
}

func NewFeedbackService(eventPublisher events.EventPublisher, logger *slog.Logger) FeedbackService {
	return &feedbackService{
		eventPublisher: eventPublisher,
		log:            NewServiceLogger(logger, LogConfig{Service: "quiz-service", Component: "feedback"}),
	}
}

// SubmitFeedback publishes the feedback. Unlike quiz events the publisher is
// the only sink, so a publish failure fails the call.
func (s *feedbackService) SubmitFeedback(ctx context.Context, feedback *models.Feedback) (err error) {
	start := time.Now()
	event := events.NewFeedbackSubmittedEvent(feedback.Text, feedback.PagePath)
	defer func() {
		s.log.LogOperation(ctx, "submit_feedback", "", time.Since(start), err)
	}()

	if err = s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("%w: %w", ErrFeedbackNotDelivered, err)
	}
	return nil
}
