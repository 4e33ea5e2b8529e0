package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of quiz events
type EventType string

const (
	EventQuizCreated       EventType = "quiz.created"
	EventQuizAnswersGraded EventType = "quiz.answers_graded"
	EventFeedbackSubmitted EventType = "feedback.submitted"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// QuizEvent is the envelope for every event the service publishes
type QuizEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

// Event payloads

type QuizCreatedEvent struct {
	QuizID        string `json:"quiz_id"`
	Name          string `json:"name"`
	LanguageTag   string `json:"language_tag"`
	ExerciseCount int    `json:"exercise_count"`
}

type QuizAnswersGradedEvent struct {
	QuizID        string `json:"quiz_id"`
	Score         int    `json:"score"`
	CorrectCount  int    `json:"correct_count"`
	ExerciseCount int    `json:"exercise_count"`
}

// FeedbackSubmittedEvent carries free-text feedback a learner left on a page
type FeedbackSubmittedEvent struct {
	Text     string `json:"text"`
	PagePath string `json:"page_path"`
}

// Event factory functions

func NewQuizCreatedEvent(quizID, name, languageTag string, exerciseCount int) *QuizEvent {
	return newEvent(EventQuizCreated, QuizCreatedEvent{
		QuizID:        quizID,
		Name:          name,
		LanguageTag:   languageTag,
		ExerciseCount: exerciseCount,
	})
}

func NewQuizAnswersGradedEvent(quizID string, score, correctCount, exerciseCount int) *QuizEvent {
	return newEvent(EventQuizAnswersGraded, QuizAnswersGradedEvent{
		QuizID:        quizID,
		Score:         score,
		CorrectCount:  correctCount,
		ExerciseCount: exerciseCount,
	})
}

func NewFeedbackSubmittedEvent(text, pagePath string) *QuizEvent {
	return newEvent(EventFeedbackSubmitted, FeedbackSubmittedEvent{
		Text:     text,
		PagePath: pagePath,
	})
}

func newEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func GenerateEventID() string {
	return uuid.NewString()
}
