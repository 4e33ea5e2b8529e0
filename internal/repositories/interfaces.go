package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// ===== SHARED ERRORS =====

// ErrNotFound is returned by every QuizRepository implementation when the
// requested quiz does not exist.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ===== SHARED HELPERS =====

// IDGenerator produces identifiers for quizzes and exercises.
type IDGenerator func() string

// Clock reports the current time.
type Clock func() time.Time

func NewUUID() string {
	return uuid.NewString()
}

func UTCNow() time.Time {
	return time.Now().UTC()
}

// AssignIdentity stamps a quiz that is about to be stored with a new ID, a
// creation time and an ID for each of its exercises.
func AssignIdentity(quiz *models.Quiz, newID IDGenerator, now Clock) {
	quiz.ID = newID()
	quiz.CreatedAt = now()
	for _, section := range quiz.Sections {
		for _, exercise := range section.Exercises {
			exercise.Base().ID = newID()
		}
	}
}

// StampedCopy returns a deep copy of quiz carrying a new identity. quiz itself
// is left unchanged so a failed store leaves the caller's value as it was.
func StampedCopy(quiz *models.Quiz, newID IDGenerator, now Clock) (*models.Quiz, error) {
	stamped, err := quiz.Clone()
	if err != nil {
		return nil, err
	}
	AssignIdentity(stamped, newID, now)
	return stamped, nil
}

// CopyIdentity writes the identity assigned to stored back into quiz. Both
// must have the same shape.
func CopyIdentity(quiz, stored *models.Quiz) {
	quiz.ID = stored.ID
	quiz.CreatedAt = stored.CreatedAt
	for i, section := range quiz.Sections {
		for j, exercise := range section.Exercises {
			exercise.Base().ID = stored.Sections[i].Exercises[j].Base().ID
		}
	}
}
