package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() repositories.IDGenerator {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

func fixedClock(t time.Time) repositories.Clock {
	return func() time.Time { return t }
}

func newQuiz(name string) *models.Quiz {
	feedback := "Paris is the capital."
	return &models.Quiz{
		LanguageTag: "fr",
		Name:        name,
		Sections: []models.QuizSection{
			{
				Name: "Geography",
				Exercises: []models.Exercise{
					&models.MultipleChoiceExercise{
						ExerciseBase: models.ExerciseBase{Feedback: &feedback},
						Question:     "Capital of France?",
						Choices:      []string{"Paris", "Lyon", "Nice", "Lille"},
						Answer:       "Paris",
					},
				},
			},
			{
				Name: "Colours",
				Exercises: []models.Exercise{
					&models.FillInTheBlankExercise{Question: "The sky is ______.", Answer: "blue"},
				},
			},
		},
	}
}

func TestQuizRepository_CreateAssignsIdentity(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewQuizRepository(WithIDGenerator(sequentialIDs()), WithClock(fixedClock(createdAt)))

	quiz := newQuiz("French basics")
	require.NoError(t, repo.Create(context.Background(), quiz))

	assert.Equal(t, "id-1", quiz.ID)
	assert.Equal(t, createdAt, quiz.CreatedAt)
	assert.Equal(t, "id-2", quiz.Sections[0].Exercises[0].Base().ID)
	assert.Equal(t, "id-3", quiz.Sections[1].Exercises[0].Base().ID)
}

func TestQuizRepository_GetByID(t *testing.T) {
	repo := NewQuizRepository()
	ctx := context.Background()

	quiz := newQuiz("French basics")
	require.NoError(t, repo.Create(ctx, quiz))

	got, err := repo.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz, got)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestQuizRepository_ReturnsCopies(t *testing.T) {
	repo := NewQuizRepository()
	ctx := context.Background()

	quiz := newQuiz("French basics")
	require.NoError(t, repo.Create(ctx, quiz))

	quiz.Name = "changed after create"
	quiz.Sections[0].Exercises[0].(*models.MultipleChoiceExercise).Answer = "Lyon"

	got, err := repo.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "French basics", got.Name)

	mc := got.Sections[0].Exercises[0].(*models.MultipleChoiceExercise)
	assert.Equal(t, "Paris", mc.Answer)

	*mc.Feedback = "tampered"
	mc.Choices[0] = "Marseille"

	again, err := repo.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	stored := again.Sections[0].Exercises[0].(*models.MultipleChoiceExercise)
	assert.Equal(t, "Paris is the capital.", *stored.Feedback)
	assert.Equal(t, "Paris", stored.Choices[0])
}

func TestQuizRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewQuizRepository()
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newQuiz(name)))
	}

	quizzes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, quizzes, 3)
	assert.Equal(t, "first", quizzes[0].Name)
	assert.Equal(t, "second", quizzes[1].Name)
	assert.Equal(t, "third", quizzes[2].Name)
}

func TestQuizRepository_DuplicateID(t *testing.T) {
	repo := NewQuizRepository(WithIDGenerator(func() string { return "same" }))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newQuiz("first")))

	second := newQuiz("second")
	assert.Error(t, repo.Create(ctx, second))
	assert.Empty(t, second.ID)
	assert.True(t, second.CreatedAt.IsZero())
	assert.Empty(t, second.Sections[0].Exercises[0].Base().ID)

	quizzes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)
}

func TestQuizRepository_CanceledContext(t *testing.T) {
	repo := NewQuizRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, newQuiz("x")), context.Canceled)
	_, err := repo.GetByID(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuizRepository_ConcurrentCreate(t *testing.T) {
	repo := NewQuizRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, newQuiz(fmt.Sprintf("quiz-%d", i))))
		}(i)
	}
	wg.Wait()

	quizzes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, quizzes, 50)
}

func TestQuizRepository_CreateRejectsCorruptQuizUnchanged(t *testing.T) {
	repo := NewQuizRepository()
	quiz := &models.Quiz{Name: "broken", Sections: []models.QuizSection{{
		Name:      "A",
		Exercises: []models.Exercise{(*models.MultipleChoiceExercise)(nil)},
	}}}

	err := repo.Create(context.Background(), quiz)
	assert.ErrorIs(t, err, models.ErrUnknownExerciseType)
	assert.Empty(t, quiz.ID)

	quizzes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quizzes)
}
