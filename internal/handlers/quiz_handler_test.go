package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/monitoring"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quiz), args.Error(1)
}

func setupRouter(t *testing.T, repo repositories.QuizRepository) *gin.Engine {
	t.Helper()
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return setupRouterWithPublisher(t, repo, events.NewMockEventPublisher(slogger))
}

func setupRouterWithPublisher(t *testing.T, repo repositories.QuizRepository, publisher events.EventPublisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	metrics := monitoring.New()
	quizService := services.NewQuizService(repo, publisher, metrics, v, slogger)
	transferService := services.NewImportExportService(quizService, slogger)
	feedbackService := services.NewFeedbackService(publisher, slogger)

	hm := NewHandlerManager(quizService, transferService, feedbackService, v, metrics, utils.NewSlogLogger(slogger))
	return hm.NewRouter()
}

const quizPayload = `{
	"languageTag": "fr",
	"name": "French basics",
	"sections": [
		{"name": "Geography", "exercises": [
			{"type": "multipleChoice", "question": "Capital of France?", "choices": ["Paris", "Lyon", "Nice", "Lille"], "answer": "Paris", "feedback": "Paris is the capital."}
		]},
		{"name": "Colours", "exercises": [
			{"type": "fillInTheBlank", "question": "The sky is ______.", "answer": "blue"}
		]}
	]
}`

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createQuiz(t *testing.T, router *gin.Engine) QuizView {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/quizzes", quizPayload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view QuizView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func TestCreateQuiz_ReturnsLearnerView(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes", quizPayload)
	require.Equal(t, http.StatusCreated, w.Code)

	body := w.Body.String()
	assert.NotContains(t, body, `"answer"`)
	assert.NotContains(t, body, "Paris is the capital.")

	var view QuizView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEmpty(t, view.ID)
	assert.False(t, view.CreatedAt.IsZero())
	require.Len(t, view.Sections, 2)
	assert.Equal(t, []string{"Paris", "Lyon", "Nice", "Lille"}, view.Sections[0].Exercises[0].Choices)

	fib := view.Sections[1].Exercises[0]
	require.NotNil(t, fib.Before)
	require.NotNil(t, fib.After)
	assert.Equal(t, "The sky is ", *fib.Before)
	assert.Equal(t, ".", *fib.After)
}

func TestCreateQuiz_ValidationErrors(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())

	payload := `{
		"languageTag": "fr",
		"name": "",
		"sections": [{"name": "A", "exercises": [
			{"type": "multipleChoice", "question": "Pick", "choices": ["a", "b", "c", "d"], "answer": "e"},
			{"type": "fillInTheBlank", "question": "No blank", "answer": "x"}
		]}]
	}`
	w := doJSON(router, http.MethodPost, "/api/v1/quizzes", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string                     `json:"message"`
		Code    string                     `json:"code"`
		Details []services.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeValidationFailed, resp.Code)
	require.Len(t, resp.Details, 3)
	assert.Equal(t, "name", resp.Details[0].Field)
	assert.Equal(t, "sections[0].exercises[0].answer", resp.Details[1].Field)
	assert.Equal(t, "answer_not_in_choices", resp.Details[1].Rule)
	assert.Equal(t, "sections[0].exercises[1].question", resp.Details[2].Field)
	assert.Equal(t, "missing_placeholder", resp.Details[2].Rule)

	w = doJSON(router, http.MethodGet, "/api/v1/quizzes", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateQuiz_MalformedJSON(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuiz(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	created := createQuiz(t, router)

	w := doJSON(router, http.MethodGet, "/api/v1/quizzes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var view QuizView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, created, view)

	w = doJSON(router, http.MethodGet, "/api/v1/quizzes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), CodeQuizNotFound)
}

func TestListQuizzes(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	first := createQuiz(t, router)
	second := createQuiz(t, router)

	w := doJSON(router, http.MethodGet, "/api/v1/quizzes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var views []QuizView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)
}

func TestSubmitAnswers(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	created := createQuiz(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes/"+created.ID+"/answers", `{"userAnswers": ["Lyon", "blue"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"results": [
			{"correct": false, "answer": "Paris", "feedback": "Paris is the capital."},
			{"correct": true, "answer": "blue"}
		],
		"score": 50
	}`, w.Body.String())
}

func TestSubmitAnswers_NullAnswerIsIncorrect(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	created := createQuiz(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes/"+created.ID+"/answers", `{"userAnswers": [null, "blue"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmitAnswersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Results[0].Correct)
	assert.Equal(t, 50, resp.Score)
}

func TestSubmitAnswers_ErrorStatuses(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	created := createQuiz(t, router)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown quiz", "/api/v1/quizzes/missing/answers", `{"userAnswers": []}`, http.StatusNotFound, CodeQuizNotFound},
		{"too few answers", "/api/v1/quizzes/" + created.ID + "/answers", `{"userAnswers": ["Paris"]}`, http.StatusUnprocessableEntity, CodeAnswerCount},
		{"too many answers", "/api/v1/quizzes/" + created.ID + "/answers", `{"userAnswers": ["Paris", "blue", "x"]}`, http.StatusUnprocessableEntity, CodeAnswerCount},
		{"missing answers field", "/api/v1/quizzes/" + created.ID + "/answers", `{}`, http.StatusBadRequest, CodeValidationFailed},
		{"malformed body", "/api/v1/quizzes/" + created.ID + "/answers", `[`, http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestSubmitAnswers_StoredDataErrors(t *testing.T) {
	repo := new(MockQuizRepository)
	router := setupRouter(t, repo)

	repo.On("GetByID", mock.Anything, "empty").Return(&models.Quiz{ID: "empty"}, nil)
	repo.On("GetByID", mock.Anything, "corrupt").Return(&models.Quiz{
		ID:       "corrupt",
		Sections: []models.QuizSection{{Name: "A", Exercises: []models.Exercise{nil}}},
	}, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes/empty/answers", `{"userAnswers": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), CodeEmptyQuiz)

	w = doJSON(router, http.MethodPost, "/api/v1/quizzes/corrupt/answers", `{"userAnswers": ["x"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), CodeUnknownExercise)
}

func TestExportAndImportQuiz(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())
	created := createQuiz(t, router)

	w := doJSON(router, http.MethodGet, "/api/v1/quizzes/"+created.ID+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quiz-"+created.ID+".xlsx")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "quiz.xlsx")
	require.NoError(t, err)
	_, err = part.Write(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var imported QuizView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	assert.NotEqual(t, created.ID, imported.ID)
	assert.Equal(t, created.Name, imported.Name)
	require.Len(t, imported.Sections, 2)
	assert.Equal(t, created.Sections[0].Exercises[0].Choices, imported.Sections[0].Exercises[0].Choices)

	w = doJSON(router, http.MethodGet, "/api/v1/quizzes/missing/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportQuiz_MissingFile(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())

	w := doJSON(router, http.MethodPost, "/api/v1/quizzes/import", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := setupRouter(t, memory.NewQuizRepository())

	w := doJSON(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"quiz-service"}`, w.Body.String())

	createQuiz(t, router)
	w = doJSON(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quiz_created_total 1")
}
