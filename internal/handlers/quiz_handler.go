package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmitAnswersRequest carries one answer per exercise, in quiz order. A null
// entry means the exercise was left unanswered.
type SubmitAnswersRequest struct {
	UserAnswers []*string `json:"userAnswers" validate:"required"`
}

type QuizHandler struct {
	BaseHandler
	quizService     services.QuizService
	transferService services.ImportExportService
	validator       *validator.Validator
}

func NewQuizHandler(
	quizService services.QuizService,
	transferService services.ImportExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:     NewBaseHandler(logger),
		quizService:     quizService,
		transferService: transferService,
		validator:       validator,
	}
}

// CreateQuiz creates a new quiz
// @Summary Create quiz
// @Description Validates and stores an authored quiz. Every validation problem is reported.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body models.QuizDefinition true "Quiz definition"
// @Success 201 {object} QuizView
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var def models.QuizDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating quiz", "name", def.Name, "language_tag", def.LanguageTag)

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), &def)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondWithQuiz(c, http.StatusCreated, quiz)
}

// ListQuizzes lists every quiz
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {array} QuizView
// @Failure 500 {object} ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	views := make([]*QuizView, 0, len(quizzes))
	for _, quiz := range quizzes {
		view, err := NewQuizView(quiz)
		if err != nil {
			h.handleServiceError(c, fmt.Errorf("quiz %s: %w", quiz.ID, err))
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// GetQuiz retrieves a quiz by ID
// @Summary Get quiz
// @Description Returns the learner view of a quiz: no answers and no feedback
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} QuizView
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondWithQuiz(c, http.StatusOK, quiz)
}

// SubmitAnswers grades a learner's answers
// @Summary Submit answers
// @Description Grades answers positionally against the quiz's exercises
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param answers body SubmitAnswersRequest true "Answers"
// @Success 200 {object} models.SubmitAnswersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes/{id}/answers [post]
func (h *QuizHandler) SubmitAnswers(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload", err, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Submitting answers", "quiz_id", id, "answers", len(req.UserAnswers))

	resp, err := h.quizService.SubmitAnswers(c.Request.Context(), id, req.UserAnswers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportQuiz downloads a quiz as an Excel workbook
// @Summary Export quiz
// @Tags quizzes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quiz ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	data, err := h.transferService.ExportQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ImportQuiz creates a quiz from an uploaded Excel workbook
// @Summary Import quiz
// @Tags quizzes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook produced by the export endpoint"
// @Success 201 {object} QuizView
// @Failure 400 {object} ErrorResponse
// @Router /quizzes/import [post]
func (h *QuizHandler) ImportQuiz(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "File is required", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing quiz", "filename", header.Filename, "size", header.Size)

	quiz, err := h.transferService.ImportQuiz(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondWithQuiz(c, http.StatusCreated, quiz)
}

func (h *QuizHandler) respondWithQuiz(c *gin.Context, status int, quiz *models.Quiz) {
	view, err := NewQuizView(quiz)
	if err != nil {
		h.handleServiceError(c, fmt.Errorf("quiz %s: %w", quiz.ID, err))
		return
	}
	c.JSON(status, view)
}

func (h *QuizHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err, validationErrors)
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err,
			services.ValidationErrors{*validationError})
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, CodeQuizNotFound, "Quiz not found", err)
	case errors.Is(err, grading.ErrAnswerCountMismatch):
		h.RespondWithError(c, http.StatusUnprocessableEntity, CodeAnswerCount, "Number of answers does not match number of exercises", err, err.Error())
	case errors.Is(err, grading.ErrEmptyQuiz):
		h.RespondWithError(c, http.StatusUnprocessableEntity, CodeEmptyQuiz, "Quiz has no exercises", err)
	case errors.Is(err, models.ErrUnknownExerciseType):
		h.RespondWithError(c, http.StatusInternalServerError, CodeUnknownExercise, "Quiz contains an unsupported exercise", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error", err)
	}
}
