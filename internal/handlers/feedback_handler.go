package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// SubmitFeedbackRequest is free-text feedback about the page at PagePath
type SubmitFeedbackRequest struct {
	Text     string `json:"text" validate:"required,max=2000"`
	PagePath string `json:"pagePath" validate:"required,max=512"`
}

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
	validator       *validator.Validator
}

func NewFeedbackHandler(feedbackService services.FeedbackService, validator *validator.Validator, logger utils.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
		validator:       validator,
	}
}

// SubmitFeedback accepts learner feedback
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body SubmitFeedbackRequest true "Feedback"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload", err, err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		var validationErrors services.ValidationErrors
		if errors.As(err, &validationErrors) {
			h.RespondWithError(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err, validationErrors)
			return
		}
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Submitting feedback", "page_path", req.PagePath)

	err := h.feedbackService.SubmitFeedback(c.Request.Context(), &models.Feedback{
		Text:     req.Text,
		PagePath: req.PagePath,
	})
	if err != nil {
		if errors.Is(err, services.ErrFeedbackNotDelivered) {
			h.RespondWithError(c, http.StatusServiceUnavailable, CodeFeedbackUndelivered, "Feedback could not be delivered", err)
			return
		}
		h.RespondWithError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
