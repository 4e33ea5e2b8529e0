package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/monitoring"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler     *QuizHandler
	feedbackHandler *FeedbackHandler
	metrics         *monitoring.Metrics
	logger          utils.Logger
}

func NewHandlerManager(
	quizService services.QuizService,
	transferService services.ImportExportService,
	feedbackService services.FeedbackService,
	validator *validator.Validator,
	metrics *monitoring.Metrics,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:     NewQuizHandler(quizService, transferService, validator, logger),
		feedbackHandler: NewFeedbackHandler(feedbackService, validator, logger),
		metrics:         metrics,
		logger:          logger,
	}
}

// NewRouter builds a gin engine with the service middleware stack and all routes
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		hm.metrics.MetricsMiddleware(),
	)

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", hm.metrics.PrometheusHandler())

	v1 := router.Group("/api/v1")
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.POST("/import", hm.quizHandler.ImportQuiz)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/answers", hm.quizHandler.SubmitAnswers)
			quizzes.GET("/:id/export", hm.quizHandler.ExportQuiz)
		}

		v1.POST("/feedback", hm.feedbackHandler.SubmitFeedback)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-service",
	})
}
