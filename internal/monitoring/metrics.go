package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for graded submissions
const (
	OutcomeGraded   = "graded"
	OutcomeRejected = "rejected"
)

// Metrics holds the service's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	QuizzesCreated    prometheus.Counter
	Submissions       *prometheus.CounterVec
	SubmissionScores  prometheus.Histogram
	ValidationRejects *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),

		QuizzesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_created_total",
			Help: "Total number of quizzes created",
		}),

		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_submissions_total",
				Help: "Total number of answer submissions by outcome",
			},
			[]string{"outcome"},
		),

		SubmissionScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_submission_score",
			Help:    "Scores of graded submissions",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),

		ValidationRejects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_validation_errors_total",
				Help: "Authoring validation errors by rule",
			},
			[]string{"rule"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.QuizzesCreated,
		m.Submissions,
		m.SubmissionScores,
		m.ValidationRejects,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveQuizCreated() {
	m.QuizzesCreated.Inc()
}

func (m *Metrics) ObserveValidationRule(rule string) {
	m.ValidationRejects.WithLabelValues(rule).Inc()
}

func (m *Metrics) ObserveGraded(score int) {
	m.Submissions.WithLabelValues(OutcomeGraded).Inc()
	m.SubmissionScores.Observe(float64(score))
}

func (m *Metrics) ObserveRejected() {
	m.Submissions.WithLabelValues(OutcomeRejected).Inc()
}

func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
