package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-service/internal/monitoring"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/cached"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/SAP-F-2025/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

// app owns every long-lived dependency of the server process
type app struct {
	router  *gin.Engine
	closers []func() error
	logger  *slog.Logger
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	repo, err := a.buildRepository(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	a.closers = append(a.closers, publisher.Close)

	v := validator.New()
	metrics := monitoring.New()
	quizService := services.NewQuizService(repo, publisher, metrics, v, logger)
	transferService := services.NewImportExportService(quizService, logger)
	feedbackService := services.NewFeedbackService(publisher, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	hm := handlers.NewHandlerManager(quizService, transferService, feedbackService, v, metrics, utils.NewSlogLogger(logger))
	a.router = hm.NewRouter()

	return a, nil
}

func (a *app) buildRepository(ctx context.Context, cfg *config.Config) (repositories.QuizRepository, error) {
	var repo repositories.QuizRepository

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		repo = postgres.NewQuizPostgreSQL(db)
		a.logger.Info("Using postgres quiz storage")
	default:
		repo = memory.NewQuizRepository()
		a.logger.Info("Using in-memory quiz storage")
	}

	if !cfg.Cache.Enabled {
		return repo, nil
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("Quiz cache enabled", "ttl", cfg.Cache.TTL)

	return cached.NewQuizRepository(repo, cache.NewRedisCache(client, a.logger), cfg.Cache.TTL, a.logger), nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
