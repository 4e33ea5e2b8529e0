package main

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/cached"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/pkg"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var flushCache bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres quiz tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := utils.NewSlog(cfg.Environment)

			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to access database handle: %w", err)
			}
			defer sqlDB.Close()

			start := time.Now()
			if err := postgres.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("Migration completed", "duration", time.Since(start))

			if !flushCache {
				return nil
			}

			client, err := pkg.NewRedisClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			repo := cached.NewQuizRepository(postgres.NewQuizPostgreSQL(db), cache.NewRedisCache(client, logger), cfg.Cache.TTL, logger)
			if err := repo.Invalidate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Quiz cache flushed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&flushCache, "flush-cache", false, "Drop cached quizzes from redis after migrating")
	return cmd
}
