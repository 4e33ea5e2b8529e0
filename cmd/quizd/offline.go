package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <quiz.json>",
		Short: "Check an authored quiz file and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readQuizDefinition(args[0])
			if err != nil {
				return err
			}

			errs := validator.New().ValidateQuiz(def)
			if len(errs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", e.Field, e.Message, e.Rule)
			}
			return errs
		},
	}
}

func newGradeCmd() *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "grade <quiz.json>",
		Short: "Grade answers against a quiz file without running the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := readQuizDefinition(args[0])
			if err != nil {
				return err
			}
			if errs := validator.New().ValidateQuiz(def); len(errs) > 0 {
				return errs
			}

			quiz, err := def.Build()
			if err != nil {
				return err
			}

			var answers []*string
			if err := readJSON(answersPath, &answers); err != nil {
				return err
			}

			resp, err := grading.Grade(quiz, answers)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON file holding an array of answers, null for unanswered")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func readQuizDefinition(path string) (*models.QuizDefinition, error) {
	var def models.QuizDefinition
	if err := readJSON(path, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
