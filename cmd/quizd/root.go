package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizd",
		Short:         "Language quiz service",
		Long:          "quizd serves language quizzes over HTTP, grades submitted answers and manages quiz storage.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newGradeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
