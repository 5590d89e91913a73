package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/config"
)

// settings carries config defaults, env overrides and bound flags.
var settings = config.New()

var rootCmd = &cobra.Command{
	Use:   "monarch",
	Short: "Etiquette practice and progress tracker",
	Long: "Monarch helps you learn etiquette through short lessons, quizzes and scenarios, " +
		"and track your grace score, skills and daily streak.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a monarch.yaml config file")
	flags.String("db", "", "Path to SQLite database file (overrides MONARCH_DB env var)")
	flags.String("user", "", "Learner name used to scope stored progress")

	_ = settings.BindPFlag("store.path", flags.Lookup("db"))
	_ = settings.BindPFlag("user", flags.Lookup("user"))

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(adviceCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
