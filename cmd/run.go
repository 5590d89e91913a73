package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/app"
	"github.com/abhisek/monarch/internal/config"
)

// openApp resolves configuration and opens the store, catalog and progress
// service. Flags beat MONARCH_* env vars, which beat the config file.
func openApp(cmd *cobra.Command) (*app.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(settings, path)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(cmd.Context(), cfg, app.Options{})
	if err != nil {
		return nil, fmt.Errorf("start monarch: %w", err)
	}
	return a, nil
}

// warnPersist reports a non-fatal persistence failure. Progress has still
// been recorded for this run.
func warnPersist(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: progress was not saved:", err)
	}
}
