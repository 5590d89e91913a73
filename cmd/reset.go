package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and the profile for the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "This erases all progress. Type \"reset\" to confirm: ")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "reset" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		warnPersist(cmd, a.Progress.Reset(cmd.Context()))
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %q erased.\n", a.Config.User)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
