package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Show today's etiquette tip and featured category",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		if all {
			for _, adv := range a.Catalog.DailyAdvice() {
				fmt.Fprintf(out, "%-6s %s\n", adv.ID, adv.Tip)
			}
			return nil
		}

		adv, ok := a.Catalog.TodayAdvice(a.Now())
		if !ok {
			fmt.Fprintln(out, "No advice available.")
			return nil
		}
		fmt.Fprintf(out, "Today's advice\n  %s\n", adv.Tip)
		if c, ok := a.Catalog.FeaturedCategory(); ok {
			fmt.Fprintf(out, "\nFeatured: %s (%s)\n  %s\n", c.Title, c.ID, c.Subtitle)
		}
		return nil
	},
}

func init() {
	adviceCmd.Flags().Bool("all", false, "List the whole advice rotation")
}
