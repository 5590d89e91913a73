package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/monarch/internal/progress"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the learner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		printProfile(cmd.OutOrStdout(), a.Progress.Profile())
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update profile fields. Only flags that are given change.

--reason and --goal toggle a selection and accept the option number
shown by "monarch profile show" or its full text. Both may repeat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Progress.Profile()
		flags := cmd.Flags()
		if flags.Changed("name") {
			p.FullName, _ = flags.GetString("name")
		}
		if flags.Changed("age") {
			age, _ := flags.GetString("age")
			p.Age = progress.ParseAge(age)
		}
		reasons, _ := flags.GetStringArray("reason")
		for _, r := range reasons {
			reason, err := pick(r, progress.AllPrimaryReasons())
			if err != nil {
				return fmt.Errorf("--reason: %w", err)
			}
			p.ToggleReason(reason)
		}
		goals, _ := flags.GetStringArray("goal")
		for _, g := range goals {
			goal, err := pick(g, progress.AllRefinementGoals())
			if err != nil {
				return fmt.Errorf("--goal: %w", err)
			}
			p.ToggleGoal(goal)
		}

		warnPersist(cmd, a.Progress.SaveProfile(cmd.Context(), p))
		printProfile(cmd.OutOrStdout(), a.Progress.Profile())
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("name", "", "Full name")
	profileSetCmd.Flags().String("age", "", "Age in years (anything else is stored as 0)")
	profileSetCmd.Flags().StringArray("reason", nil, "Toggle a primary reason (number or text)")
	profileSetCmd.Flags().StringArray("goal", nil, "Toggle a refinement goal (number or text)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

// pick resolves a 1-based option number or a case-insensitive option text.
func pick[T ~string](val string, options []T) (T, error) {
	val = strings.TrimSpace(val)
	if n, err := strconv.Atoi(val); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("option %d out of range 1-%d", n, len(options))
		}
		return options[n-1], nil
	}
	for _, o := range options {
		if strings.EqualFold(val, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown option %q", val)
}

func printProfile(w io.Writer, p progress.UserProfile) {
	name := p.FullName
	if name == "" {
		name = "(not set)"
	}
	age := "(not set)"
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}
	fmt.Fprintf(w, "Name  %s\nAge   %s\n", name, age)

	fmt.Fprintln(w, "\nWhy you're here")
	for i, r := range progress.AllPrimaryReasons() {
		fmt.Fprintf(w, "  %s %d) %s\n", check(p.HasReason(r)), i+1, r)
	}
	fmt.Fprintln(w, "\nRefinement goals")
	for i, g := range progress.AllRefinementGoals() {
		fmt.Fprintf(w, "  %s %d) %s\n", check(p.HasGoal(g)), i+1, g)
	}
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
